package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/kazi/core/school"
)

type schoolRepository struct {
	classes     *mongo.Collection
	assignments *mongo.Collection
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *mongo.Database) school.Repository {
	return &schoolRepository{
		classes:     db.Collection(classCollection),
		assignments: db.Collection(assignmentCollection),
	}
}

func (repo *schoolRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	err := repo.classes.FindOne(ctx, bson.M{"code": code}).Err()
	switch err {
	case mongo.ErrNoDocuments:
		return nil
	case nil:
		return school.ErrCodeTaken
	default:
		return err
	}
}

func (repo *schoolRepository) CreateClass(ctx context.Context, cls school.Class) (school.Class, error) {
	cls.ID = primitive.NewObjectID()
	if _, err := repo.classes.InsertOne(ctx, cls); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return school.Class{}, school.ErrCodeTaken
		}
		return school.Class{}, err
	}
	return cls, nil
}

func (repo *schoolRepository) QueryAllClasses(ctx context.Context) ([]school.Class, error) {
	return repo.filterClasses(ctx, bson.M{})
}

func (repo *schoolRepository) FilterClassesByOwner(ctx context.Context, username string) ([]school.Class, error) {
	return repo.filterClasses(ctx, bson.M{"createdBy": username})
}

func (repo *schoolRepository) filterClasses(ctx context.Context, filter bson.M) ([]school.Class, error) {
	cur, err := repo.classes.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	classes := make([]school.Class, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id primitive.ObjectID) (school.Class, error) {
	return repo.getClass(ctx, bson.M{"_id": id})
}

func (repo *schoolRepository) GetClassByIDAndOwner(ctx context.Context, id primitive.ObjectID, owner string) (school.Class, error) {
	return repo.getClass(ctx, bson.M{"_id": id, "createdBy": owner})
}

func (repo *schoolRepository) getClass(ctx context.Context, filter bson.M) (school.Class, error) {
	var cls school.Class
	err := repo.classes.FindOne(ctx, filter).Decode(&cls)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, err
	}
	return cls, nil
}

func (repo *schoolRepository) DeleteClassByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := repo.classes.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (repo *schoolRepository) CreateAssignment(ctx context.Context, a school.Assignment) (school.Assignment, error) {
	a.ID = primitive.NewObjectID()
	if _, err := repo.assignments.InsertOne(ctx, a); err != nil {
		return school.Assignment{}, err
	}
	return a, nil
}

func (repo *schoolRepository) GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (school.Assignment, error) {
	var a school.Assignment
	err := repo.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Assignment{}, school.ErrAssignmentNotFound
		}
		return school.Assignment{}, err
	}
	return a, nil
}

func (repo *schoolRepository) QueryAllAssignments(ctx context.Context) ([]school.Assignment, error) {
	return repo.filterAssignments(ctx, bson.M{})
}

func (repo *schoolRepository) FilterAssignmentsByClass(ctx context.Context, classID primitive.ObjectID) ([]school.Assignment, error) {
	return repo.filterAssignments(ctx, bson.M{"classId": classID})
}

func (repo *schoolRepository) filterAssignments(ctx context.Context, filter bson.M) ([]school.Assignment, error) {
	cur, err := repo.assignments.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	assignments := make([]school.Assignment, 0)
	if err = cur.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (repo *schoolRepository) DeleteAssignmentsByClass(ctx context.Context, classID primitive.ObjectID) error {
	_, err := repo.assignments.DeleteMany(ctx, bson.M{"classId": classID})
	return err
}
