package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
)

type submissionRepository struct {
	col *mongo.Collection
}

var (
	_ submission.Repository    = (*submissionRepository)(nil) // interface compliance check
	_ school.SubmissionRemover = (*submissionRepository)(nil)
)

func NewSubmissionRepository(db *mongo.Database) submission.Repository {
	return &submissionRepository{col: db.Collection(submissionCollection)}
}

func (repo *submissionRepository) GetSubmissionByStudentAndAssignment(
	ctx context.Context,
	studentID string,
	assignmentID primitive.ObjectID,
) (submission.Submission, error) {
	var sub submission.Submission
	err := repo.col.FindOne(ctx, bson.M{"studentId": studentID, "assignmentId": assignmentID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	sub.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, sub); err != nil {
		return submission.Submission{}, err
	}
	return sub, nil
}

func (repo *submissionRepository) UpdateSubmissionFile(ctx context.Context, id primitive.ObjectID, filePath string, date time.Time) error {
	res, err := repo.col.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"filePath": filePath, "date": date}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return submission.ErrNotFound
	}
	return nil
}

func (repo *submissionRepository) FilterSubmissionsByUsername(ctx context.Context, username string) ([]submission.Submission, error) {
	return repo.filter(ctx, bson.M{"username": username})
}

func (repo *submissionRepository) FilterSubmissionsByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]submission.Submission, error) {
	return repo.filter(ctx, bson.M{"assignmentId": assignmentID})
}

func (repo *submissionRepository) filter(ctx context.Context, filter bson.M) ([]submission.Submission, error) {
	cur, err := repo.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	subs := make([]submission.Submission, 0)
	if err = cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (repo *submissionRepository) DeleteSubmissionsByAssignmentIDs(ctx context.Context, ids ...primitive.ObjectID) error {
	_, err := repo.col.DeleteMany(ctx, bson.M{"assignmentId": bson.M{"$in": ids}})
	return err
}
