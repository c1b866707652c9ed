package dummydb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/school"
)

type schoolRepository struct {
	classes     *classTable
	assignments *assignmentTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{classes: db.class, assignments: db.assignment}
}

func (repo *schoolRepository) queryClasses() []school.Class {
	classes := make([]school.Class, 0, len(repo.classes.table))
	for _, c := range repo.classes.table {
		classes = append(classes, *c)
	}
	return classes
}

func (repo *schoolRepository) queryAssignments() []school.Assignment {
	assignments := make([]school.Assignment, 0, len(repo.assignments.table))
	for _, a := range repo.assignments.table {
		assignments = append(assignments, *a)
	}
	return assignments
}

func (repo *schoolRepository) CheckCodeUniqueness(_ context.Context, code string) error {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	for _, cls := range repo.queryClasses() {
		if cls.Code == code {
			return school.ErrCodeTaken
		}
	}
	return nil
}

func (repo *schoolRepository) CreateClass(_ context.Context, cls school.Class) (school.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	cls.ID = primitive.NewObjectID()
	repo.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *schoolRepository) QueryAllClasses(_ context.Context) ([]school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()
	return repo.queryClasses(), nil
}

func (repo *schoolRepository) FilterClassesByOwner(_ context.Context, username string) ([]school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	classes := make([]school.Class, 0)
	for _, cls := range repo.queryClasses() {
		if cls.CreatedBy == username {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (repo *schoolRepository) GetClassByID(_ context.Context, id primitive.ObjectID) (school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	if cls, ok := repo.classes.table[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) GetClassByIDAndOwner(_ context.Context, id primitive.ObjectID, owner string) (school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	if cls, ok := repo.classes.table[id]; ok && cls.CreatedBy == owner {
		return *cls, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) DeleteClassByID(_ context.Context, id primitive.ObjectID) error {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	delete(repo.classes.table, id)
	return nil
}

func (repo *schoolRepository) CreateAssignment(_ context.Context, a school.Assignment) (school.Assignment, error) {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	a.ID = primitive.NewObjectID()
	repo.assignments.table[a.ID] = &a
	return a, nil
}

func (repo *schoolRepository) GetAssignmentByID(_ context.Context, id primitive.ObjectID) (school.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	if a, ok := repo.assignments.table[id]; ok {
		return *a, nil
	}
	return school.Assignment{}, school.ErrAssignmentNotFound
}

func (repo *schoolRepository) QueryAllAssignments(_ context.Context) ([]school.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()
	return repo.queryAssignments(), nil
}

func (repo *schoolRepository) FilterAssignmentsByClass(_ context.Context, classID primitive.ObjectID) ([]school.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	assignments := make([]school.Assignment, 0)
	for _, a := range repo.queryAssignments() {
		if a.ClassID == classID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

func (repo *schoolRepository) DeleteAssignmentsByClass(_ context.Context, classID primitive.ObjectID) error {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	for id, a := range repo.assignments.table {
		if a.ClassID == classID {
			delete(repo.assignments.table, id)
		}
	}
	return nil
}
