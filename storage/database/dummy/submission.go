package dummydb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var (
	_ submission.Repository    = (*submissionRepository)(nil) // interface compliance check
	_ school.SubmissionRemover = (*submissionRepository)(nil)
)

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) query() []submission.Submission {
	subs := make([]submission.Submission, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	return subs
}

func (repo *submissionRepository) GetSubmissionByStudentAndAssignment(
	_ context.Context,
	studentID string,
	assignmentID primitive.ObjectID,
) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.query() {
		if sub.StudentID == studentID && sub.AssignmentID == assignmentID {
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = primitive.NewObjectID()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) UpdateSubmissionFile(_ context.Context, id primitive.ObjectID, filePath string, date time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.table[id]
	if !ok {
		return submission.ErrNotFound
	}
	sub.FilePath = filePath
	sub.Date = date
	return nil
}

func (repo *submissionRepository) FilterSubmissionsByUsername(_ context.Context, username string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, sub := range repo.query() {
		if sub.Username == username {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) FilterSubmissionsByAssignment(_ context.Context, assignmentID primitive.ObjectID) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, sub := range repo.query() {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) DeleteSubmissionsByAssignmentIDs(_ context.Context, ids ...primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for id, sub := range repo.db.table {
		if _, ok := wanted[sub.AssignmentID]; ok {
			delete(repo.db.table, id)
		}
	}
	return nil
}
