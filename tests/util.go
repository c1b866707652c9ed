package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
)

// Logger is a core.Logger that writes through the test log.
type Logger struct {
	T *testing.T
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t *testing.T) *Logger { return &Logger{T: t} }

func (l *Logger) Enable(bool)                           {}
func (l *Logger) log(msg string, args []interface{})    { l.T.Logf("%s %v", msg, args) }
func (l *Logger) Debug(msg string, args ...interface{}) { l.log(msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.T.Fatal(msg, args) }

func CreateClass(t *testing.T, repo school.Repository, name, code, owner string) school.Class {
	cls, err := repo.CreateClass(context.Background(), school.Class{
		Name:      name,
		Code:      code,
		CreatedBy: owner,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateClass(): %v", err)
	}
	return cls
}

func CreateAssignment(t *testing.T, repo school.Repository, classID primitive.ObjectID, topic string, deadline time.Time) school.Assignment {
	a, err := repo.CreateAssignment(context.Background(), school.Assignment{
		Topic:     topic,
		Deadline:  deadline,
		ClassID:   classID,
		CreatedBy: "teacher",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignment(): %v", err)
	}
	return a
}

func CreateAccount(t *testing.T, repo account.Repository, username, pwd, role, studentID string, classID primitive.ObjectID) account.Account {
	acct := account.Account{
		Username:  username,
		Role:      role,
		StudentID: studentID,
		ClassID:   classID,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := acct.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount(): %v", err)
		}
	}
	acct, err := repo.CreateAccount(context.Background(), acct)
	if err != nil {
		t.Fatalf("CreateAccount(): %v", err)
	}
	return acct
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	studentID, username string,
	assignmentID primitive.ObjectID,
	filePath string,
) submission.Submission {
	sub, err := repo.CreateSubmission(context.Background(), submission.Submission{
		StudentID:    studentID,
		Username:     username,
		AssignmentID: assignmentID,
		FilePath:     filePath,
		Date:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubmission(): %v", err)
	}
	return sub
}
