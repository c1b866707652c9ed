package dummydb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
)

// DB is an in-memory document store used in tests and local development.
type (
	DB struct {
		account    *accountTable
		class      *classTable
		assignment *assignmentTable
		submission *submissionTable
	}

	accountTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*account.Account
	}

	classTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*school.Class
	}

	assignmentTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*school.Assignment
	}

	submissionTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*submission.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		account:    &accountTable{table: make(map[primitive.ObjectID]*account.Account)},
		class:      &classTable{table: make(map[primitive.ObjectID]*school.Class)},
		assignment: &assignmentTable{table: make(map[primitive.ObjectID]*school.Assignment)},
		submission: &submissionTable{table: make(map[primitive.ObjectID]*submission.Submission)},
	}
	return db, nil
}
