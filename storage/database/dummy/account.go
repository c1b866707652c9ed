package dummydb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/account"
)

type accountRepository struct {
	db *accountTable
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) query() []account.Account {
	accts := make([]account.Account, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		accts = append(accts, *a)
	}
	return accts
}

func (repo *accountRepository) CheckUsernameUniqueness(_ context.Context, username string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acct := range repo.query() {
		if acct.Username == username {
			return account.ErrUsernameTaken
		}
	}
	return nil
}

func (repo *accountRepository) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	acct.ID = primitive.NewObjectID()
	repo.db.table[acct.ID] = &acct
	return acct, nil
}

func (repo *accountRepository) GetAccountByUsername(_ context.Context, username string) (account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acct := range repo.query() {
		if acct.Username == username {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) FilterStudentsByClass(_ context.Context, classID primitive.ObjectID) ([]account.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]account.Account, 0)
	for _, acct := range repo.query() {
		if acct.IsStudent() && acct.ClassID == classID {
			students = append(students, acct)
		}
	}
	return students, nil
}
