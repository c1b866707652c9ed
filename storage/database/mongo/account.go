package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/kazi/core/account"
)

type accountRepository struct {
	col *mongo.Collection
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *mongo.Database) account.Repository {
	return &accountRepository{col: db.Collection(accountCollection)}
}

func (repo *accountRepository) CheckUsernameUniqueness(ctx context.Context, username string) error {
	err := repo.col.FindOne(ctx, bson.M{"username": username}).Err()
	switch err {
	case mongo.ErrNoDocuments:
		return nil
	case nil:
		return account.ErrUsernameTaken
	default:
		return err
	}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	acct.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, acct); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return account.Account{}, account.ErrUsernameTaken
		}
		return account.Account{}, err
	}
	return acct, nil
}

func (repo *accountRepository) GetAccountByUsername(ctx context.Context, username string) (account.Account, error) {
	var acct account.Account
	err := repo.col.FindOne(ctx, bson.M{"username": username}).Decode(&acct)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return acct, nil
}

func (repo *accountRepository) FilterStudentsByClass(ctx context.Context, classID primitive.ObjectID) ([]account.Account, error) {
	cur, err := repo.col.Find(ctx, bson.M{"classId": classID, "role": account.RoleStudent})
	if err != nil {
		return nil, err
	}
	students := make([]account.Account, 0)
	if err = cur.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}
