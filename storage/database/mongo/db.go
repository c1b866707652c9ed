package mongodb

import (
	"context"

	wrap "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/kazi/core"
)

// collections
const (
	accountCollection    = "accounts"
	classCollection      = "classes"
	assignmentCollection = "assignments"
	submissionCollection = "submissions"
)

// Open connects to the configured MongoDB deployment and returns a handle on
// the application database.
func Open(ctx context.Context, conf core.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		return nil, wrap.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, wrap.Wrap(err, "pinging mongo")
	}
	return client.Database(conf.Database), nil
}

// Close disconnects the underlying client.
func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes backing the uniqueness invariants and the
// hot lookups; it is safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(accountCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return wrap.Wrap(err, "indexing accounts.username")
	}

	_, err = db.Collection(classCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return wrap.Wrap(err, "indexing classes.code")
	}

	_, err = db.Collection(assignmentCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "classId", Value: 1}},
	})
	if err != nil {
		return wrap.Wrap(err, "indexing assignments.classId")
	}

	_, err = db.Collection(submissionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "assignmentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "assignmentId", Value: 1}}},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	})
	if err != nil {
		return wrap.Wrap(err, "indexing submissions")
	}
	return nil
}
