package common

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	UserCollection    = "users"
	BlogCollection    = "blogs"
	CommentCollection = "comments"
)

// NewDB connects to the document store and returns a handle to the named
// database. Callers treat a failed ping as fatal: the process must not serve
// requests without storage connectivity.
func NewDB(uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return client.Database(name), nil
}

// CloseDB disconnects the underlying client of the database handle.
func CloseDB(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.Client().Disconnect(ctx)
}

// TxnOptions returns the transaction options used by every multi-document
// mutation: snapshot read concern so the transaction sees one consistent view
// of every collection it touches, majority write concern so the commit is
// durable before the operation returns.
func TxnOptions() *options.TransactionOptions {
	return options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
}

// WithTransaction runs fn inside one session-scoped transaction. The
// transaction is aborted when fn returns an error, so a failed compound
// operation leaves no partial writes behind. Collection operations join the
// transaction through the mongo.SessionContext passed to fn.
func WithTransaction(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) (any, error)) (any, error) {
	session, err := db.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn, TxnOptions())
}

// EnsureIndexes creates the indexes the application relies on, most
// importantly the unique email index that backs signup conflict detection.
// Safe to run on every startup; identical index specs are a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(BlogCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CommentCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "blog", Value: 1}}},
	})

	return err
}
