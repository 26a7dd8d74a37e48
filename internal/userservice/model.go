package userservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("user exists")
	ErrNotFound       = errors.New("user doesn't exist")
)

func NewUserModel(db *mongo.Database) *UserModel {
	return &UserModel{users: db.Collection(common.UserCollection)}
}

// insert persists a new user. The unique email index turns a duplicate-key
// race between concurrent signups into ErrDuplicateEmail.
func (m *UserModel) insert(ctx context.Context, u *User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}

	_, err := m.users.InsertOne(ctx, u)
	if err != nil {
		switch {
		case mongo.IsDuplicateKeyError(err):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *UserModel) getAll(ctx context.Context) ([]User, error) {
	cursor, err := m.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}
