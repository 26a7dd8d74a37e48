package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("incorrect password")
)

func NewUserService(db *mongo.Database, mb common.MessageProducer) *UserService {
	return &UserService{
		db: db,
		m:  NewUserModel(db),
		mb: mb,
	}
}

// Signup creates a new user account and publishes a user.created event. An
// existing account with the same email is a conflict, detected both by the
// pre-check and by the unique index on insert.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*User, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	res, err := common.WithTransaction(ctx, s.db, func(sc mongo.SessionContext) (any, error) {
		_, err := s.m.getByEmail(sc, email)
		if err == nil {
			return nil, ErrDuplicateEmail
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		u := User{
			Name:     name,
			Email:    email,
			Blogs:    []primitive.ObjectID{},
			Comments: []primitive.ObjectID{},
		}

		if err := u.Password.set(password); err != nil {
			return nil, err
		}

		if err := s.m.insert(sc, &u); err != nil {
			return nil, err
		}

		return &u, nil
	})
	if err != nil {
		return nil, err
	}

	user := res.(*User)

	data := struct {
		Name  string
		Email string
	}{
		Name:  user.Name,
		Email: user.Email,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	if err := s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the password of an existing account. Read-only; no
// transaction is needed.
func (s *UserService) Login(ctx context.Context, email, password string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return user, nil
}

// Users returns every user document.
func (s *UserService) Users(ctx context.Context) ([]User, error) {
	return s.m.getAll(ctx)
}
