package userservice

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

type UserService struct {
	db *mongo.Database
	m  *UserModel
	mb common.MessageProducer
}

type UserModel struct {
	users *mongo.Collection
}

// User is the persisted user document. Blogs and Comments are reference
// lists holding the ids of related documents, maintained by the compound
// mutations in blogservice and commentservice.
type User struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name     string               `bson:"name" json:"name"`
	Email    string               `bson:"email" json:"email"`
	Password Password             `bson:"password" json:"-"`
	Blogs    []primitive.ObjectID `bson:"blogs" json:"blogs"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`
}

// Password holds the bcrypt hash of a user's password. The plaintext is
// never persisted and neither field is ever serialized to JSON.
type Password struct {
	Plain string `bson:"-" json:"-"`
	Hash  []byte `bson:"hash" json:"-"`
}
