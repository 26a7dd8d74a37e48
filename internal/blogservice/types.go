package blogservice

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Blog is the persisted blog document. User holds the owning user's id; the
// same relationship is denormalized into that user's blogs list. Comments
// holds the ids of comments attached to this blog.
type Blog struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title    string               `bson:"title" json:"title"`
	Content  string               `bson:"content" json:"content"`
	Date     string               `bson:"date" json:"date"`
	User     primitive.ObjectID   `bson:"user" json:"user"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`
}

type BlogModel struct {
	blogs *mongo.Collection
	users *mongo.Collection
}

type BlogService struct {
	db *mongo.Database
	m  *BlogModel
}
