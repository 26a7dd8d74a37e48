package commentservice

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Comment is the persisted comment document. User and Blog hold the ids of
// the authoring user and the parent blog; both parents carry the comment's
// id in their comments reference lists.
type Comment struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text string             `bson:"text" json:"text"`
	Date string             `bson:"date" json:"date"`
	User primitive.ObjectID `bson:"user" json:"user"`
	Blog primitive.ObjectID `bson:"blog" json:"blog"`
}

type CommentModel struct {
	comments *mongo.Collection
	users    *mongo.Collection
	blogs    *mongo.Collection
}

type CommentService struct {
	db *mongo.Database
	m  *CommentModel
}
