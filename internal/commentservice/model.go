package commentservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogql/blogql/internal/common"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotFound        = errors.New("user or blog not found")
	ErrUserNotLinked   = errors.New("user not linked")
	ErrBlogNotLinked   = errors.New("blog not linked")
)

func NewCommentModel(db *mongo.Database) *CommentModel {
	return &CommentModel{
		comments: db.Collection(common.CommentCollection),
		users:    db.Collection(common.UserCollection),
		blogs:    db.Collection(common.BlogCollection),
	}
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}

	_, err := m.comments.InsertOne(ctx, c)
	return err
}

func (m *CommentModel) getByID(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	var c Comment
	err := m.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrCommentNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *CommentModel) delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return ErrCommentNotFound
	}

	return nil
}

func (m *CommentModel) getAll(ctx context.Context) ([]Comment, error) {
	cursor, err := m.comments.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

func exists(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (bool, error) {
	err := coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

func (m *CommentModel) userExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return exists(ctx, m.users, id)
}

func (m *CommentModel) blogExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return exists(ctx, m.blogs, id)
}

// addRefs appends the comment id to both parents' comments reference lists.
// Must run in the same transaction as the comment insert.
func (m *CommentModel) addRefs(ctx context.Context, c *Comment) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": c.User}, bson.M{"$push": bson.M{"comments": c.ID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotLinked
	}

	res, err = m.blogs.UpdateOne(ctx, bson.M{"_id": c.Blog}, bson.M{"$push": bson.M{"comments": c.ID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotLinked
	}

	return nil
}

// removeRefs pulls the comment id from both parents' comments reference
// lists. Must run in the same transaction as the comment delete.
func (m *CommentModel) removeRefs(ctx context.Context, c *Comment) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": c.User}, bson.M{"$pull": bson.M{"comments": c.ID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotLinked
	}

	res, err = m.blogs.UpdateOne(ctx, bson.M{"_id": c.Blog}, bson.M{"$pull": bson.M{"comments": c.ID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotLinked
	}

	return nil
}
