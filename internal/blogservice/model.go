package blogservice

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
	ErrBlogNotFound  = errors.New("blog not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserNotLinked = errors.New("user not linked")
)

func NewBlogModel(db *mongo.Database) *BlogModel {
	return &BlogModel{
		blogs: db.Collection(common.BlogCollection),
		users: db.Collection(common.UserCollection),
	}
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}

	_, err := m.blogs.InsertOne(ctx, b)
	return err
}

func (m *BlogModel) getByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var b Blog
	err := m.blogs.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrBlogNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

// update sets title and content only; date and user are immutable after
// creation. Returns the updated document.
func (m *BlogModel) update(ctx context.Context, id primitive.ObjectID, title, content string) (*Blog, error) {
	var b Blog
	err := m.blogs.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"title": title, "content": content}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrBlogNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *BlogModel) delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.blogs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (m *BlogModel) getAll(ctx context.Context) ([]Blog, error) {
	cursor, err := m.blogs.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blogs := []Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}

	return blogs, nil
}

// userExists reports whether the referenced owner document is present.
func (m *BlogModel) userExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := m.users.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
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

// addUserBlogRef appends the blog id to the owner's blogs reference list.
// Must run in the same transaction as the blog insert.
func (m *BlogModel) addUserBlogRef(ctx context.Context, userID, blogID primitive.ObjectID) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"blogs": blogID}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// removeUserBlogRef removes the blog id from the owner's blogs reference
// list. Must run in the same transaction as the blog delete.
func (m *BlogModel) removeUserBlogRef(ctx context.Context, userID, blogID primitive.ObjectID) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"blogs": blogID}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return ErrUserNotLinked
	}

	return nil
}
