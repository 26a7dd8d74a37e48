package commentservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func insertTestUser(t *testing.T, db *mongo.Database) primitive.ObjectID {
	id := primitive.NewObjectID()
	_, err := db.Collection(common.UserCollection).InsertOne(context.Background(), bson.M{
		"_id":      id,
		"name":     "Tester",
		"email":    "tester@x.io",
		"password": bson.M{"hash": []byte("irrelevant")},
		"blogs":    bson.A{},
		"comments": bson.A{},
	})
	if err != nil {
		t.Fatalf("could not insert test user: %v", err)
	}

	return id
}

func insertTestBlog(t *testing.T, db *mongo.Database, userID primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	_, err := db.Collection(common.BlogCollection).InsertOne(context.Background(), bson.M{
		"_id":      id,
		"title":    "T",
		"content":  "C",
		"date":     "2024-01-01",
		"user":     userID,
		"comments": bson.A{},
	})
	if err != nil {
		t.Fatalf("could not insert test blog: %v", err)
	}

	return id
}

func commentRefs(t *testing.T, db *mongo.Database, coll string, id primitive.ObjectID) []primitive.ObjectID {
	var doc struct {
		Comments []primitive.ObjectID `bson:"comments"`
	}
	err := db.Collection(coll).FindOne(context.Background(), bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		t.Fatalf("could not load %s document: %v", coll, err)
	}

	return doc.Comments
}

func countRef(refs []primitive.ObjectID, id primitive.ObjectID) int {
	n := 0
	for _, ref := range refs {
		if ref == id {
			n++
		}
	}
	return n
}

func TestAddCommentToBlog(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)
	userID := insertTestUser(t, db)
	blogID := insertTestBlog(t, db, userID)

	testCases := []struct {
		name    string
		req     AddCommentRequest
		wantErr error
	}{
		{
			name: "valid comment",
			req:  AddCommentRequest{Text: "nice post", Date: "2024-01-02", BlogID: blogID.Hex(), UserID: userID.Hex()},
		},
		{
			name:    "empty text",
			req:     AddCommentRequest{Date: "2024-01-02", BlogID: blogID.Hex(), UserID: userID.Hex()},
			wantErr: common.ValidationError{},
		},
		{
			name:    "missing user",
			req:     AddCommentRequest{Text: "hi", Date: "2024-01-02", BlogID: blogID.Hex(), UserID: primitive.NewObjectID().Hex()},
			wantErr: ErrNotFound,
		},
		{
			name:    "missing blog",
			req:     AddCommentRequest{Text: "hi", Date: "2024-01-02", BlogID: primitive.NewObjectID().Hex(), UserID: userID.Hex()},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testCtx(t)

			comment, err := s.AddCommentToBlog(ctx, &tc.req)

			if tc.wantErr != nil {
				if errors.As(tc.wantErr, &common.ValidationError{}) {
					assert.True(t, errors.As(err, &common.ValidationError{}))
				} else {
					assert.ErrorIs(t, err, tc.wantErr)
				}
				assert.Nil(t, comment)
				return
			}

			assert.NoError(t, err)
			assert.False(t, comment.ID.IsZero())
			assert.Equal(t, userID, comment.User)
			assert.Equal(t, blogID, comment.Blog)

			// The comment id lands on both parents' lists exactly once.
			assert.Equal(t, 1, countRef(commentRefs(t, db, common.UserCollection, userID), comment.ID))
			assert.Equal(t, 1, countRef(commentRefs(t, db, common.BlogCollection, blogID), comment.ID))
		})
	}
}

func TestAddCommentMissingParentLeavesNoPartialWrites(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)
	userID := insertTestUser(t, db)

	ctx := testCtx(t)

	_, err := s.AddCommentToBlog(ctx, &AddCommentRequest{
		Text:   "hi",
		Date:   "2024-01-02",
		BlogID: primitive.NewObjectID().Hex(),
		UserID: userID.Hex(),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := db.Collection(common.CommentCollection).CountDocuments(ctx, bson.M{})
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)

	assert.Empty(t, commentRefs(t, db, common.UserCollection, userID))
}

func TestDeleteComment(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)
	userID := insertTestUser(t, db)
	blogID := insertTestBlog(t, db, userID)

	ctx := testCtx(t)

	comment, err := s.AddCommentToBlog(ctx, &AddCommentRequest{Text: "hi", Date: "2024-01-02", BlogID: blogID.Hex(), UserID: userID.Hex()})
	assert.NoError(t, err)

	deleted, err := s.DeleteComment(ctx, comment.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, comment.ID, deleted.ID)
	assert.Equal(t, comment.Text, deleted.Text)

	_, err = s.m.getByID(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	assert.NotContains(t, commentRefs(t, db, common.UserCollection, userID), comment.ID)
	assert.NotContains(t, commentRefs(t, db, common.BlogCollection, blogID), comment.ID)
}

func TestDeleteCommentNotFound(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)

	_, err := s.DeleteComment(testCtx(t), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteCommentParentMissing(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)
	userID := insertTestUser(t, db)
	blogID := insertTestBlog(t, db, userID)

	ctx := testCtx(t)

	comment, err := s.AddCommentToBlog(ctx, &AddCommentRequest{Text: "hi", Date: "2024-01-02", BlogID: blogID.Hex(), UserID: userID.Hex()})
	assert.NoError(t, err)

	_, err = db.Collection(common.BlogCollection).DeleteOne(ctx, bson.M{"_id": blogID})
	assert.NoError(t, err)

	_, err = s.DeleteComment(ctx, comment.ID.Hex())
	assert.ErrorIs(t, err, ErrBlogNotLinked)

	// the comment survives the aborted transaction
	count, err := db.Collection(common.CommentCollection).CountDocuments(ctx, bson.M{"_id": comment.ID})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestComments(t *testing.T) {
	db := common.TestDB(t)
	s := NewCommentService(db)
	userID := insertTestUser(t, db)
	blogID := insertTestBlog(t, db, userID)

	ctx := testCtx(t)

	comments, err := s.Comments(ctx)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	_, err = s.AddCommentToBlog(ctx, &AddCommentRequest{Text: "one", Date: "2024-01-02", BlogID: blogID.Hex(), UserID: userID.Hex()})
	assert.NoError(t, err)

	_, err = s.AddCommentToBlog(ctx, &AddCommentRequest{Text: "two", Date: "2024-01-03", BlogID: blogID.Hex(), UserID: userID.Hex()})
	assert.NoError(t, err)

	comments, err = s.Comments(ctx)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
}
