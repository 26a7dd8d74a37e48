package blogservice

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

func insertTestUser(t *testing.T, db *mongo.Database, email string) primitive.ObjectID {
	id := primitive.NewObjectID()
	_, err := db.Collection(common.UserCollection).InsertOne(context.Background(), bson.M{
		"_id":      id,
		"name":     "Tester",
		"email":    email,
		"password": bson.M{"hash": []byte("irrelevant")},
		"blogs":    bson.A{},
		"comments": bson.A{},
	})
	if err != nil {
		t.Fatalf("could not insert test user: %v", err)
	}

	return id
}

func userBlogRefs(t *testing.T, db *mongo.Database, userID primitive.ObjectID) []primitive.ObjectID {
	var u struct {
		Blogs []primitive.ObjectID `bson:"blogs"`
	}
	err := db.Collection(common.UserCollection).FindOne(context.Background(), bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		t.Fatalf("could not load test user: %v", err)
	}

	return u.Blogs
}

func TestAddBlog(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	testCases := []struct {
		name    string
		req     AddBlogRequest
		wantErr error
	}{
		{
			name: "valid blog",
			req:  AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: userID.Hex()},
		},
		{
			name:    "empty title",
			req:     AddBlogRequest{Content: "C", Date: "2024-01-01", UserID: userID.Hex()},
			wantErr: common.ValidationError{},
		},
		{
			name:    "malformed user id",
			req:     AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: "zzz"},
			wantErr: common.ValidationError{},
		},
		{
			name:    "missing user",
			req:     AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: primitive.NewObjectID().Hex()},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testCtx(t)

			blog, err := s.AddBlog(ctx, &tc.req)

			if tc.wantErr != nil {
				if errors.As(tc.wantErr, &common.ValidationError{}) {
					assert.True(t, errors.As(err, &common.ValidationError{}))
				} else {
					assert.ErrorIs(t, err, tc.wantErr)
				}
				assert.Nil(t, blog)
				return
			}

			assert.NoError(t, err)
			assert.False(t, blog.ID.IsZero())
			assert.Equal(t, userID, blog.User)
			assert.Empty(t, blog.Comments)

			// Both sides of the relationship were written: the blog exists
			// and its id (not the user's own id) is on the owner's list.
			refs := userBlogRefs(t, db, userID)
			assert.Contains(t, refs, blog.ID)
			assert.NotContains(t, refs, userID)

			count, err := db.Collection(common.BlogCollection).CountDocuments(ctx, bson.M{"_id": blog.ID})
			assert.NoError(t, err)
			assert.EqualValues(t, 1, count)
		})
	}
}

func TestAddBlogMissingUserLeavesNoPartialWrites(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)

	ctx := testCtx(t)

	_, err := s.AddBlog(ctx, &AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, ErrUserNotFound)

	count, err := db.Collection(common.BlogCollection).CountDocuments(ctx, bson.M{})
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestAddBlogSanitizesContent(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	blog, err := s.AddBlog(testCtx(t), &AddBlogRequest{
		Title:   "T",
		Content: `before<script>alert("x")</script>after`,
		Date:    "2024-01-01",
		UserID:  userID.Hex(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "beforeafter", blog.Content)
}

func TestUpdateBlog(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	ctx := testCtx(t)

	blog, err := s.AddBlog(ctx, &AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: userID.Hex()})
	assert.NoError(t, err)

	updated, err := s.UpdateBlog(ctx, blog.ID.Hex(), "New Title", "New Content")
	assert.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "New Content", updated.Content)

	// date and user are immutable after creation
	assert.Equal(t, blog.Date, updated.Date)
	assert.Equal(t, blog.User, updated.User)

	fetched, err := s.m.getByID(ctx, blog.ID)
	assert.NoError(t, err)
	assert.Equal(t, "New Title", fetched.Title)
	assert.Equal(t, "New Content", fetched.Content)
	assert.Equal(t, blog.Date, fetched.Date)
	assert.Equal(t, blog.User, fetched.User)
}

func TestUpdateBlogNotFound(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)

	_, err := s.UpdateBlog(testCtx(t), primitive.NewObjectID().Hex(), "T", "C")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestDeleteBlog(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	ctx := testCtx(t)

	blog, err := s.AddBlog(ctx, &AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: userID.Hex()})
	assert.NoError(t, err)

	deleted, err := s.DeleteBlog(ctx, blog.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, blog.ID, deleted.ID)
	assert.Equal(t, blog.Title, deleted.Title)

	_, err = s.m.getByID(ctx, blog.ID)
	assert.ErrorIs(t, err, ErrBlogNotFound)

	assert.NotContains(t, userBlogRefs(t, db, userID), blog.ID)
}

func TestDeleteBlogNotFoundLeavesStateUnchanged(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	ctx := testCtx(t)

	blog, err := s.AddBlog(ctx, &AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: userID.Hex()})
	assert.NoError(t, err)

	_, err = s.DeleteBlog(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrBlogNotFound)

	count, err := db.Collection(common.BlogCollection).CountDocuments(ctx, bson.M{})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.Contains(t, userBlogRefs(t, db, userID), blog.ID)
}

func TestDeleteBlogOwnerMissing(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	ctx := testCtx(t)

	blog, err := s.AddBlog(ctx, &AddBlogRequest{Title: "T", Content: "C", Date: "2024-01-01", UserID: userID.Hex()})
	assert.NoError(t, err)

	_, err = db.Collection(common.UserCollection).DeleteOne(ctx, bson.M{"_id": userID})
	assert.NoError(t, err)

	_, err = s.DeleteBlog(ctx, blog.ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotLinked)

	// the blog survives the aborted transaction
	count, err := db.Collection(common.BlogCollection).CountDocuments(ctx, bson.M{"_id": blog.ID})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestBlogs(t *testing.T) {
	db := common.TestDB(t)
	s := NewBlogService(db)
	userID := insertTestUser(t, db, "author@x.io")

	ctx := testCtx(t)

	blogs, err := s.Blogs(ctx)
	assert.NoError(t, err)
	assert.Empty(t, blogs)

	_, err = s.AddBlog(ctx, &AddBlogRequest{Title: "A", Content: "C", Date: "2024-01-01", UserID: userID.Hex()})
	assert.NoError(t, err)

	_, err = s.AddBlog(ctx, &AddBlogRequest{Title: "B", Content: "C", Date: "2024-01-02", UserID: userID.Hex()})
	assert.NoError(t, err)

	blogs, err = s.Blogs(ctx)
	assert.NoError(t, err)
	assert.Len(t, blogs, 2)
}
