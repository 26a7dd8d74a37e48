package blogservice

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

func NewBlogService(db *mongo.Database) *BlogService {
	return &BlogService{db: db, m: NewBlogModel(db)}
}

type AddBlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	UserID  string `json:"user"`
}

// AddBlog creates a new blog post and appends its id to the owning user's
// blogs list. Both writes happen in one transaction; a missing user aborts
// it without touching either collection.
func (s *BlogService) AddBlog(ctx context.Context, req *AddBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateDate(v, req.Date)
	userID := v.CheckID(req.UserID, "user")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	res, err := common.WithTransaction(ctx, s.db, func(sc mongo.SessionContext) (any, error) {
		ok, err := s.m.userExists(sc, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUserNotFound
		}

		blog := Blog{
			ID:       primitive.NewObjectID(),
			Title:    req.Title,
			Content:  sanitizeContent(req.Content),
			Date:     req.Date,
			User:     userID,
			Comments: []primitive.ObjectID{},
		}

		if err := s.m.addUserBlogRef(sc, userID, blog.ID); err != nil {
			return nil, err
		}

		if err := s.m.insert(sc, &blog); err != nil {
			return nil, err
		}

		return &blog, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*Blog), nil
}

// UpdateBlog rewrites title and content of an existing post. Single-document
// write; no transaction.
func (s *BlogService) UpdateBlog(ctx context.Context, id, title, content string) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, content)
	blogID := v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.update(ctx, blogID, title, sanitizeContent(content))
}

// DeleteBlog removes a blog post and pulls its id from the owner's blogs
// list in the same transaction. Comments attached to the blog are not
// cascaded. Returns the deleted post's last-known value.
func (s *BlogService) DeleteBlog(ctx context.Context, id string) (*Blog, error) {
	v := common.NewValidator()
	blogID := v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	res, err := common.WithTransaction(ctx, s.db, func(sc mongo.SessionContext) (any, error) {
		blog, err := s.m.getByID(sc, blogID)
		if err != nil {
			return nil, err
		}

		ok, err := s.m.userExists(sc, blog.User)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUserNotLinked
		}

		if err := s.m.removeUserBlogRef(sc, blog.User, blog.ID); err != nil {
			return nil, err
		}

		if err := s.m.delete(sc, blog.ID); err != nil {
			return nil, err
		}

		return blog, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*Blog), nil
}

// Blogs returns every blog document.
func (s *BlogService) Blogs(ctx context.Context) ([]Blog, error) {
	return s.m.getAll(ctx)
}
