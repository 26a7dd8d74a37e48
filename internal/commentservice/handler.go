package commentservice

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/common"
)

func NewCommentService(db *mongo.Database) *CommentService {
	return &CommentService{db: db, m: NewCommentModel(db)}
}

type AddCommentRequest struct {
	Text   string `json:"text"`
	Date   string `json:"date"`
	BlogID string `json:"blog"`
	UserID string `json:"user"`
}

// AddCommentToBlog creates a comment and appends its id to both the
// authoring user's and the parent blog's comments lists, all in one
// transaction. Either parent missing aborts the transaction.
func (s *CommentService) AddCommentToBlog(ctx context.Context, req *AddCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateText(v, req.Text)
	validateDate(v, req.Date)
	blogID := v.CheckID(req.BlogID, "blog")
	userID := v.CheckID(req.UserID, "user")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	res, err := common.WithTransaction(ctx, s.db, func(sc mongo.SessionContext) (any, error) {
		userOK, err := s.m.userExists(sc, userID)
		if err != nil {
			return nil, err
		}

		blogOK, err := s.m.blogExists(sc, blogID)
		if err != nil {
			return nil, err
		}

		if !userOK || !blogOK {
			return nil, ErrNotFound
		}

		comment := Comment{
			ID:   primitive.NewObjectID(),
			Text: req.Text,
			Date: req.Date,
			User: userID,
			Blog: blogID,
		}

		if err := s.m.addRefs(sc, &comment); err != nil {
			return nil, err
		}

		if err := s.m.insert(sc, &comment); err != nil {
			return nil, err
		}

		return &comment, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*Comment), nil
}

// DeleteComment removes a comment and pulls its id from both parents'
// comments lists in the same transaction. Returns the deleted comment's
// last-known value.
func (s *CommentService) DeleteComment(ctx context.Context, id string) (*Comment, error) {
	v := common.NewValidator()
	commentID := v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	res, err := common.WithTransaction(ctx, s.db, func(sc mongo.SessionContext) (any, error) {
		comment, err := s.m.getByID(sc, commentID)
		if err != nil {
			return nil, err
		}

		userOK, err := s.m.userExists(sc, comment.User)
		if err != nil {
			return nil, err
		}
		if !userOK {
			return nil, ErrUserNotLinked
		}

		blogOK, err := s.m.blogExists(sc, comment.Blog)
		if err != nil {
			return nil, err
		}
		if !blogOK {
			return nil, ErrBlogNotLinked
		}

		if err := s.m.removeRefs(sc, comment); err != nil {
			return nil, err
		}

		if err := s.m.delete(sc, comment.ID); err != nil {
			return nil, err
		}

		return comment, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*Comment), nil
}

// Comments returns every comment document.
func (s *CommentService) Comments(ctx context.Context) ([]Comment, error) {
	return s.m.getAll(ctx)
}
