package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blogql/blogql/internal/blogservice"
	"github.com/blogql/blogql/internal/commentservice"
)

// queryRequest is the shape every request to the query endpoint takes: a
// named operation plus its arguments object.
type queryRequest struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
}

type signupArgs struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateBlogArgs struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type idArgs struct {
	ID string `json:"id"`
}

// queryHandler dispatches a named operation to the matching service call and
// wraps the result in a data payload. Malformed requests and unknown
// operations are transport errors; domain failures come back in-band via
// operationErrorResponse.
func (app *application) queryHandler(w http.ResponseWriter, r *http.Request) {
	var req queryRequest

	err := app.parseJSON(w, r, &req)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	switch req.Operation {
	case "users":
		users, err := app.userService.Users(r.Context())
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, users)

	case "blogs":
		blogs, err := app.blogService.Blogs(r.Context())
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, blogs)

	case "comments":
		comments, err := app.commentService.Comments(r.Context())
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, comments)

	case "signup":
		var args signupArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		user, err := app.userService.Signup(r.Context(), args.Name, args.Email, args.Password)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, user)

	case "login":
		var args loginArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		user, err := app.userService.Login(r.Context(), args.Email, args.Password)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, user)

	case "addBlog":
		var args blogservice.AddBlogRequest
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		blog, err := app.blogService.AddBlog(r.Context(), &args)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, blog)

	case "updateBlog":
		var args updateBlogArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		blog, err := app.blogService.UpdateBlog(r.Context(), args.ID, args.Title, args.Content)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, blog)

	case "deleteBlog":
		var args idArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		blog, err := app.blogService.DeleteBlog(r.Context(), args.ID)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, blog)

	case "addCommentToBlog":
		var args commentservice.AddCommentRequest
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		comment, err := app.commentService.AddCommentToBlog(r.Context(), &args)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, comment)

	case "deleteComment":
		var args idArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}

		comment, err := app.commentService.DeleteComment(r.Context(), args.ID)
		if err != nil {
			app.operationErrorResponse(w, r, err)
			return
		}
		app.writeData(w, r, comment)

	default:
		app.badRequestErrorResponse(w, r, fmt.Errorf("unknown operation %q", req.Operation))
	}
}

func (app *application) writeData(w http.ResponseWriter, r *http.Request, data any) {
	if err := app.writeJSON(w, http.StatusOK, envelope{"data": data}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
