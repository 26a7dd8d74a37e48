package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/blogql/blogql/internal/blogservice"
	"github.com/blogql/blogql/internal/commentservice"
	"github.com/blogql/blogql/internal/common"
	"github.com/blogql/blogql/internal/userservice"
)

// Error codes returned in operation error payloads.
const (
	codeConflict        = "CONFLICT"
	codeNotFound        = "NOT_FOUND"
	codeUnauthorized    = "UNAUTHORIZED"
	codeOperationFailed = "OPERATION_FAILED"
)

type operationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

// operationErrorResponse converts a service error into the in-band errors
// payload of the query endpoint. Domain failures keep HTTP 200; the caller
// distinguishes success from failure by the payload shape. Uncategorized
// errors are logged with their cause and reported generically.
func (app *application) operationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var opErr operationError

	switch {
	case errors.Is(err, userservice.ErrDuplicateEmail):
		opErr = operationError{Code: codeConflict, Message: err.Error()}
	case errors.Is(err, userservice.ErrAuthenticationFailure):
		opErr = operationError{Code: codeUnauthorized, Message: err.Error()}
	case errors.Is(err, userservice.ErrNotFound),
		errors.Is(err, blogservice.ErrBlogNotFound),
		errors.Is(err, blogservice.ErrUserNotFound),
		errors.Is(err, blogservice.ErrUserNotLinked),
		errors.Is(err, commentservice.ErrCommentNotFound),
		errors.Is(err, commentservice.ErrNotFound),
		errors.Is(err, commentservice.ErrUserNotLinked),
		errors.Is(err, commentservice.ErrBlogNotLinked):
		opErr = operationError{Code: codeNotFound, Message: err.Error()}
	case errors.As(err, &common.ValidationError{}):
		opErr = operationError{Code: codeOperationFailed, Message: err.Error()}
	default:
		app.logError(r, err)
		opErr = operationError{Code: codeOperationFailed, Message: "the operation could not be completed"}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"errors": []operationError{opErr}}, nil); err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	app.writeErrorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "resource not found")
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
