package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/olympics/internal/domain/analysis"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnavailable      = errors.New("service unavailable")
	ErrInternal         = errors.New("internal error")
)

// Error is an API failure: the operation that failed, its kind (one of the
// sentinels above) and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind creates an Error of the given kind with a plain message.
func NewKind(op string, kind error, msg string) *Error {
	return &Error{Op: op, Kind: kind, Err: errors.New(msg)}
}

// Wrap classifies err by the domain sentinels it carries.
func Wrap(op string, err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	kind := ErrInternal
	switch {
	case errors.Is(err, analysis.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, analysis.ErrInvalidFilter):
		kind = ErrBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = ErrUnavailable
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// status maps an error kind to its HTTP status and response code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// HTTPStatus returns the status code err maps to, for handlers that answer
// with something other than JSON.
func HTTPStatus(err error) int {
	code, _ := status(Wrap("", err))
	return code
}
