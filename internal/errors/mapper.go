// Package errors defines the error kinds the core returns and maps them
// onto transport codes. Storage errors never leave a service untranslated.
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransient       = errors.New("temporary failure")
)

// Error carries a kind, a client-safe message and the optional cause.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func NotFound(msg string) error        { return &Error{Kind: ErrNotFound, Msg: msg} }
func Unauthorized(msg string) error    { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func Conflict(msg string) error        { return &Error{Kind: ErrConflict, Msg: msg} }
func InvalidArgument(msg string) error { return &Error{Kind: ErrInvalidArgument, Msg: msg} }

// Transient wraps a storage failure. The cause is kept for logging only.
func Transient(cause error) error {
	return &Error{Kind: ErrTransient, Msg: "temporary failure, please retry", Cause: cause}
}

// Translate converts repo/infra errors into one of the kinds above.
// Already translated errors and context errors pass through unchanged.
func Translate(err error) error {
	var e *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: ErrNotFound, Msg: "record not found", Cause: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: ErrConflict, Msg: "already exists", Cause: err}
	default:
		return Transient(err)
	}
}

// Map converts service errors into gRPC-friendly status errors.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	err = Translate(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// HTTPStatus is the HTTP counterpart of Map.
func HTTPStatus(err error) int {
	err = Translate(err)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe text for err.
func Message(err error) string {
	var e *Error
	if errors.As(Translate(err), &e) {
		return e.Error()
	}
	return err.Error()
}
