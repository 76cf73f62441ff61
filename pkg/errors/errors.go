package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Source carries
// the logical request path that raised the error so clients and logs can
// attribute failures without parsing the message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Source  string `json:"source,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the API error taxonomy.
var (
	ErrInvalidRequest    = New("INVALID_REQUEST", http.StatusBadRequest, "invalid request")
	ErrEntityNotFound    = New("ENTITY_NOT_FOUND", http.StatusNotFound, "entity not found")
	ErrInvalidPermission = New("INVALID_PERMISSION", http.StatusForbidden, "insufficient permission")
	ErrConflicted        = New("CONFLICTED", http.StatusConflict, "conflicted")
	ErrInternal          = New("INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "internal server error")

	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
)

// InvalidRequest returns a 400 error with the given detail.
func InvalidRequest(message string) *Error {
	return Clone(ErrInvalidRequest, message)
}

// NotFound returns a 404 error with the given detail.
func NotFound(message string) *Error {
	return Clone(ErrEntityNotFound, message)
}

// PermissionDenied returns a 403 error carrying the denial reason and the
// request path that triggered the check. Denials are never downgraded; they
// abort whatever operation is in flight.
func PermissionDenied(message, source string) *Error {
	e := Clone(ErrInvalidPermission, message)
	e.Source = source
	return e
}

// Conflicted returns a 409 error with the given detail.
func Conflicted(message string) *Error {
	return Clone(ErrConflicted, message)
}

// Internal wraps an unclassified downstream failure into a 500 error.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
