// Package apperr defines the error kinds surfaced to API callers and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindForbidden           Kind = "FORBIDDEN"
	KindValidationFailed    Kind = "VALIDATION_FAILED"
	KindConflict            Kind = "CONFLICT"
	KindOperationNotAllowed Kind = "OPERATION_NOT_ALLOWED"
	KindStorageUnavailable  Kind = "STORAGE_UNAVAILABLE"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindRateLimited         Kind = "RATE_LIMITED"
)

// HTTPStatus maps a kind to its response status. Unknown kinds are server errors.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindOperationNotAllowed:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Details carries structured context for the client, e.g. the conflicting reservation.
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

func Forbidden(msg string) *Error {
	return New(KindForbidden, msg)
}

func Validation(msg string) *Error {
	return New(KindValidationFailed, msg)
}

func Conflict(msg string) *Error {
	return New(KindConflict, msg)
}

func NotAllowed(msg string) *Error {
	return New(KindOperationNotAllowed, msg)
}

func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, msg)
}

// Storage wraps a persistence failure. The cause is kept for logs, never shown to clients.
func Storage(err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: "storage is temporarily unavailable", Err: err}
}

// WithDetails attaches client-visible context and returns e.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or KindStorageUnavailable for
// anything unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageUnavailable
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
