// Package apperr defines the error taxonomy shared by the chat core and
// its collaborators, and the mapping to wire codes used in
// acknowledgments.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadRequest    = errors.New("bad request")
)

// NotFound wraps ErrNotFound with the missing resource's name.
func NotFound(resource string) error {
	return fmt.Errorf("%s: %w", resource, ErrNotFound)
}

// AlreadyExists wraps ErrAlreadyExists with the conflicting resource.
func AlreadyExists(resource string) error {
	return fmt.Errorf("%s: %w", resource, ErrAlreadyExists)
}

// BadRequest wraps ErrBadRequest with a detail string.
func BadRequest(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrBadRequest)
}

// Unauthorized wraps ErrUnauthorized with a detail string.
func Unauthorized(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrUnauthorized)
}

// Code maps an error to its acknowledgment wire code. Unknown errors
// map to "internal" so callers never see raw driver messages.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	default:
		return "internal"
	}
}
