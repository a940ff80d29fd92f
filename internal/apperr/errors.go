// Package apperr holds the error taxonomy shared by the service and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", ErrConflict)
	ErrTooManyAttempts   = errors.New("too many attempts")
	ErrValidation        = errors.New("validation failed")
	ErrStorage           = errors.New("storage failure")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failure of the storage collaborator. The wrapped error
// is for logs only and must not be returned to clients.
type StorageError struct {
	Op  string
	Err error
}

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
