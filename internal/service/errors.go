package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks input that was rejected before persistence
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing record
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor without permission for the operation
	ErrForbidden = errors.New("permission denied")
	// ErrConflict marks a write rejected by a uniqueness rule
	ErrConflict = errors.New("already exists")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrValidation
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func validationFrom(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: err.Error()}
}

// checkID rejects ids that cannot exist so they never reach the database
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return nil
}
