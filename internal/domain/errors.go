package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError lists every missing or malformed field of an input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ; ")
}

// ConflictError means a business key is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = &NotFoundError{}

// PersistenceError wraps a storage failure that happened after validation
// passed. The enclosing transaction has been rolled back.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Cause == nil {
		return "persistence failure"
	}
	return e.Cause.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// ErrAnonymous is returned when an attributed operation has no acting user.
var ErrAnonymous = errors.New("an authenticated user is required")

// Messages flattens an operation error into user-facing strings.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return append([]string(nil), ve.Messages...)
	}
	return []string{err.Error()}
}
