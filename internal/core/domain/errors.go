package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no live (non-deleted) record matched.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is a repository-level signal. The service catches
	// it and translates it to a ValidationError on the email field; it
	// never crosses the service boundary.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrConstraint flags a store-level constraint violation the
	// repository could not classify further. The application pre-checks
	// are an optimization only; the store constraint is the final arbiter
	// and concurrent writers can still trip it.
	ErrConstraint = errors.New("constraint violation")
)

// ValidationError reports invalid input or a state conflict. Field names
// the offending input when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DatabaseError wraps an unclassified persistence failure.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}
