package services

import (
	"errors"
	"fmt"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrStudentNotFound = errors.New("student not found")

	// ErrNoGradableQuestions means every submitted question ID failed to
	// resolve to a current pool item. Deliberately distinct from a 0% score:
	// nothing is persisted when this is returned.
	ErrNoGradableQuestions = errors.New("no gradable questions in submission")
)

// ValidationError is a bad-request error raised by services before any side
// effect takes place.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// IsValidationError reports whether err represents a bad request (either a
// service-level ValidationError or a struct-tag failure from the validator).
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
