// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// This is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyUserID is returned when a user identifier is missing.
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrEmptyQuestionID is returned when a question identifier is missing.
	ErrEmptyQuestionID = errors.New("question ID cannot be empty")

	// ErrDuplicateQuestion is returned when a deck would contain the same question twice.
	ErrDuplicateQuestion = errors.New("question appears more than once in deck")

	// ErrDeckTooLarge is returned when a deck exceeds its configured size.
	ErrDeckTooLarge = errors.New("deck exceeds maximum size")
)

// ValidationError describes a validation failure for a single field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes both the underlying error and ErrValidation, so callers can
// match either with errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || errors.Is(e.Err, ErrValidation) {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
