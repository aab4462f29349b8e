package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrTransientStore marks failures of the underlying store: an unreachable
	// database, a failed query or an aborted transaction. Nothing has been
	// persisted when it is returned, so the caller may simply try again.
	ErrTransientStore = errors.New("transient store error")

	// ErrDeckNotFound indicates that the deck does not exist or belongs to
	// another user.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrQuestionNotInDeck indicates that an answer names a question the deck
	// does not contain.
	ErrQuestionNotInDeck = errors.New("question not in deck")
)

// StoreError wraps a store failure with the operation that hit it. It matches
// both ErrTransientStore and the underlying cause with errors.Is.
type StoreError struct {
	// Operation is the stage or step that failed (e.g. "outstanding_mistakes", "persist_deck")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Operation, ErrTransientStore, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *StoreError) Unwrap() []error {
	return []error{ErrTransientStore, e.Err}
}

func newStoreError(operation string, err error) *StoreError {
	return &StoreError{Operation: operation, Err: err}
}
