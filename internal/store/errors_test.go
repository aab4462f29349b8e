package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("lookup: %w", ErrNotFound), true},
		{"ErrDeckNotFound", ErrDeckNotFound, true},
		{"wrapped ErrQuestionNotFound", fmt.Errorf("topic lookup: %w", ErrQuestionNotFound), true},
		{"ErrDeckItemNotFound", ErrDeckItemNotFound, true},
		{"StoreError wrapping not found", NewStoreError("deck", "get", "missing", ErrDeckNotFound), true},
		{"ErrDuplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewStoreError("deck", "create", "insert header", cause)
	assert.Equal(t, "create operation on deck failed: insert header: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("deck_item", "insert", "no rows", nil)
	assert.Equal(t, "insert operation on deck_item failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
