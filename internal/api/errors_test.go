package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/drill-api/internal/api/shared"
	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: domain.NewValidationError("user", "is required", domain.ErrEmptyUserID), want: http.StatusBadRequest},
		{name: "invalid id", err: domain.NewValidationError("deckID", "has invalid format", domain.ErrInvalidID), want: http.StatusBadRequest},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "deck not found", err: deck.ErrDeckNotFound, want: http.StatusNotFound},
		{name: "question not in deck", err: deck.ErrQuestionNotInDeck, want: http.StatusNotFound},
		{name: "store not found", err: fmt.Errorf("load: %w", store.ErrQuestionNotFound), want: http.StatusNotFound},
		{name: "duplicate", err: store.ErrDuplicate, want: http.StatusConflict},
		{name: "transient store", err: &deck.StoreError{Operation: "weak_topics", Err: errors.New("timeout")}, want: http.StatusInternalServerError},
		{
			// the cause looks like a client error, but the store failure wins
			name: "transient store wrapping invalid entity",
			err:  &deck.StoreError{Operation: "persist_deck", Err: store.ErrInvalidEntity},
			want: http.StatusInternalServerError,
		},
		{name: "unknown", err: errors.New("surprise"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Invalid user: is required",
		GetSafeErrorMessage(domain.NewValidationError("user", "is required", domain.ErrEmptyUserID)))
	assert.Equal(t, "Deck not found", GetSafeErrorMessage(deck.ErrDeckNotFound))
	assert.Equal(t, "Question is not part of this deck", GetSafeErrorMessage(deck.ErrQuestionNotInDeck))

	leaky := &deck.StoreError{
		Operation: "recent_mistakes",
		Err:       errors.New("pq: relation deck_items does not exist at postgres://drill:pw@db:5432"),
	}
	msg := GetSafeErrorMessage(leaky)
	assert.NotContains(t, msg, "deck_items")
	assert.NotContains(t, msg, "postgres")
	assert.NotContains(t, msg, "recent_mistakes")
}

func TestHandleAPIError(t *testing.T) {
	t.Run("server error uses custom message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/decks/daily", nil)
		req = req.WithContext(shared.SetTraceID(req.Context()))

		HandleAPIError(rec, req, &deck.StoreError{Operation: "persist_deck", Err: errors.New("boom")}, "Failed to build daily deck")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Failed to build daily deck", body.Error)
		assert.Equal(t, shared.GetTraceID(req.Context()), body.TraceID)
	})

	t.Run("client error keeps derived message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/decks/x", nil)

		HandleAPIError(rec, req, deck.ErrDeckNotFound, "Failed to load deck")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Deck not found", decodeError(t, rec).Error)
	})
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&SubmitAnswerRequest{QuestionID: "q1", Correct: new(bool)})
	require.Error(t, err)
	assert.Equal(t, "Invalid user: required field", SanitizeValidationError(err))

	legacy := errors.New("Key: 'SubmitAnswerRequest.User' Error:Field validation for 'User' failed on the 'max' tag")
	assert.Equal(t, "Invalid User: too long", SanitizeValidationError(legacy))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
