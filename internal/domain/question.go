package domain

import "strings"

// Question is an immutable entry of the question bank. Only the identity and
// topic are relevant to scheduling; the content lives with the client.
type Question struct {
	ID      string `json:"id"`
	TopicID string `json:"topic_id"`
}

// Validate checks that both identifiers are present.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return NewValidationError("id", "is required", ErrEmptyQuestionID)
	}
	if strings.TrimSpace(q.TopicID) == "" {
		return NewValidationError("topic_id", "is required", ErrValidation)
	}
	return nil
}
