package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck is one scheduling decision: the ordered set of questions a user should
// practise in a session. A deck is created once and never reordered; only the
// per-item answer flags change afterwards.
type Deck struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []DeckItem `json:"items"`
}

// DeckItem is a single slot of a deck. AnsweredCorrectly stays nil until the
// user answers the question.
type DeckItem struct {
	DeckID            uuid.UUID `json:"deck_id"`
	QuestionID        string    `json:"question_id"`
	Slot              int       `json:"slot"`
	AnsweredCorrectly *bool     `json:"answered_correctly"`
}

// NewDeck creates a deck for userID whose items follow questionIDs in order,
// with dense 0-based slots. It rejects duplicates and decks larger than maxSize.
func NewDeck(userID string, questionIDs []string, maxSize int, now time.Time) (*Deck, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("user_id", "is required", ErrEmptyUserID)
	}
	if len(questionIDs) > maxSize {
		return nil, NewValidationError(
			"questions",
			fmt.Sprintf("has %d entries, limit is %d", len(questionIDs), maxSize),
			ErrDeckTooLarge,
		)
	}

	d := &Deck{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now.UTC(),
		Items:     make([]DeckItem, 0, len(questionIDs)),
	}

	seen := make(map[string]struct{}, len(questionIDs))
	for i, qid := range questionIDs {
		if qid == "" {
			return nil, NewValidationError("questions", "contains an empty id", ErrEmptyQuestionID)
		}
		if _, dup := seen[qid]; dup {
			return nil, NewValidationError("questions", "contains "+qid+" twice", ErrDuplicateQuestion)
		}
		seen[qid] = struct{}{}
		d.Items = append(d.Items, DeckItem{DeckID: d.ID, QuestionID: qid, Slot: i})
	}

	return d, nil
}

// QuestionIDs returns the question ids in slot order.
func (d *Deck) QuestionIDs() []string {
	ids := make([]string, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.QuestionID
	}
	return ids
}

// Item returns the item holding questionID, if any.
func (d *Deck) Item(questionID string) (*DeckItem, bool) {
	for i := range d.Items {
		if d.Items[i].QuestionID == questionID {
			return &d.Items[i], true
		}
	}
	return nil, false
}
