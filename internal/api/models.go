package api

import (
	"time"

	"github.com/phrazzld/drill-api/internal/domain"
)

// DailyDeckResponse is the body of GET /api/decks/daily.
type DailyDeckResponse struct {
	DeckID    string   `json:"deckId"`
	Questions []string `json:"questions"`
}

// DeckItemResponse is one slot of a stored deck.
type DeckItemResponse struct {
	QuestionID        string `json:"questionId"`
	Slot              int    `json:"slot"`
	AnsweredCorrectly *bool  `json:"answeredCorrectly"`
}

// DeckResponse is the body of GET /api/decks/{deckID}.
type DeckResponse struct {
	DeckID    string             `json:"deckId"`
	UserID    string             `json:"userId"`
	CreatedAt time.Time          `json:"createdAt"`
	Items     []DeckItemResponse `json:"items"`
}

// SubmitAnswerRequest is the body of POST /api/decks/{deckID}/answers.
// Correct is a pointer so that an omitted flag fails validation instead of
// reading as false.
type SubmitAnswerRequest struct {
	User       string `json:"user"       validate:"required,max=255"`
	QuestionID string `json:"questionId" validate:"required,max=255"`
	Correct    *bool  `json:"correct"    validate:"required"`
}

// QuestionStatResponse is a user's aggregate for one question.
type QuestionStatResponse struct {
	QuestionID      string    `json:"questionId"`
	TopicID         string    `json:"topicId"`
	Attempts        int       `json:"attempts"`
	CorrectAttempts int       `json:"correctAttempts"`
	TimesWrong      int       `json:"timesWrong"`
	SuccessRate     float64   `json:"successRate"`
	LastAnsweredAt  time.Time `json:"lastAnsweredAt"`
}

// TopicStatResponse is a user's aggregate for one topic.
type TopicStatResponse struct {
	TopicID         string  `json:"topicId"`
	Attempts        int     `json:"attempts"`
	CorrectAttempts int     `json:"correctAttempts"`
	SuccessRate     float64 `json:"successRate"`
	Weak            bool    `json:"weak"`
}

// TopicStatsResponse is the body of GET /api/stats/topics.
type TopicStatsResponse struct {
	Topics []TopicStatResponse `json:"topics"`
}

func dailyDeckToResponse(d *domain.Deck) DailyDeckResponse {
	return DailyDeckResponse{
		DeckID:    d.ID.String(),
		Questions: d.QuestionIDs(),
	}
}

func deckToResponse(d *domain.Deck) DeckResponse {
	items := make([]DeckItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, DeckItemResponse{
			QuestionID:        it.QuestionID,
			Slot:              it.Slot,
			AnsweredCorrectly: it.AnsweredCorrectly,
		})
	}
	return DeckResponse{
		DeckID:    d.ID.String(),
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		Items:     items,
	}
}

func questionStatToResponse(s *domain.UserQuestionStat) QuestionStatResponse {
	return QuestionStatResponse{
		QuestionID:      s.QuestionID,
		TopicID:         s.TopicID,
		Attempts:        s.Attempts,
		CorrectAttempts: s.CorrectAttempts,
		TimesWrong:      s.TimesWrong,
		SuccessRate:     s.SuccessRate,
		LastAnsweredAt:  s.LastAnsweredAt,
	}
}

func topicStatsToResponse(stats []domain.UserTopicStat) TopicStatsResponse {
	topics := make([]TopicStatResponse, 0, len(stats))
	for _, s := range stats {
		topics = append(topics, TopicStatResponse{
			TopicID:         s.TopicID,
			Attempts:        s.Attempts,
			CorrectAttempts: s.CorrectAttempts,
			SuccessRate:     s.SuccessRate,
			Weak:            s.Weak(),
		})
	}
	return TopicStatsResponse{Topics: topics}
}
