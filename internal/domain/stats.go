package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PassingSuccessRate is the exam pass mark in percent. Topics below it are
// considered weak.
const PassingSuccessRate = 86.0

// AnswerEvent records one answer given by a user to a deck question.
// Events are append-only and are the source of truth for the aggregates below.
type AnswerEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	DeckID     uuid.UUID `json:"deck_id"`
	QuestionID string    `json:"question_id"`
	TopicID    string    `json:"topic_id"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// UserQuestionStat aggregates a user's answers to a single question.
type UserQuestionStat struct {
	UserID          string    `json:"user_id"`
	QuestionID      string    `json:"question_id"`
	TopicID         string    `json:"topic_id"`
	Attempts        int       `json:"attempts"`
	CorrectAttempts int       `json:"correct_attempts"`
	TimesWrong      int       `json:"times_wrong"`
	SuccessRate     float64   `json:"success_rate"`
	LastAnsweredAt  time.Time `json:"last_answered_at"`
}

// Record folds one answer into the aggregate.
func (s *UserQuestionStat) Record(correct bool, at time.Time) {
	s.Attempts++
	if correct {
		s.CorrectAttempts++
	} else {
		s.TimesWrong++
	}
	s.SuccessRate = SuccessRate(s.CorrectAttempts, s.Attempts)
	s.LastAnsweredAt = at.UTC()
}

// UserTopicStat aggregates a user's answers across all questions of a topic.
type UserTopicStat struct {
	UserID          string  `json:"user_id"`
	TopicID         string  `json:"topic_id"`
	Attempts        int     `json:"attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	SuccessRate     float64 `json:"success_rate"`
}

// Record folds one answer into the aggregate.
func (s *UserTopicStat) Record(correct bool) {
	s.Attempts++
	if correct {
		s.CorrectAttempts++
	}
	s.SuccessRate = SuccessRate(s.CorrectAttempts, s.Attempts)
}

// Weak reports whether the topic is below the passing threshold.
func (s UserTopicStat) Weak() bool {
	return s.SuccessRate < PassingSuccessRate
}

// SuccessRate returns 100*correct/attempts rounded to one decimal place.
// Zero attempts yield zero.
func SuccessRate(correct, attempts int) float64 {
	if attempts <= 0 {
		return 0
	}
	return math.Round(1000*float64(correct)/float64(attempts)) / 10
}
