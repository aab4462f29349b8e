package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	testCases := []struct {
		correct, attempts int
		want              float64
	}{
		{0, 0, 0},
		{1, 1, 100},
		{0, 3, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{6, 7, 85.7},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, SuccessRate(tc.correct, tc.attempts),
			"SuccessRate(%d, %d)", tc.correct, tc.attempts)
	}
}

func TestUserQuestionStatRecord(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &UserQuestionStat{UserID: "u", QuestionID: "q", TopicID: "t"}

	s.Record(false, at)
	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, 1, s.TimesWrong)
	assert.Equal(t, 0.0, s.SuccessRate)

	s.Record(true, at.Add(time.Hour))
	assert.Equal(t, 2, s.Attempts)
	assert.Equal(t, 1, s.CorrectAttempts)
	assert.Equal(t, 1, s.TimesWrong)
	assert.Equal(t, 50.0, s.SuccessRate)
	assert.Equal(t, at.Add(time.Hour), s.LastAnsweredAt)
}

func TestUserTopicStat(t *testing.T) {
	s := &UserTopicStat{UserID: "u", TopicID: "t"}
	for i := 0; i < 6; i++ {
		s.Record(true)
	}
	s.Record(false)

	assert.Equal(t, 85.7, s.SuccessRate)
	assert.True(t, s.Weak())

	s.Record(true)
	assert.Equal(t, 87.5, s.SuccessRate)
	assert.False(t, s.Weak())

	assert.False(t, UserTopicStat{SuccessRate: PassingSuccessRate}.Weak())
}
