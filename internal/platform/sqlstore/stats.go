package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/platform/logger"
)

// InsertAnswerEvent implements deck.Writer.InsertAnswerEvent.
func (s *Store) InsertAnswerEvent(ctx context.Context, ev *domain.AnswerEvent) error {
	_, err := s.exec(ctx, `
		INSERT INTO answer_events (id, user_id, deck_id, question_id, topic_id, correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, ev.UserID, ev.DeckID, ev.QuestionID, ev.TopicID, ev.Correct, ev.AnsweredAt.UTC())
	return MapError(err)
}

// GetQuestionStat implements deck.Writer.GetQuestionStat.
func (s *Store) GetQuestionStat(ctx context.Context, userID, questionID string) (*domain.UserQuestionStat, error) {
	st := &domain.UserQuestionStat{UserID: userID, QuestionID: questionID}
	err := s.queryRow(ctx, `
		SELECT topic_id, attempts, correct_attempts, times_wrong, success_rate, last_answered_at
		FROM user_question_stats
		WHERE user_id = $1 AND question_id = $2
	`+s.dialect.lockClause(), userID, questionID).Scan(
		&st.TopicID,
		&st.Attempts,
		&st.CorrectAttempts,
		&st.TimesWrong,
		&st.SuccessRate,
		&st.LastAnsweredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return nil, MapError(err)
	}
	st.LastAnsweredAt = st.LastAnsweredAt.UTC()
	return st, nil
}

// SaveQuestionStat implements deck.Writer.SaveQuestionStat.
func (s *Store) SaveQuestionStat(ctx context.Context, st *domain.UserQuestionStat) error {
	_, err := s.exec(ctx, `
		INSERT INTO user_question_stats
			(user_id, question_id, topic_id, attempts, correct_attempts, times_wrong, success_rate, last_answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			topic_id = excluded.topic_id,
			attempts = excluded.attempts,
			correct_attempts = excluded.correct_attempts,
			times_wrong = excluded.times_wrong,
			success_rate = excluded.success_rate,
			last_answered_at = excluded.last_answered_at
	`, st.UserID, st.QuestionID, st.TopicID, st.Attempts, st.CorrectAttempts, st.TimesWrong,
		st.SuccessRate, st.LastAnsweredAt.UTC())
	return MapError(err)
}

// GetTopicStat implements deck.Writer.GetTopicStat.
func (s *Store) GetTopicStat(ctx context.Context, userID, topicID string) (*domain.UserTopicStat, error) {
	st := &domain.UserTopicStat{UserID: userID, TopicID: topicID}
	err := s.queryRow(ctx, `
		SELECT attempts, correct_attempts, success_rate
		FROM user_topic_stats
		WHERE user_id = $1 AND topic_id = $2
	`+s.dialect.lockClause(), userID, topicID).Scan(&st.Attempts, &st.CorrectAttempts, &st.SuccessRate)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return nil, MapError(err)
	}
	return st, nil
}

// SaveTopicStat implements deck.Writer.SaveTopicStat.
func (s *Store) SaveTopicStat(ctx context.Context, st *domain.UserTopicStat) error {
	_, err := s.exec(ctx, `
		INSERT INTO user_topic_stats (user_id, topic_id, attempts, correct_attempts, success_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, topic_id) DO UPDATE SET
			attempts = excluded.attempts,
			correct_attempts = excluded.correct_attempts,
			success_rate = excluded.success_rate
	`, st.UserID, st.TopicID, st.Attempts, st.CorrectAttempts, st.SuccessRate)
	return MapError(err)
}

// TopicStats implements deck.Queries.TopicStats.
func (s *Store) TopicStats(ctx context.Context, userID string) ([]domain.UserTopicStat, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT topic_id, attempts, correct_attempts, success_rate
		FROM user_topic_stats
		WHERE user_id = $1
		ORDER BY success_rate ASC, topic_id ASC
	`), userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := make([]domain.UserTopicStat, 0)
	for rows.Next() {
		st := domain.UserTopicStat{UserID: userID}
		if err := rows.Scan(&st.TopicID, &st.Attempts, &st.CorrectAttempts, &st.SuccessRate); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}

// DeleteUserData implements deck.Writer.DeleteUserData. Child rows go first so
// the deletes succeed with or without cascading foreign keys.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	statements := []struct {
		table string
		query string
	}{
		{"answer_events", `DELETE FROM answer_events WHERE user_id = $1`},
		{"deck_items", `DELETE FROM deck_items WHERE deck_id IN (SELECT id FROM decks WHERE user_id = $1)`},
		{"decks", `DELETE FROM decks WHERE user_id = $1`},
		{"user_question_stats", `DELETE FROM user_question_stats WHERE user_id = $1`},
		{"user_topic_stats", `DELETE FROM user_topic_stats WHERE user_id = $1`},
	}

	for _, st := range statements {
		res, err := s.exec(ctx, st.query, userID)
		if err != nil {
			log.Error("failed to delete user data",
				slog.String("table", st.table),
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			return MapError(err)
		}
		if n, err := res.RowsAffected(); err == nil {
			log.Debug("deleted user rows",
				slog.String("table", st.table),
				slog.Int64("rows", n))
		}
	}
	return nil
}
