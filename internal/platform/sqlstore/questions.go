package sqlstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/platform/logger"
	"github.com/phrazzld/drill-api/internal/store"
)

// RecentMistakes implements deck.Repository.RecentMistakes.
// A question missed in several decks is reported once, at its newest position.
func (s *Store) RecentMistakes(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `
		SELECT question_id FROM (
			SELECT i.question_id, d.created_at, i.slot,
				ROW_NUMBER() OVER (
					PARTITION BY i.question_id
					ORDER BY d.created_at DESC, i.slot ASC
				) AS rn
			FROM deck_items i
			JOIN decks d ON d.id = i.deck_id
			WHERE d.user_id = $1 AND i.answered_correctly = FALSE
		) recent
		WHERE rn = 1
		ORDER BY created_at DESC, slot ASC
		LIMIT $2
	`
	return s.stageQuery(ctx, "recent_mistakes", query, userID, limit)
}

// OutstandingMistakes implements deck.Repository.OutstandingMistakes.
func (s *Store) OutstandingMistakes(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT question_id
		FROM user_question_stats
		WHERE user_id = $1 AND success_rate < 100
		ORDER BY success_rate ASC, times_wrong DESC, question_id ASC
	`
	return s.stageQuery(ctx, "outstanding_mistakes", query, userID)
}

// StaleMastered implements deck.Repository.StaleMastered.
func (s *Store) StaleMastered(ctx context.Context, userID string, answeredBefore time.Time, limit int) ([]string, error) {
	query := `
		SELECT question_id
		FROM user_question_stats
		WHERE user_id = $1 AND success_rate >= 100 AND last_answered_at < $2
		ORDER BY RANDOM()
		LIMIT $3
	`
	return s.stageQuery(ctx, "stale_mastered", query, userID, answeredBefore.UTC(), limit)
}

// WeakTopics implements deck.Repository.WeakTopics.
func (s *Store) WeakTopics(ctx context.Context, userID string, threshold float64) ([]string, error) {
	query := `
		SELECT topic_id
		FROM user_topic_stats
		WHERE user_id = $1 AND success_rate < $2
		ORDER BY success_rate ASC, topic_id ASC
	`
	return s.stageQuery(ctx, "weak_topics", query, userID, threshold)
}

// TopicQuestions implements deck.Repository.TopicQuestions.
func (s *Store) TopicQuestions(ctx context.Context, topicID string, exclude []string) ([]string, error) {
	args := []any{topicID}
	clause, args := notIn("id", args, exclude)
	query := `SELECT id FROM questions WHERE topic_id = $1` + clause + ` ORDER BY RANDOM()`
	return s.stageQuery(ctx, "topic_questions", query, args...)
}

// RandomQuestions implements deck.Repository.RandomQuestions.
func (s *Store) RandomQuestions(ctx context.Context, exclude []string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	clause, args := notIn("id", nil, exclude)
	args = append(args, limit)
	query := `SELECT id FROM questions WHERE 1 = 1` + clause +
		` ORDER BY RANDOM() LIMIT ` + placeholders(len(args), 1)
	return s.stageQuery(ctx, "random_questions", query, args...)
}

func (s *Store) stageQuery(ctx context.Context, name, query string, args ...any) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids, err := s.queryIDs(ctx, query, args...)
	if err != nil {
		log.Error("stage query failed",
			slog.String("query", name),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return ids, nil
}

// QuestionTopic implements deck.Writer.QuestionTopic.
func (s *Store) QuestionTopic(ctx context.Context, questionID string) (string, error) {
	var topicID string
	err := s.queryRow(ctx, `SELECT topic_id FROM questions WHERE id = $1`, questionID).Scan(&topicID)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return "", store.ErrQuestionNotFound
		}
		return "", MapError(err)
	}
	return topicID, nil
}

// ImportQuestions inserts the given questions into the bank. Questions whose
// id already exists are left untouched. It returns how many were inserted.
func (s *Store) ImportQuestions(ctx context.Context, questions []domain.Question) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for _, q := range questions {
		res, err := s.exec(ctx,
			`INSERT INTO questions (id, topic_id) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			q.ID, q.TopicID)
		if err != nil {
			log.Error("failed to import question",
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()))
			return inserted, MapError(err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	log.Info("questions imported",
		slog.Int("received", len(questions)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

// CountQuestions returns the size of the question bank.
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
