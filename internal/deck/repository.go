package deck

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/domain"
)

// Repository is the read side the Builder schedules from. Each method backs
// exactly one selection stage and returns question (or topic) ids in the
// order the stage consumes them.
//
// An unknown user is not an error: every method simply returns no rows.
type Repository interface {
	// RecentMistakes returns up to limit questions answered incorrectly in the
	// user's decks, newest deck first and by slot within a deck.
	RecentMistakes(ctx context.Context, userID string, limit int) ([]string, error)

	// OutstandingMistakes returns every question whose success rate is below
	// 100, worst rate first, ties broken by more wrong answers first.
	OutstandingMistakes(ctx context.Context, userID string) ([]string, error)

	// StaleMastered returns up to limit random questions with a perfect
	// success rate last answered before answeredBefore.
	StaleMastered(ctx context.Context, userID string, answeredBefore time.Time, limit int) ([]string, error)

	// WeakTopics returns topics whose success rate is below threshold,
	// weakest first.
	WeakTopics(ctx context.Context, userID string, threshold float64) ([]string, error)

	// TopicQuestions returns the questions of a topic in random order,
	// leaving out the excluded ids. An empty exclude set excludes nothing.
	TopicQuestions(ctx context.Context, topicID string, exclude []string) ([]string, error)

	// RandomQuestions returns up to limit random questions from the whole
	// bank, leaving out the excluded ids.
	RandomQuestions(ctx context.Context, exclude []string, limit int) ([]string, error)
}

// Writer is the transactional side used by Service. Implementations are bound
// to a single unit of work by UnitOfWork.Within.
type Writer interface {
	// CreateDeck inserts the deck header only.
	CreateDeck(ctx context.Context, d *domain.Deck) error

	// InsertItems bulk-inserts the deck's items.
	InsertItems(ctx context.Context, items []domain.DeckItem) error

	// GetDeck loads a deck with its items in slot order.
	// Returns store.ErrDeckNotFound when absent.
	GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)

	// QuestionTopic returns the topic of a question.
	// Returns store.ErrQuestionNotFound when absent.
	QuestionTopic(ctx context.Context, questionID string) (string, error)

	// MarkItem records the answer flag on a deck item.
	// Returns store.ErrDeckItemNotFound when the deck has no such item.
	MarkItem(ctx context.Context, deckID uuid.UUID, questionID string, correct bool) error

	// InsertAnswerEvent appends an answer event.
	InsertAnswerEvent(ctx context.Context, ev *domain.AnswerEvent) error

	// GetQuestionStat loads the aggregate for update. A missing row yields a
	// zero-valued stat for the pair rather than an error.
	GetQuestionStat(ctx context.Context, userID, questionID string) (*domain.UserQuestionStat, error)

	// SaveQuestionStat inserts or replaces the aggregate.
	SaveQuestionStat(ctx context.Context, s *domain.UserQuestionStat) error

	// GetTopicStat loads the aggregate for update, zero-valued when missing.
	GetTopicStat(ctx context.Context, userID, topicID string) (*domain.UserTopicStat, error)

	// SaveTopicStat inserts or replaces the aggregate.
	SaveTopicStat(ctx context.Context, s *domain.UserTopicStat) error

	// DeleteUserData removes all decks, answers and statistics of a user.
	DeleteUserData(ctx context.Context, userID string) error
}

// Queries are non-transactional reads served to the API.
type Queries interface {
	// GetDeck loads a deck with its items in slot order.
	GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)

	// TopicStats returns a user's topic aggregates, lowest success rate first.
	TopicStats(ctx context.Context, userID string) ([]domain.UserTopicStat, error)
}

// UnitOfWork runs fn against a Writer bound to one transaction. The work is
// committed when fn returns nil and rolled back on error or panic, so no
// partial write is ever visible.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}
