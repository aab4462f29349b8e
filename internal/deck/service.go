package deck

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/platform/logger"
	"github.com/phrazzld/drill-api/internal/store"
)

// Service exposes the deck workflows used by the HTTP API and the CLI.
type Service interface {
	// CreateDailyDeck builds today's deck for userID and persists it as a new
	// deck. Header and items are written in one unit of work.
	//
	// Returns:
	//   - a ValidationError for an empty user id
	//   - a *StoreError (ErrTransientStore) when building or persisting fails
	CreateDailyDeck(ctx context.Context, userID string) (*domain.Deck, error)

	// GetDeck returns a deck owned by userID.
	// Returns ErrDeckNotFound when it does not exist or belongs to someone else.
	GetDeck(ctx context.Context, userID string, deckID uuid.UUID) (*domain.Deck, error)

	// RecordAnswer stores the user's answer to one deck question and updates
	// the question and topic aggregates the builder reads, atomically.
	//
	// Returns ErrDeckNotFound or ErrQuestionNotInDeck for unknown targets.
	RecordAnswer(ctx context.Context, answer Answer) (*domain.UserQuestionStat, error)

	// TopicSummaries returns the user's topic aggregates, weakest first.
	TopicSummaries(ctx context.Context, userID string) ([]domain.UserTopicStat, error)

	// ResetUser deletes every deck, answer and statistic of userID.
	ResetUser(ctx context.Context, userID string) error
}

// Answer is a single answered deck question.
type Answer struct {
	UserID     string
	DeckID     uuid.UUID
	QuestionID string
	Correct    bool
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	builder *Builder
	uow     UnitOfWork
	queries Queries
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates a Service. now may be nil, in which case time.Now is used.
func NewService(
	builder *Builder,
	uow UnitOfWork,
	queries Queries,
	now func() time.Time,
	logger *slog.Logger,
) (Service, error) {
	if builder == nil {
		return nil, domain.NewValidationError("builder", "cannot be nil", domain.ErrValidation)
	}
	if uow == nil {
		return nil, domain.NewValidationError("uow", "cannot be nil", domain.ErrValidation)
	}
	if queries == nil {
		return nil, domain.NewValidationError("queries", "cannot be nil", domain.ErrValidation)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		builder: builder,
		uow:     uow,
		queries: queries,
		now:     now,
		logger:  logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDailyDeck implements Service.CreateDailyDeck.
func (s *serviceImpl) CreateDailyDeck(ctx context.Context, userID string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	ids, err := s.builder.BuildDailyDeck(ctx, userID)
	if err != nil {
		return nil, err
	}

	d, err := domain.NewDeck(userID, ids, s.builder.Size(), s.now())
	if err != nil {
		// The builder guarantees a valid shape; anything else is a bug.
		return nil, err
	}

	err = s.uow.Within(ctx, func(ctx context.Context, w Writer) error {
		if err := w.CreateDeck(ctx, d); err != nil {
			return err
		}
		if len(d.Items) == 0 {
			return nil
		}
		return w.InsertItems(ctx, d.Items)
	})
	if err != nil {
		log.Error("failed to persist deck",
			slog.String("user_id", userID),
			slog.String("deck_id", d.ID.String()),
			slog.String("error", err.Error()))
		return nil, newStoreError("persist_deck", err)
	}

	log.Info("daily deck created",
		slog.String("user_id", userID),
		slog.String("deck_id", d.ID.String()),
		slog.Int("questions", len(d.Items)))
	return d, nil
}

// GetDeck implements Service.GetDeck.
func (s *serviceImpl) GetDeck(ctx context.Context, userID string, deckID uuid.UUID) (*domain.Deck, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	d, err := s.queries.GetDeck(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, newStoreError("get_deck", err)
	}
	// Another user's deck is reported as missing rather than forbidden.
	if d.UserID != userID {
		return nil, ErrDeckNotFound
	}
	return d, nil
}

// RecordAnswer implements Service.RecordAnswer.
func (s *serviceImpl) RecordAnswer(ctx context.Context, answer Answer) (*domain.UserQuestionStat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateUserID(answer.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer.QuestionID) == "" {
		return nil, domain.NewValidationError("question_id", "is required", domain.ErrEmptyQuestionID)
	}

	at := s.now().UTC()
	var updated *domain.UserQuestionStat

	err := s.uow.Within(ctx, func(ctx context.Context, w Writer) error {
		d, err := w.GetDeck(ctx, answer.DeckID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrDeckNotFound
			}
			return err
		}
		if d.UserID != answer.UserID {
			return ErrDeckNotFound
		}
		if _, ok := d.Item(answer.QuestionID); !ok {
			return ErrQuestionNotInDeck
		}

		topicID, err := w.QuestionTopic(ctx, answer.QuestionID)
		if err != nil {
			return err
		}

		if err := w.MarkItem(ctx, answer.DeckID, answer.QuestionID, answer.Correct); err != nil {
			return err
		}

		if err := w.InsertAnswerEvent(ctx, &domain.AnswerEvent{
			ID:         uuid.New(),
			UserID:     answer.UserID,
			DeckID:     answer.DeckID,
			QuestionID: answer.QuestionID,
			TopicID:    topicID,
			Correct:    answer.Correct,
			AnsweredAt: at,
		}); err != nil {
			return err
		}

		qs, err := w.GetQuestionStat(ctx, answer.UserID, answer.QuestionID)
		if err != nil {
			return err
		}
		qs.TopicID = topicID
		qs.Record(answer.Correct, at)
		if err := w.SaveQuestionStat(ctx, qs); err != nil {
			return err
		}

		ts, err := w.GetTopicStat(ctx, answer.UserID, topicID)
		if err != nil {
			return err
		}
		ts.Record(answer.Correct)
		if err := w.SaveTopicStat(ctx, ts); err != nil {
			return err
		}

		updated = qs
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) || errors.Is(err, ErrQuestionNotInDeck) {
			return nil, err
		}
		log.Error("failed to record answer",
			slog.String("user_id", answer.UserID),
			slog.String("deck_id", answer.DeckID.String()),
			slog.String("question_id", answer.QuestionID),
			slog.String("error", err.Error()))
		return nil, newStoreError("record_answer", err)
	}

	log.Debug("answer recorded",
		slog.String("user_id", answer.UserID),
		slog.String("deck_id", answer.DeckID.String()),
		slog.String("question_id", answer.QuestionID),
		slog.Bool("correct", answer.Correct),
		slog.Float64("success_rate", updated.SuccessRate))
	return updated, nil
}

// TopicSummaries implements Service.TopicSummaries.
func (s *serviceImpl) TopicSummaries(ctx context.Context, userID string) ([]domain.UserTopicStat, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	stats, err := s.queries.TopicStats(ctx, userID)
	if err != nil {
		return nil, newStoreError("topic_stats", err)
	}
	return stats, nil
}

// ResetUser implements Service.ResetUser.
func (s *serviceImpl) ResetUser(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateUserID(userID); err != nil {
		return err
	}
	err := s.uow.Within(ctx, func(ctx context.Context, w Writer) error {
		return w.DeleteUserData(ctx, userID)
	})
	if err != nil {
		return newStoreError("reset_user", err)
	}

	log.Info("user data deleted", slog.String("user_id", userID))
	return nil
}

// validateUserID rejects blank ids and the literal "undefined" that clients
// send when their session has not loaded yet.
func validateUserID(userID string) error {
	id := strings.TrimSpace(userID)
	if id == "" || id == "undefined" {
		return domain.NewValidationError("user", "is required", domain.ErrEmptyUserID)
	}
	return nil
}
