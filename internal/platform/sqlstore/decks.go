package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/platform/logger"
	"github.com/phrazzld/drill-api/internal/store"
)

// CreateDeck implements deck.Writer.CreateDeck.
func (s *Store) CreateDeck(ctx context.Context, d *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.exec(ctx,
		`INSERT INTO decks (id, user_id, created_at) VALUES ($1, $2, $3)`,
		d.ID, d.UserID, d.CreatedAt.UTC())
	if err != nil {
		log.Error("failed to create deck",
			slog.String("deck_id", d.ID.String()),
			slog.String("user_id", d.UserID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("deck header created", slog.String("deck_id", d.ID.String()))
	return nil
}

// InsertItems implements deck.Writer.InsertItems with a single multi-row
// INSERT.
func (s *Store) InsertItems(ctx context.Context, items []domain.DeckItem) error {
	if len(items) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*3)
	for _, item := range items {
		values = append(values, "("+placeholders(len(args)+1, 3)+")")
		args = append(args, item.DeckID, item.QuestionID, item.Slot)
	}
	query := `INSERT INTO deck_items (deck_id, question_id, slot) VALUES ` + strings.Join(values, ", ")

	if _, err := s.exec(ctx, query, args...); err != nil {
		log.Error("failed to insert deck items",
			slog.String("deck_id", items[0].DeckID.String()),
			slog.Int("count", len(items)),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetDeck implements deck.Writer.GetDeck and deck.Queries.GetDeck.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *Store) GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d := &domain.Deck{}
	err := s.queryRow(ctx,
		`SELECT id, user_id, created_at FROM decks WHERE id = $1`+s.dialect.lockClause(),
		deckID,
	).Scan(&d.ID, &d.UserID, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", deckID.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	d.CreatedAt = d.CreatedAt.UTC()

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT deck_id, question_id, slot, answered_correctly
		FROM deck_items
		WHERE deck_id = $1
		ORDER BY slot ASC
	`), deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	d.Items = make([]domain.DeckItem, 0)
	for rows.Next() {
		var item domain.DeckItem
		var answered sql.NullBool
		if err := rows.Scan(&item.DeckID, &item.QuestionID, &item.Slot, &answered); err != nil {
			return nil, fmt.Errorf("scan deck item: %w", err)
		}
		if answered.Valid {
			v := answered.Bool
			item.AnsweredCorrectly = &v
		}
		d.Items = append(d.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return d, nil
}

// MarkItem implements deck.Writer.MarkItem.
func (s *Store) MarkItem(ctx context.Context, deckID uuid.UUID, questionID string, correct bool) error {
	res, err := s.exec(ctx,
		`UPDATE deck_items SET answered_correctly = $1 WHERE deck_id = $2 AND question_id = $3`,
		correct, deckID, questionID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(res, store.ErrDeckItemNotFound)
}
