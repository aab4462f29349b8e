package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/drill-api/internal/config"
	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/platform/sqlstore"
)

// application wires configuration, storage and the deck service together.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	dialect sqlstore.Dialect
	store   *sqlstore.Store
	builder *deck.Builder
	service deck.Service
}

// newApplication opens the configured database and builds the services on top.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, dialect, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app, err := newApplicationWithDB(cfg, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApplicationWithDB(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		dialect: dialect,
		store:   sqlstore.New(db, dialect, logger),
	}

	var err error
	app.builder, err = deck.NewBuilder(app.store, deckOptions(cfg.Deck), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck builder: %w", err)
	}

	app.service, err = deck.NewService(
		app.builder,
		sqlstore.NewUnitOfWork(db, app.store),
		app.store,
		nil,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	return app, nil
}

// deckOptions translates the deck configuration group into builder options.
func deckOptions(cfg config.DeckConfig) deck.Options {
	return deck.Options{
		Size:               cfg.Size,
		RecentMistakes:     cfg.RecentMistakes,
		StaleChecks:        cfg.StaleChecks,
		StaleAfter:         cfg.StaleAfter,
		WeakTopicThreshold: cfg.WeakTopicThreshold,
	}
}

// migrate runs a goose command against the application database.
func (app *application) migrate(ctx context.Context, command string) error {
	return sqlstore.Migrate(ctx, app.db, app.dialect, command, app.logger)
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
}
