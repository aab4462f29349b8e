package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/store"
)

// Store implements the deck persistence interfaces on top of database/sql.
// It accepts a database connection or transaction that is initialized and
// managed by the caller.
type Store struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// Ensure Store implements the deck interfaces
var (
	_ deck.Repository = (*Store)(nil)
	_ deck.Writer     = (*Store)(nil)
	_ deck.Queries    = (*Store)(nil)
)

// New creates a Store. If logger is nil, a default logger will be used.
func New(db store.DBTX, dialect Dialect, logger *slog.Logger) *Store {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "sql_store")),
	}
}

// WithTx returns a Store that runs every statement on tx.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// Dialect reports the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// queryIDs runs a query returning a single text column.
func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
