package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/phrazzld/drill-api/internal/config"
	"github.com/phrazzld/drill-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// URL environment variables, in order of preference.
var urlEnvVars = []string{"DRILL_TEST_DATABASE_URL", "DATABASE_URL"}

// PostgresURL returns the configured test database URL, or "".
func PostgresURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no PostgreSQL test database is configured.
func ShouldSkipDatabaseTest() bool {
	return PostgresURL() == ""
}

// OpenPostgres connects to the test database and applies all migrations.
// It skips the test when no database is configured.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if ShouldSkipDatabaseTest() {
		t.Skip("DRILL_TEST_DATABASE_URL not set - skipping PostgreSQL test")
	}
	return open(t, config.DatabaseConfig{Driver: "pgx", URL: PostgresURL(), MaxOpenConns: 4, MaxIdleConns: 2})
}

// OpenSQLite returns a migrated in-memory SQLite database.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"})
}

func open(t *testing.T, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := sqlstore.Open(ctx, cfg, nil)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db, dialect, "up", nil), "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
