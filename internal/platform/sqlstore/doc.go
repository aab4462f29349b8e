// Package sqlstore is the SQL persistence layer behind the deck package.
//
// A single Store serves PostgreSQL (through pgx) and SQLite (through the
// pure-Go modernc driver). Queries are written with PostgreSQL placeholders
// and rebound per dialect; time cutoffs are always passed as parameters so no
// query depends on the database clock. Schema changes are goose migrations
// embedded per dialect.
package sqlstore
