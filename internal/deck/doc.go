// Package deck builds and manages the daily review decks of the driving-test
// practice app.
//
// The Builder decides which questions a user practises next from their answer
// history, and the Service persists the resulting deck, records answers and
// maintains the per-question and per-topic aggregates the Builder reads.
// Persistence is reached only through the Repository, Writer, Queries and
// UnitOfWork interfaces; internal/platform/sqlstore provides the SQL
// implementation.
package deck
