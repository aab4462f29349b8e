// Package testdb opens migrated databases for tests.
//
// SQLite databases are always available and live in memory. PostgreSQL tests
// run only when DRILL_TEST_DATABASE_URL (or DATABASE_URL) is set; otherwise
// they are skipped. Each Postgres test works inside a transaction that is
// rolled back when it finishes, so tests can share one database:
//
//	func TestQueries(t *testing.T) {
//	    db := testdb.OpenPostgres(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := sqlstore.New(tx, sqlstore.Postgres, nil)
//	        // ...
//	    })
//	}
package testdb
