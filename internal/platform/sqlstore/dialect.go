package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour the store speaks. Queries are written once
// with PostgreSQL placeholders and rewritten for SQLite.
type Dialect string

const (
	// Postgres is PostgreSQL through the pgx stdlib driver.
	Postgres Dialect = "postgres"
	// SQLite is SQLite through the pure-Go modernc driver.
	SQLite Dialect = "sqlite"
)

// DialectForDriver maps a configured driver name to its dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

// gooseDialect is the goose dialect name for migrations.
func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// rebind rewrites $N placeholders into ?N for SQLite. Placeholders inside
// string literals are not expected in store queries.
func (d Dialect) rebind(query string) string {
	if d != SQLite {
		return query
	}
	return strings.ReplaceAll(query, "$", "?")
}

// lockClause returns the row-locking suffix for reads inside a transaction.
// SQLite locks the whole database on write, so it needs none.
func (d Dialect) lockClause() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

// notIn builds an "AND <column> NOT IN (...)" clause numbered after the
// arguments already in args, and returns it with the extended argument list.
// An empty exclusion set yields no clause at all.
func notIn(column string, args []any, exclude []string) (string, []any) {
	if len(exclude) == 0 {
		return "", args
	}
	clause := fmt.Sprintf(" AND %s NOT IN (%s)", column, placeholders(len(args)+1, len(exclude)))
	for _, id := range exclude {
		args = append(args, id)
	}
	return clause, args
}
