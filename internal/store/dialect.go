package store

import "fmt"

// Dialect abstracts the SQL syntax differences between backends. The
// document tables are simple enough that placeholders and connection
// details are the only divergence.
type Dialect interface {
	// DriverName returns the database/sql driver name.
	DriverName() string

	// DSN returns the data source name for opening a connection.
	// For SQLite this is the file path; for PostgreSQL a connection string.
	DSN(pathOrConnStr string) string

	// Placeholder returns the parameter placeholder for the given
	// 1-based index. SQLite: "?" (ignoring the index), PostgreSQL: "$1".
	Placeholder(index int) string
}

// SQLiteDialect produces SQLite-compatible SQL via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d SQLiteDialect) DriverName() string { return "sqlite" }

func (d SQLiteDialect) DSN(path string) string { return path }

func (d SQLiteDialect) Placeholder(index int) string { return "?" }

// PostgresDialect produces PostgreSQL-compatible SQL via the pgx stdlib
// driver.
type PostgresDialect struct{}

func (d PostgresDialect) DriverName() string { return "pgx" }

func (d PostgresDialect) DSN(connStr string) string { return connStr }

func (d PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}
