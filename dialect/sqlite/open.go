package sqlite

import (
	_ "modernc.org/sqlite"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// Open opens dsn, a file name or file: URI, with the pure Go driver.
// In-memory databases exist per connection; callers sharing one should
// limit the pool to a single connection.
func Open(dsn string) (*sql.Driver, error) {
	return sql.Open(dialect.SQLite, "sqlite", dsn)
}
