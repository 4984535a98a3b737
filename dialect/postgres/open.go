package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// Open validates dsn, a URL or keyword/value connection string, and
// opens it through the pgx database/sql driver.
func Open(dsn string) (*sql.Driver, error) {
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	return sql.Open(dialect.Postgres, "pgx", dsn)
}
