package mysql

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// Open validates dsn and opens a MySQL driver.
func Open(dsn string) (*sql.Driver, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, fmt.Errorf("mysql: parse dsn: %w", err)
	}
	return sql.Open(dialect.MySQL, "mysql", dsn)
}
