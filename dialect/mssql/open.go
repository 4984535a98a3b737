package mssql

import (
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// Open validates dsn, a sqlserver:// URL or ADO style string, and opens
// it through the "sqlserver" driver, which binds @pN parameters.
func Open(dsn string) (*sql.Driver, error) {
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("mssql: parse dsn: %w", err)
	}
	return sql.Open(dialect.SQLServer, "sqlserver", dsn)
}
