package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/mssql"
	"github.com/syssam/sqlforge/dialect/mysql"
	"github.com/syssam/sqlforge/dialect/oracle"
	"github.com/syssam/sqlforge/dialect/postgres"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
	"github.com/syssam/sqlforge/dialect/sqlite"
)

// aliases maps alternative spellings to dialect names.
var aliases = map[string]string{
	"mariadb":    dialect.MySQL,
	"pgx":        dialect.Postgres,
	"postgresql": dialect.Postgres,
	"mssql":      dialect.SQLServer,
	"sqlite3":    dialect.SQLite,
}

// newQueryBuilder returns the query builder of the named dialect.
func newQueryBuilder(name string, conn *sql.Connection) (sql.QueryBuilder, error) {
	name = strings.ToLower(name)
	if a, ok := aliases[name]; ok {
		name = a
	}
	switch name {
	case dialect.MySQL:
		return mysql.NewQueryBuilder(conn), nil
	case dialect.Postgres:
		return postgres.NewQueryBuilder(conn), nil
	case dialect.Oracle:
		return oracle.NewQueryBuilder(conn), nil
	case dialect.SQLServer:
		return mssql.NewQueryBuilder(conn), nil
	case dialect.SQLite:
		return sqlite.NewQueryBuilder(conn), nil
	}
	return nil, fmt.Errorf("unknown dialect %q, want one of %s", name, strings.Join(dialect.Names(), ", "))
}

func printTypes(ctx context.Context, w io.Writer, qb sql.QueryBuilder) error {
	for _, t := range schema.Types() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", t, qb.ColumnType(ctx, t)); err != nil {
			return err
		}
	}
	return nil
}
