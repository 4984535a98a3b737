// Package dialect provides database dialect abstraction for sqlforge.
//
// This package defines the interfaces and names shared by the dialect
// compilers, allowing a single abstract statement description to be rendered
// for PostgreSQL, MySQL/MariaDB, Oracle, SQL Server and SQLite.
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.Oracle    = "oracle"
//	dialect.SQLServer = "sqlserver"
//	dialect.SQLite    = "sqlite"
//
// # Driver Interface
//
// The package defines the Driver interface used by commands to execute the
// compiled SQL:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: driver wrapper, parameter bag, expressions and the shared compiler
//   - dialect/sql/schema: table metadata, abstract column types and the column builder
//   - dialect/mysql, dialect/postgres, dialect/oracle, dialect/mssql, dialect/sqlite:
//     quoters, column formats, query builders and commands per dialect
package dialect
