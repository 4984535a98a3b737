package mssql

import "github.com/syssam/sqlforge/dialect/sql"

// Command executes SQL Server statements with @pN placeholders. The
// OUTPUT batch of InsertWithReturningPks yields the keys as a row.
type Command struct {
	*sql.Executor
}

// NewCommand returns a Command executing the statements of qb on conn.
func NewCommand(qb *QueryBuilder, conn *sql.Connection) *Command {
	return &Command{Executor: sql.NewExecutor(qb, conn, sql.AtPBinder)}
}

var _ sql.Command = (*Command)(nil)
