package sqlite

import "github.com/syssam/sqlforge/dialect/sql"

// Command executes SQLite statements. Keys come back from RETURNING.
type Command struct {
	*sql.Executor
}

// NewCommand returns a Command executing the statements of qb on conn.
func NewCommand(qb *QueryBuilder, conn *sql.Connection) *Command {
	return &Command{Executor: sql.NewExecutor(qb, conn, sql.QuestionBinder)}
}

var _ sql.Command = (*Command)(nil)
