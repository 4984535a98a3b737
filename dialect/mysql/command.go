package mysql

import (
	"context"
	"fmt"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
)

// Command executes MySQL statements.
type Command struct {
	*sql.Executor
}

// NewCommand returns a command running the statements of qb on conn.
func NewCommand(qb *QueryBuilder, conn *sql.Connection) *Command {
	return &Command{Executor: sql.NewExecutor(qb, conn, sql.QuestionBinder)}
}

// InsertWithReturningPks is not supported: MySQL has no RETURNING or
// OUTPUT clause. See InsertWithLastID.
func (c *Command) InsertWithReturningPks(context.Context, string, sql.Columns) (*sql.InsertResult, error) {
	return nil, sqlforge.NewNotSupportedError(DisplayName, "insertWithReturningPks")
}

// InsertWithLastID inserts one row and resolves its primary key from
// LAST_INSERT_ID() for the auto-increment column, and from the supplied
// values or column defaults for the key columns preceding it.
func (c *Command) InsertWithLastID(ctx context.Context, table string, cols sql.Columns) (*sql.InsertResult, error) {
	p := sql.NewParams()
	query, err := c.QB.Insert(ctx, table, cols, p)
	if err != nil {
		return nil, err
	}
	res, err := c.Exec(ctx, query, p)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mysql: rows affected: %w", err)
	}
	ts, err := c.QB.Builder().TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if ts == nil || len(ts.PrimaryKey) == 0 {
		return &sql.InsertResult{RowsAffected: n}, nil
	}
	keys := make(map[string]any, len(ts.PrimaryKey))
	for _, name := range ts.PrimaryKey {
		col := ts.Column(name)
		if col != nil && col.AutoIncrement {
			id, err := res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("mysql: last insert id: %w", err)
			}
			keys[name] = id
			break
		}
		if v, ok := cols.Get(name); ok {
			keys[name] = v
		} else if col != nil {
			keys[name] = col.DefaultValue
		} else {
			keys[name] = nil
		}
	}
	return &sql.InsertResult{PrimaryKeys: keys, RowsAffected: n}, nil
}

var _ sql.Command = (*Command)(nil)
