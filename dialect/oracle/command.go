package oracle

import (
	"context"
	stdsql "database/sql"
	"strings"

	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// OutParam is a RETURNING ... INTO target bound by name. The driver
// writes the returned value into Dest.
type OutParam struct {
	Column string
	Dest   any
}

// NewOutParam returns the out parameter of a primary key column.
// Integer columns scan into an int64, anything else into a string.
func NewOutParam(column string, c *schema.ColumnSchema) *OutParam {
	op := &OutParam{Column: column, Dest: new(string)}
	if c != nil && c.ValueType == "integer" {
		op.Dest = new(int64)
	}
	return op
}

// Value returns the value written by the driver.
func (op *OutParam) Value() any {
	switch d := op.Dest.(type) {
	case *int64:
		return *d
	case *string:
		// CHAR keys come back blank padded.
		return strings.TrimRight(*d, " ")
	}
	return op.Dest
}

// Binder binds by name, passing out parameters as sql.Out.
var Binder = sql.Binder{Named: true, Convert: outValue}

func outValue(v any) any {
	if op, ok := v.(*OutParam); ok {
		return stdsql.Out{Dest: op.Dest}
	}
	return v
}

// Command runs Oracle statements. The returned keys of an insert come
// back through out parameters instead of a result row.
type Command struct {
	*sql.Executor
}

// NewCommand returns a Command executing the statements of qb on conn.
func NewCommand(qb *QueryBuilder, conn *sql.Connection) *Command {
	return &Command{Executor: sql.NewExecutor(qb, conn, Binder)}
}

// InsertWithReturningPks inserts cols into table and reads the primary
// key values from the RETURNING INTO parameters.
func (c *Command) InsertWithReturningPks(ctx context.Context, table string, cols sql.Columns) (*sql.InsertResult, error) {
	ts, err := c.QB.Builder().TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if ts == nil || len(ts.PrimaryKey) == 0 {
		return c.Insert(ctx, table, cols)
	}
	p := sql.NewParams()
	query, err := c.QB.InsertWithReturningPks(ctx, table, cols, p)
	if err != nil {
		return nil, err
	}
	n, err := c.Execute(ctx, query, p)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]any, len(ts.PrimaryKey))
	for _, name := range p.Names() {
		v, _ := p.Value(name)
		if op, ok := v.(*OutParam); ok {
			keys[op.Column] = op.Value()
		}
	}
	return &sql.InsertResult{PrimaryKeys: keys, RowsAffected: n}, nil
}

var _ sql.Command = (*Command)(nil)
