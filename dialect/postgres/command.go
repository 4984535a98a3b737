package postgres

import (
	"database/sql/driver"
	"reflect"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/syssam/sqlforge/dialect/sql"
)

// Binder numbers placeholders $1, $2, ... and binds Go slices as
// PostgreSQL arrays.
var Binder = sql.Binder{Format: squirrel.Dollar, Convert: arrayValue}

func arrayValue(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.(driver.Valuer); ok {
		return v
	}
	t := reflect.TypeOf(v)
	if (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() != reflect.Uint8 {
		return pq.Array(v)
	}
	return v
}

// Command executes PostgreSQL statements. InsertWithReturningPks reads
// the keys from the RETURNING row.
type Command struct {
	*sql.Executor
}

// NewCommand returns a command running the statements of qb on conn.
func NewCommand(qb *QueryBuilder, conn *sql.Connection) *Command {
	return &Command{Executor: sql.NewExecutor(qb, conn, Binder)}
}

var _ sql.Command = (*Command)(nil)
