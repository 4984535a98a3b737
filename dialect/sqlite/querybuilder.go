// Package sqlite compiles statements for SQLite 3.35 and later.
package sqlite

import (
	"context"
	"strconv"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DisplayName names the dialect in errors.
const DisplayName = "SQLite"

// maxLimit stands in for a missing limit when an offset is given.
const maxLimit = "9223372036854775807"

// QueryBuilder is the SQLite query builder.
type QueryBuilder struct {
	sql.Generic
}

// NewQueryBuilder returns a query builder for conn. conn may be nil for
// statements that need no table metadata.
func NewQueryBuilder(conn *sql.Connection) *QueryBuilder {
	b := sql.NewBuilder(dialect.SQLite, NewQuoter(), conn, Types)
	b.LikeEscapeSQL = ` ESCAPE '\'`
	b.Limit = BuildLimit
	return &QueryBuilder{Generic: sql.Generic{B: b, DisplayName: DisplayName, Format: Format}}
}

// BuildLimit renders "LIMIT n OFFSET o". SQLite cannot take an OFFSET
// alone, so a missing limit becomes the largest signed 64-bit value.
func BuildLimit(limit, offset any) string {
	if !sql.HasLimit(limit) {
		if !sql.HasOffset(offset) {
			return ""
		}
		limit = sql.Expr(maxLimit)
	}
	return sql.BuildLimit(limit, offset)
}

// Upsert renders INSERT ... ON CONFLICT (unique) DO UPDATE SET, or
// ON CONFLICT DO NOTHING when nothing is to be updated.
func (qb *QueryBuilder) Upsert(ctx context.Context, table string, src sql.InsertSource, up sql.Update, p *sql.Params) (string, error) {
	b := qb.B
	uc, err := b.PrepareUpsertColumns(ctx, table, src, up)
	if err != nil {
		return "", err
	}
	// A SELECT source needs a WHERE clause, or the parser takes ON
	// CONFLICT for a join constraint.
	if q, ok := src.(*sql.Query); ok && len(uc.Unique) > 0 && !q.HasWhere() {
		filtered := *q
		src = filtered.Where(sql.Expr("true"))
	}
	insert, err := b.Insert(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	if len(uc.Unique) == 0 {
		return insert, nil
	}
	if uc.DoNothing(up) {
		return insert + " ON CONFLICT DO NOTHING", nil
	}
	sets, err := b.PrepareUpsertSets(ctx, table, uc, up, func(col string) string {
		return "EXCLUDED." + col
	}, p)
	if err != nil {
		return "", err
	}
	return insert + " ON CONFLICT (" + b.BuildColumns(uc.Unique) + ") DO UPDATE SET " + strings.Join(sets, ", "), nil
}

// InsertWithReturningPks renders the insert followed by RETURNING pk.
func (qb *QueryBuilder) InsertWithReturningPks(ctx context.Context, table string, cols sql.Columns, p *sql.Params) (string, error) {
	return qb.B.InsertReturning(ctx, table, cols, p)
}

// AlterColumn is not supported: SQLite cannot change a column type.
func (qb *QueryBuilder) AlterColumn(context.Context, string, string, any) (string, error) {
	return "", qb.NotSupported("alterColumn")
}

// DropIndex renders "DROP INDEX name". SQLite index names are unique
// per database.
func (qb *QueryBuilder) DropIndex(_ context.Context, name, _ string) (string, error) {
	return "DROP INDEX " + qb.B.Quoter.QuoteTableName(name), nil
}

// AddCommentOnColumn is not supported.
func (qb *QueryBuilder) AddCommentOnColumn(context.Context, string, string, string) (string, error) {
	return "", qb.NotSupported("addCommentOnColumn")
}

// AddCommentOnTable is not supported.
func (qb *QueryBuilder) AddCommentOnTable(context.Context, string, string) (string, error) {
	return "", qb.NotSupported("addCommentOnTable")
}

// DropCommentFromColumn is not supported.
func (qb *QueryBuilder) DropCommentFromColumn(context.Context, string, string) (string, error) {
	return "", qb.NotSupported("dropCommentFromColumn")
}

// DropCommentFromTable is not supported.
func (qb *QueryBuilder) DropCommentFromTable(context.Context, string) (string, error) {
	return "", qb.NotSupported("dropCommentFromTable")
}

// ResetSequence updates the sqlite_sequence row of an AUTOINCREMENT
// table so that the next key is value, or follows the largest primary
// key when value is nil.
func (qb *QueryBuilder) ResetSequence(ctx context.Context, table string, value any) (string, error) {
	b := qb.B
	ts, err := b.RequireTableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts.SequenceName == "" {
		return "", sqlforge.NewInvalidArgumentError(table, "there is no sequence associated with table")
	}
	var seq string
	if value == nil {
		if len(ts.PrimaryKey) == 0 {
			return "", sqlforge.NewInvalidArgumentError(table, "table has no primary key")
		}
		seq = "(SELECT COALESCE(MAX(" + b.Quoter.QuoteColumnName(ts.PrimaryKey[0]) + "),0) FROM " + b.Quoter.QuoteTableName(table) + ")"
	} else {
		n, err := sql.Int64(value)
		if err != nil {
			return "", err
		}
		seq = strconv.FormatInt(n-1, 10)
	}
	return "UPDATE sqlite_sequence SET seq=" + seq + " WHERE name=" + b.Quoter.QuoteString(ts.Name), nil
}

// CheckIntegrity switches foreign key enforcement for the connection.
// SQLite has no per-table switch, so schema and table are ignored.
func (qb *QueryBuilder) CheckIntegrity(_ context.Context, check bool, _, _ string) (string, error) {
	if check {
		return "PRAGMA foreign_keys=1", nil
	}
	return "PRAGMA foreign_keys=0", nil
}

var _ sql.QueryBuilder = (*QueryBuilder)(nil)
