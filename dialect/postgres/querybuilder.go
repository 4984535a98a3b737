// Package postgres compiles statements for PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DisplayName names the dialect in errors.
const DisplayName = "PostgreSQL"

// Index access methods accepted by CreateIndex.
const (
	IndexBTree  = "btree"
	IndexHash   = "hash"
	IndexGist   = "gist"
	IndexGin    = "gin"
	IndexSPGist = "spgist"
	IndexBrin   = "brin"
)

// QueryBuilder is the PostgreSQL query builder.
type QueryBuilder struct {
	sql.Generic
}

// NewQueryBuilder returns a query builder for conn. conn may be nil for
// statements that need no table metadata.
func NewQueryBuilder(conn *sql.Connection) *QueryBuilder {
	b := sql.NewBuilder(dialect.Postgres, NewQuoter(), conn, Types)
	b.DefaultSchema = "public"
	b.Register(sql.KindJSON, buildJSON)
	b.Register(sql.KindArray, buildArray)
	return &QueryBuilder{Generic: sql.Generic{B: b, DisplayName: DisplayName, Format: Format}}
}

// Upsert renders INSERT ... ON CONFLICT (unique) DO UPDATE SET, or
// ON CONFLICT DO NOTHING when nothing is to be updated.
func (qb *QueryBuilder) Upsert(ctx context.Context, table string, src sql.InsertSource, up sql.Update, p *sql.Params) (string, error) {
	b := qb.B
	insert, err := b.Insert(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	uc, err := b.PrepareUpsertColumns(ctx, table, src, up)
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

// InsertWithReturningPks renders the insert followed by RETURNING of
// the primary key columns.
func (qb *QueryBuilder) InsertWithReturningPks(ctx context.Context, table string, cols sql.Columns, p *sql.Params) (string, error) {
	return qb.B.InsertReturning(ctx, table, cols, p)
}

func buildJSON(b *sql.Builder, e sql.Expression, p *sql.Params) (string, error) {
	x := e.(*sql.JSONExpr)
	var (
		s   string
		err error
	)
	switch v := x.Value.(type) {
	case *sql.Query:
		s, err = b.Build(v, p)
		s = "(" + s + ")"
	case *sql.ArrayExpr:
		s, err = b.BuildExpression(v, p)
		s = "array_to_json(" + s + ")"
	default:
		s, err = sql.BuildJSON(b, e, p)
	}
	if err != nil {
		return "", err
	}
	if x.Type != "" {
		s += "::" + x.Type
	}
	return s, nil
}

func buildArray(b *sql.Builder, e sql.Expression, p *sql.Params) (string, error) {
	x := e.(*sql.ArrayExpr)
	dim := max(x.Dimension, 1)
	var hint string
	if x.Type != "" {
		hint = "::" + x.Type + strings.Repeat("[]", dim)
	}
	switch v := x.Value.(type) {
	case nil:
		return "NULL", nil
	case *sql.Query:
		s, err := b.Build(v, p)
		if err != nil {
			return "", err
		}
		return "ARRAY(" + s + ")" + hint, nil
	}
	values, ok := sql.AsSlice(x.Value)
	if !ok {
		return p.Add(x.Value) + hint, nil
	}
	if len(values) == 0 {
		return "'{}'" + hint, nil
	}
	items := make([]string, len(values))
	for i, v := range values {
		var (
			s   string
			err error
		)
		if _, nested := sql.AsSlice(v); nested && dim > 1 {
			s, err = buildArray(b, &sql.ArrayExpr{Value: v, Type: x.Type, Dimension: dim - 1}, p)
		} else {
			s, err = b.BindValue(v, p)
		}
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return "ARRAY[" + strings.Join(items, ", ") + "]" + hint, nil
}

var _ sql.QueryBuilder = (*QueryBuilder)(nil)
