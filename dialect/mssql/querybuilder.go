// Package mssql compiles statements for Microsoft SQL Server 2012 and
// later.
package mssql

import (
	"context"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DisplayName names the dialect in errors.
const DisplayName = "MSSQL"

// QueryBuilder is the SQL Server query builder.
type QueryBuilder struct {
	sql.Generic
}

// NewQueryBuilder returns a query builder for conn. conn may be nil for
// statements that need no table metadata.
func NewQueryBuilder(conn *sql.Connection) *QueryBuilder {
	b := sql.NewBuilder(dialect.SQLServer, NewQuoter(), conn, Types)
	b.DefaultSchema = "dbo"
	b.LikeEscape = map[string]string{
		"%":  "[%]",
		"_":  "[_]",
		"[":  "[[]",
		"]":  "[]]",
		`\`: `[\]`,
	}
	b.Limit = BuildLimit
	b.OrderByAndLimit = buildOrderByAndLimit
	b.Register(sql.KindIn, buildIn)
	return &QueryBuilder{Generic: sql.Generic{B: b, DisplayName: DisplayName, Format: Format}}
}

// BuildLimit renders "OFFSET o ROWS FETCH NEXT n ROWS ONLY". The offset
// clause is required by FETCH, so a missing offset renders as 0.
func BuildLimit(limit, offset any) string {
	if !sql.HasLimit(limit) && !sql.HasOffset(offset) {
		return ""
	}
	o := "0"
	if sql.HasOffset(offset) {
		o = sql.LimitString(offset)
	}
	s := "OFFSET " + o + " ROWS"
	if sql.HasLimit(limit) {
		s += " FETCH NEXT " + sql.LimitString(limit) + " ROWS ONLY"
	}
	return s
}

// buildOrderByAndLimit adds "ORDER BY (SELECT NULL)" to paginated
// queries without an order, as OFFSET requires one.
func buildOrderByAndLimit(b *sql.Builder, query string, orderBy []sql.Order, limit, offset any, p *sql.Params) (string, error) {
	order, err := b.BuildOrderBy(orderBy, p)
	if err != nil {
		return "", err
	}
	l := b.Limit(limit, offset)
	if l != "" && order == "" {
		order = "ORDER BY (SELECT NULL)"
	}
	for _, s := range []string{order, l} {
		if s != "" {
			query += " " + s
		}
	}
	return query, nil
}

// buildIn renders composite IN conditions as OR-ed column comparisons,
// since SQL Server has no row value constructors.
func buildIn(b *sql.Builder, e sql.Expression, p *sql.Params) (string, error) {
	x := e.(*sql.InExpr)
	if len(x.Columns) < 2 {
		return sql.BuildIn(b, e, p)
	}
	if _, ok := x.Values.(*sql.Query); ok {
		return "", sqlforge.NewNotSupportedError(DisplayName, "composite IN with a sub-query")
	}
	rows, ok := sql.AsSlice(x.Values)
	if !ok {
		rows = []any{x.Values}
	}
	eq, isNull, and, or := "=", " IS NULL", " AND ", " OR "
	if x.Not {
		eq, isNull, and, or = "<>", " IS NOT NULL", " OR ", " AND "
	}
	var vss []string
	for _, row := range rows {
		vals, ok := sql.AsSlice(row)
		if !ok {
			return "", sqlforge.NewInvalidArgumentError("", "composite IN expects rows of values")
		}
		vs := make([]string, len(x.Columns))
		for i, name := range x.Columns {
			col := b.Quoter.QuoteColumnName(name)
			if i >= len(vals) || vals[i] == nil {
				vs[i] = col + isNull
				continue
			}
			ph, err := b.BindValue(vals[i], p)
			if err != nil {
				return "", err
			}
			vs[i] = col + eq + ph
		}
		vss = append(vss, "("+strings.Join(vs, and)+")")
	}
	if len(vss) == 0 {
		if x.Not {
			return "", nil
		}
		return "0=1", nil
	}
	return "(" + strings.Join(vss, or) + ")", nil
}

// Upsert renders a MERGE ... WITH (HOLDLOCK) from the inserted row or
// the source query, aliased [EXCLUDED].
func (qb *QueryBuilder) Upsert(ctx context.Context, table string, src sql.InsertSource, up sql.Update, p *sql.Params) (string, error) {
	b := qb.B
	uc, err := b.PrepareUpsertColumns(ctx, table, src, up)
	if err != nil {
		return "", err
	}
	if len(uc.Unique) == 0 {
		return qb.Insert(ctx, table, src, p)
	}
	names, placeholders, values, err := b.PrepareInsertValues(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	quotedTable := b.Quoter.QuoteTableName(table)
	on := make([]sql.Expression, len(uc.Constraints))
	for i, c := range uc.Constraints {
		eqs := make([]sql.Expression, len(c.Columns))
		for j, name := range c.Columns {
			col := b.Quoter.QuoteColumnName(name)
			eqs[j] = sql.Expr(quotedTable + "." + col + "=" + exclude(col))
		}
		on[i] = sql.And(eqs...)
	}
	onSQL, err := b.BuildExpression(sql.Or(on...), p)
	if err != nil {
		return "", err
	}
	using := "(" + strings.TrimLeft(values, " ") + ")"
	if len(placeholders) > 0 {
		using = "(VALUES (" + strings.Join(placeholders, ", ") + "))"
	}
	excluded := make([]string, len(names))
	for i, n := range names {
		excluded[i] = exclude(n)
	}
	merge := "MERGE " + quotedTable + " WITH (HOLDLOCK) USING " + using + " AS [EXCLUDED] (" + strings.Join(names, ", ") + ") ON (" + onSQL + ")"
	insert := " WHEN NOT MATCHED THEN INSERT (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(excluded, ", ") + ");"
	if uc.DoNothing(up) || (!up.All() && len(up.Columns()) == 0) {
		return merge + insert, nil
	}
	sets, err := b.PrepareUpsertSets(ctx, table, uc, up, exclude, p)
	if err != nil {
		return "", err
	}
	return merge + " WHEN MATCHED THEN UPDATE SET " + strings.Join(sets, ", ") + insert, nil
}

func exclude(quoted string) string { return "[EXCLUDED]." + quoted }

// InsertWithReturningPks renders a batch capturing the primary key with
// OUTPUT INSERTED into a table variable and selecting it back. OUTPUT
// cannot return directly from tables with triggers.
func (qb *QueryBuilder) InsertWithReturningPks(ctx context.Context, table string, cols sql.Columns, p *sql.Params) (string, error) {
	b := qb.B
	ts, err := b.TableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts == nil || len(ts.PrimaryKey) == 0 {
		return qb.Insert(ctx, table, cols, p)
	}
	names, placeholders, values, err := b.PrepareInsertValues(ctx, table, cols, p)
	if err != nil {
		return "", err
	}
	decl := make([]string, len(ts.PrimaryKey))
	inserted := make([]string, len(ts.PrimaryKey))
	for i, name := range ts.PrimaryKey {
		col := b.Quoter.QuoteColumnName(name)
		decl[i] = col + " " + outputType(ts.Column(name))
		inserted[i] = "INSERTED." + col
	}
	var sb strings.Builder
	sb.WriteString("SET NOCOUNT ON;DECLARE @temporary_inserted TABLE (" + strings.Join(decl, ", ") + ");")
	sb.WriteString("INSERT INTO " + b.Quoter.QuoteTableName(table))
	if len(names) > 0 {
		sb.WriteString(" (" + strings.Join(names, ", ") + ")")
	}
	sb.WriteString(" OUTPUT " + strings.Join(inserted, ", ") + " INTO @temporary_inserted")
	if len(placeholders) > 0 {
		sb.WriteString(" VALUES (" + strings.Join(placeholders, ", ") + ")")
	} else {
		sb.WriteString(values)
	}
	sb.WriteString(";SELECT * FROM @temporary_inserted;")
	return sb.String(), nil
}

// CreateIndex supports plain, UNIQUE, CLUSTERED and NONCLUSTERED
// indexes.
func (qb *QueryBuilder) CreateIndex(name, table string, columns []string, indexType string) (string, error) {
	kind, err := qb.IndexType(indexType, sql.IndexUnique, sql.IndexClustered, sql.IndexNonClustered)
	if err != nil {
		return "", err
	}
	return qb.B.CreateIndex(kind, name, table, columns), nil
}

var _ sql.QueryBuilder = (*QueryBuilder)(nil)
