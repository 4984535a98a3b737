// Package oracle compiles statements for Oracle Database.
package oracle

import (
	"context"
	"slices"
	"strings"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DisplayName names the dialect in errors.
const DisplayName = "Oracle"

// IndexBitmap is the Oracle bitmap index type.
const IndexBitmap = "BITMAP"

// maxInValues is the largest IN list Oracle accepts.
const maxInValues = 1000

// QueryBuilder is the Oracle query builder.
type QueryBuilder struct {
	sql.Generic
}

// NewQueryBuilder returns a query builder for conn. conn may be nil for
// statements that need no table metadata.
func NewQueryBuilder(conn *sql.Connection) *QueryBuilder {
	b := sql.NewBuilder(dialect.Oracle, NewQuoter(), conn, Types)
	b.LikeEscape = map[string]string{
		"%": "!%",
		"_": "!_",
		"!": "!!",
	}
	b.LikeEscapeSQL = ` ESCAPE '!'`
	b.Limit = BuildLimit
	b.OrderByAndLimit = buildOrderByAndLimit
	b.Register(sql.KindIn, buildIn)
	return &QueryBuilder{Generic: sql.Generic{B: b, DisplayName: DisplayName, Format: Format}}
}

// BuildLimit returns the ROWNUM filter applied to the paginated query,
// or empty without limit and offset.
func BuildLimit(limit, offset any) string {
	var filters []string
	if sql.HasOffset(offset) {
		filters = append(filters, "rowNumId > "+sql.LimitString(offset))
	}
	if sql.HasLimit(limit) {
		filters = append(filters, "rownum <= "+sql.LimitString(limit))
	}
	return strings.Join(filters, " AND ")
}

func buildOrderByAndLimit(b *sql.Builder, query string, orderBy []sql.Order, limit, offset any, p *sql.Params) (string, error) {
	order, err := b.BuildOrderBy(orderBy, p)
	if err != nil {
		return "", err
	}
	if order != "" {
		query += " " + order
	}
	filter := b.Limit(limit, offset)
	if filter == "" {
		return query, nil
	}
	return "WITH USER_SQL AS (" + query + "),\n" +
		"    PAGINATION AS (SELECT USER_SQL.*, rownum as rowNumId FROM USER_SQL)\n" +
		"SELECT *\n" +
		"FROM PAGINATION\n" +
		"WHERE " + filter, nil
}

// buildIn splits value lists longer than Oracle accepts into IN
// conditions joined by OR, or by AND for NOT IN.
func buildIn(b *sql.Builder, e sql.Expression, p *sql.Params) (string, error) {
	x := e.(*sql.InExpr)
	values, ok := sql.AsSlice(x.Values)
	if !ok || len(values) <= maxInValues {
		return sql.BuildIn(b, e, p)
	}
	var parts []sql.Expression
	for chunk := range slices.Chunk(values, maxInValues) {
		parts = append(parts, &sql.InExpr{Columns: x.Columns, Values: chunk, Not: x.Not})
	}
	if x.Not {
		return b.BuildExpression(sql.And(parts...), p)
	}
	return b.BuildExpression(sql.Or(parts...), p)
}

// Insert renders an INSERT. A row without columns inserts DEFAULT into
// the primary key, or into the first column of tables without one.
func (qb *QueryBuilder) Insert(ctx context.Context, table string, src sql.InsertSource, p *sql.Params) (string, error) {
	names, placeholders, values, err := qb.prepareInsertValues(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	return qb.B.InsertSQL(table, names, placeholders, values), nil
}

func (qb *QueryBuilder) prepareInsertValues(ctx context.Context, table string, src sql.InsertSource, p *sql.Params) (names, placeholders []string, values string, err error) {
	b := qb.B
	names, placeholders, values, err = b.PrepareInsertValues(ctx, table, src, p)
	if err != nil {
		return nil, nil, "", err
	}
	if _, ok := src.(*sql.Query); ok || len(names) > 0 {
		return names, placeholders, values, nil
	}
	ts, err := b.TableSchema(ctx, table)
	if err != nil || ts == nil {
		return names, placeholders, values, err
	}
	cols := ts.PrimaryKey
	if len(cols) == 0 && len(ts.Columns) > 0 {
		cols = []string{ts.Columns[0].Name}
	}
	for _, c := range cols {
		names = append(names, b.Quoter.QuoteColumnName(c))
		placeholders = append(placeholders, "DEFAULT")
	}
	return names, placeholders, values, nil
}

// Upsert renders a MERGE from the inserted row, selected from DUAL, or
// from the source query aliased "EXCLUDED". Without columns to update
// only WHEN NOT MATCHED is rendered.
func (qb *QueryBuilder) Upsert(ctx context.Context, table string, src sql.InsertSource, up sql.Update, p *sql.Params) (string, error) {
	b := qb.B
	uc, err := b.PrepareUpsertColumns(ctx, table, src, up)
	if err != nil {
		return "", err
	}
	if len(uc.Unique) == 0 {
		return qb.Insert(ctx, table, src, p)
	}
	quotedTable := b.Quoter.QuoteTableName(table)
	on := make([]sql.Expression, len(uc.Constraints))
	for i, c := range uc.Constraints {
		eqs := make([]sql.Expression, len(c.Columns))
		for j, name := range c.Columns {
			col := b.Quoter.QuoteColumnName(name)
			eqs[j] = sql.Expr(quotedTable + "." + col + `="EXCLUDED".` + col)
		}
		on[i] = sql.And(eqs...)
	}
	onSQL, err := b.BuildExpression(sql.Or(on...), p)
	if err != nil {
		return "", err
	}
	_, placeholders, values, err := qb.prepareInsertValues(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	using := strings.TrimLeft(values, " ")
	if len(placeholders) > 0 {
		q := sql.Select()
		for i, name := range uc.Insert {
			q.ColumnAs(sql.Expr(placeholders[i]), name)
		}
		if using, err = b.Build(q.From("DUAL"), p); err != nil {
			return "", err
		}
	}
	merge := "MERGE INTO " + quotedTable + " USING (" + using + `) "EXCLUDED" ON (` + onSQL + ")"
	names := make([]string, len(uc.Insert))
	excluded := make([]string, len(uc.Insert))
	for i, name := range uc.Insert {
		names[i] = b.Quoter.QuoteColumnName(name)
		excluded[i] = exclude(names[i])
	}
	insert := "INSERT (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(excluded, ", ") + ")"
	if uc.DoNothing(up) || (!up.All() && len(up.Columns()) == 0) {
		return merge + " WHEN NOT MATCHED THEN " + insert, nil
	}
	sets, err := b.PrepareUpsertSets(ctx, table, uc, up, exclude, p)
	if err != nil {
		return "", err
	}
	return merge + " WHEN MATCHED THEN UPDATE SET " + strings.Join(sets, ", ") + " WHEN NOT MATCHED THEN " + insert, nil
}

func exclude(quoted string) string { return `"EXCLUDED".` + quoted }

// InsertWithReturningPks renders the insert followed by
// "RETURNING pk... INTO :out..." and binds one OutParam per primary key
// column into p.
func (qb *QueryBuilder) InsertWithReturningPks(ctx context.Context, table string, cols sql.Columns, p *sql.Params) (string, error) {
	b := qb.B
	insert, err := qb.Insert(ctx, table, cols, p)
	if err != nil {
		return "", err
	}
	ts, err := b.TableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts == nil || len(ts.PrimaryKey) == 0 {
		return insert, nil
	}
	into := make([]string, len(ts.PrimaryKey))
	for i, name := range ts.PrimaryKey {
		into[i] = p.Add(NewOutParam(name, ts.Column(name)))
	}
	return insert + " RETURNING " + b.BuildColumns(ts.PrimaryKey) + " INTO " + strings.Join(into, ", "), nil
}

// CreateIndex supports plain, UNIQUE and BITMAP indexes.
func (qb *QueryBuilder) CreateIndex(name, table string, columns []string, indexType string) (string, error) {
	kind, err := qb.IndexType(indexType, sql.IndexUnique, IndexBitmap)
	if err != nil {
		return "", err
	}
	return qb.B.CreateIndex(kind, name, table, columns), nil
}

var _ sql.QueryBuilder = (*QueryBuilder)(nil)
