package sql

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

type (
	// BuildFunc renders one expression variant, binding values into p.
	BuildFunc func(b *Builder, e Expression, p *Params) (string, error)

	// LimitFunc renders the LIMIT/OFFSET fragment of a dialect.
	LimitFunc func(limit, offset any) string

	// OrderByAndLimitFunc appends ORDER BY and pagination to a SELECT.
	OrderByAndLimitFunc func(b *Builder, sql string, orderBy []Order, limit, offset any, p *Params) (string, error)
)

// Builder is the dialect-independent part of the SQL compiler. Dialect
// query builders compose it and adjust its hooks at construction.
type Builder struct {
	Dialect string
	Quoter  *Quoter
	Conn    *Connection
	// Types returns the abstract type map. Dialects whose map depends on
	// the server resolve it lazily.
	Types func(ctx context.Context) map[string]string
	// LikeEscape maps LIKE wildcards to their escaped form, and
	// LikeEscapeSQL is appended after each LIKE operand.
	LikeEscape      map[string]string
	LikeEscapeSQL   string
	Limit           LimitFunc
	OrderByAndLimit OrderByAndLimitFunc
	DefaultSchema   string

	builders map[Kind]BuildFunc
}

// NewBuilder returns a Builder with the default expression builders,
// the LIMIT/OFFSET pagination and the given type map.
func NewBuilder(dialect string, q *Quoter, conn *Connection, types map[string]string) *Builder {
	return &Builder{
		Dialect: dialect,
		Quoter:  q,
		Conn:    conn,
		Types:   func(context.Context) map[string]string { return types },
		LikeEscape: map[string]string{
			"%": `\%`,
			"_": `\_`,
			`\`: `\\`,
		},
		Limit:           BuildLimit,
		OrderByAndLimit: BuildOrderByAndLimit,
		builders:        maps.Clone(defaultBuilders),
	}
}

// Register overrides the builder of an expression kind.
func (b *Builder) Register(k Kind, fn BuildFunc) {
	b.builders[k] = fn
}

var (
	typeArgsRe = regexp.MustCompile(`^(\w+)\((.+?)\)(.*)$`)
	typeWordRe = regexp.MustCompile(`^(\w+)\s+`)
	leadWordRe = regexp.MustCompile(`^\w+`)
	parensRe   = regexp.MustCompile(`\(.+\)`)
	aliasRe    = regexp.MustCompile(`^(.*?)(?i:\s+as\s+|\s+)([\w\-_.]+)$`)
	tableAsRe  = regexp.MustCompile(`^(.*?)(?i:\s+as|)\s+([^ ]+)$`)
)

// ColumnType resolves an abstract column type, possibly followed by a
// length and modifiers, to the physical type of the dialect. t is a
// string or a column builder. Unknown types pass through verbatim.
func (b *Builder) ColumnType(ctx context.Context, t any) string {
	s := fmt.Sprint(t)
	types := b.Types(ctx)
	if v, ok := types[s]; ok {
		return v
	}
	if m := typeArgsRe.FindStringSubmatch(s); m != nil {
		if v, ok := types[m[1]]; ok {
			return parensRe.ReplaceAllLiteralString(v, "("+m[2]+")") + m[3]
		}
	} else if m := typeWordRe.FindStringSubmatch(s); m != nil {
		if v, ok := types[m[1]]; ok {
			return leadWordRe.ReplaceAllLiteralString(s, v)
		}
	}
	return s
}

// BuildExpression renders e. A nil expression renders empty.
func (b *Builder) BuildExpression(e Expression, p *Params) (string, error) {
	if e == nil {
		return "", nil
	}
	fn, ok := b.builders[e.Kind()]
	if !ok {
		return "", sqlforge.NewNotSupportedError(b.Dialect, e.Kind().String()+" expression")
	}
	return fn(b, e, p)
}

// BindValue renders expressions and binds any other value as a parameter.
func (b *Builder) BindValue(v any, p *Params) (string, error) {
	if e, ok := v.(Expression); ok {
		return b.BuildExpression(e, p)
	}
	return p.Add(v), nil
}

// TableSchema returns the metadata of table, or nil when the builder
// has no schema reader or the table is unknown.
func (b *Builder) TableSchema(ctx context.Context, table string) (*schema.TableSchema, error) {
	if b.Conn == nil || b.Conn.Schema == nil {
		return nil, nil
	}
	ts, err := b.Conn.Schema.TableSchema(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: table schema %q: %w", table, err)
	}
	return ts, nil
}

// RequireTableSchema is TableSchema failing with an invalid argument
// error for unknown tables.
func (b *Builder) RequireTableSchema(ctx context.Context, table string) (*schema.TableSchema, error) {
	ts, err := b.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		return nil, sqlforge.NewInvalidArgumentError(table, "table not found")
	}
	return ts, nil
}

// Typecast wraps values written to JSON and array columns into the
// matching expressions.
func (b *Builder) Typecast(ts *schema.TableSchema, column string, v any) any {
	if ts == nil || v == nil {
		return v
	}
	if _, ok := v.(Expression); ok {
		return v
	}
	col := ts.Column(column)
	switch {
	case col == nil:
		return v
	case col.Dimension > 0:
		return &ArrayExpr{Value: v, Type: strings.TrimRight(col.DBType, "[]"), Dimension: col.Dimension}
	case col.Type == schema.TypeJSON:
		return &JSONExpr{Value: v, Type: col.DBType}
	}
	return v
}

// Build renders a SELECT statement.
func (b *Builder) Build(q *Query, p *Params) (string, error) {
	p.Merge(q.params...)
	sel, err := b.buildSelect(q, p)
	if err != nil {
		return "", err
	}
	clauses := []string{sel}
	from, err := b.buildFrom(q.from, p)
	if err != nil {
		return "", err
	}
	clauses = append(clauses, from)
	where, err := b.BuildExpression(q.where, p)
	if err != nil {
		return "", err
	}
	if where != "" {
		clauses = append(clauses, "WHERE "+where)
	}
	if len(q.groupBy) > 0 {
		clauses = append(clauses, "GROUP BY "+b.BuildColumns(q.groupBy))
	}
	having, err := b.BuildExpression(q.having, p)
	if err != nil {
		return "", err
	}
	if having != "" {
		clauses = append(clauses, "HAVING "+having)
	}
	sql := strings.Join(slices.DeleteFunc(clauses, func(s string) bool { return s == "" }), " ")
	return b.OrderByAndLimit(b, sql, q.orderBy, q.limit, q.offset, p)
}

func (b *Builder) buildSelect(q *Query, p *Params) (string, error) {
	sel := "SELECT"
	if q.distinct {
		sel += " DISTINCT"
	}
	if len(q.columns) == 0 {
		return sel + " *", nil
	}
	cols := make([]string, len(q.columns))
	for i, c := range q.columns {
		switch x := c.expr.(type) {
		case Expression:
			s, err := b.BuildExpression(x, p)
			if err != nil {
				return "", err
			}
			if c.alias != "" {
				s += " AS " + b.Quoter.QuoteColumnName(c.alias)
			}
			cols[i] = s
		case string:
			switch {
			case c.alias != "" && c.alias != x:
				if !strings.Contains(x, "(") {
					x = b.Quoter.QuoteColumnName(x)
				}
				cols[i] = x + " AS " + b.Quoter.QuoteColumnName(c.alias)
			case strings.Contains(x, "("):
				cols[i] = x
			default:
				if m := aliasRe.FindStringSubmatch(x); m != nil {
					cols[i] = b.Quoter.QuoteColumnName(m[1]) + " AS " + b.Quoter.QuoteColumnName(m[2])
				} else {
					cols[i] = b.Quoter.QuoteColumnName(x)
				}
			}
		default:
			return "", sqlforge.NewInvalidArgumentError("", fmt.Sprintf("unexpected select column type %T", c.expr))
		}
	}
	return sel + " " + strings.Join(cols, ", "), nil
}

func (b *Builder) buildFrom(from []source, p *Params) (string, error) {
	if len(from) == 0 {
		return "", nil
	}
	tables := make([]string, len(from))
	for i, s := range from {
		switch {
		case s.query != nil:
			sub, err := b.Build(s.query, p)
			if err != nil {
				return "", err
			}
			tables[i] = "(" + sub + ") " + b.Quoter.QuoteTableName(s.alias)
		case strings.Contains(s.table, "("):
			tables[i] = s.table
		default:
			if m := tableAsRe.FindStringSubmatch(s.table); m != nil {
				tables[i] = b.Quoter.QuoteTableName(m[1]) + " " + b.Quoter.QuoteTableName(m[2])
			} else {
				tables[i] = b.Quoter.QuoteTableName(s.table)
			}
		}
	}
	return "FROM " + strings.Join(tables, ", "), nil
}

// BuildColumns quotes and joins column names. Names containing
// parentheses are expressions and pass through.
func (b *Builder) BuildColumns(columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if strings.Contains(c, "(") {
			out[i] = c
		} else {
			out[i] = b.Quoter.QuoteColumnName(c)
		}
	}
	return strings.Join(out, ", ")
}

// BuildOrderBy renders an ORDER BY clause, or empty.
func (b *Builder) BuildOrderBy(orderBy []Order, p *Params) (string, error) {
	if len(orderBy) == 0 {
		return "", nil
	}
	items := make([]string, len(orderBy))
	for i, o := range orderBy {
		if o.Expr != nil {
			s, err := b.BuildExpression(o.Expr, p)
			if err != nil {
				return "", err
			}
			items[i] = s
			continue
		}
		items[i] = b.Quoter.QuoteColumnName(o.Column)
		if o.Desc {
			items[i] += " DESC"
		}
	}
	return "ORDER BY " + strings.Join(items, ", "), nil
}

// BuildOrderByAndLimit appends ORDER BY and the dialect LIMIT fragment.
func BuildOrderByAndLimit(b *Builder, sql string, orderBy []Order, limit, offset any, p *Params) (string, error) {
	order, err := b.BuildOrderBy(orderBy, p)
	if err != nil {
		return "", err
	}
	if order != "" {
		sql += " " + order
	}
	if l := b.Limit(limit, offset); l != "" {
		sql += " " + l
	}
	return sql, nil
}

// BuildLimit renders "LIMIT n OFFSET o".
func BuildLimit(limit, offset any) string {
	var s string
	if HasLimit(limit) {
		s = "LIMIT " + LimitString(limit)
	}
	if HasOffset(offset) {
		s += " OFFSET " + LimitString(offset)
	}
	return strings.TrimLeft(s, " ")
}

// HasLimit reports whether v is a usable limit: an expression or a
// nonnegative integer constant.
func HasLimit(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case Expression:
		return true
	}
	return isDigits(LimitString(v))
}

// HasOffset is HasLimit that also treats a zero offset as absent.
func HasOffset(v any) bool {
	if _, ok := v.(Expression); ok {
		return true
	}
	return HasLimit(v) && LimitString(v) != "0"
}

// LimitString returns the SQL form of a limit or offset value.
func LimitString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case *RawExpr:
		return v.SQL
	}
	return fmt.Sprint(v)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PrepareInsertValues returns the quoted column names, the value
// placeholders and, for sub-query sources or empty rows, the trailing
// values clause of an INSERT.
func (b *Builder) PrepareInsertValues(ctx context.Context, table string, src InsertSource, p *Params) (names, placeholders []string, values string, err error) {
	values = " DEFAULT VALUES"
	switch src := src.(type) {
	case *Query:
		names, values, err = b.prepareInsertSelect(src, p)
		return names, nil, values, err
	case Columns:
		ts, err := b.TableSchema(ctx, table)
		if err != nil {
			return nil, nil, "", err
		}
		for _, c := range src {
			names = append(names, b.Quoter.QuoteColumnName(c.Name))
			ph, err := b.BindValue(b.Typecast(ts, c.Name, c.Value), p)
			if err != nil {
				return nil, nil, "", err
			}
			placeholders = append(placeholders, ph)
		}
	}
	return names, placeholders, values, nil
}

func (b *Builder) prepareInsertSelect(q *Query, p *Params) ([]string, string, error) {
	cols, ok := q.SelectNames()
	if !ok {
		return nil, "", sqlforge.NewInvalidArgumentError("", "expected select query object with enumerated (named) parameters")
	}
	sql, err := b.Build(q, p)
	if err != nil {
		return nil, "", err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = b.Quoter.QuoteColumnName(c)
	}
	return names, " " + sql, nil
}

// InsertSQL assembles an INSERT from prepared parts.
func (b *Builder) InsertSQL(table string, names, placeholders []string, values string) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.Quoter.QuoteTableName(table))
	if len(names) > 0 {
		sb.WriteString(" (" + strings.Join(names, ", ") + ")")
	}
	if len(placeholders) > 0 {
		sb.WriteString(" VALUES (" + strings.Join(placeholders, ", ") + ")")
	} else {
		sb.WriteString(values)
	}
	return sb.String()
}

// Insert renders an INSERT of one row or of a sub-query.
func (b *Builder) Insert(ctx context.Context, table string, src InsertSource, p *Params) (string, error) {
	names, placeholders, values, err := b.PrepareInsertValues(ctx, table, src, p)
	if err != nil {
		return "", err
	}
	return b.InsertSQL(table, names, placeholders, values), nil
}

// PrepareUpdateSets renders the "col=value" assignments of cols.
func (b *Builder) PrepareUpdateSets(ctx context.Context, table string, cols Columns, p *Params) ([]string, error) {
	ts, err := b.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		v, err := b.BindValue(b.Typecast(ts, c.Name, c.Value), p)
		if err != nil {
			return nil, err
		}
		sets[i] = b.Quoter.QuoteColumnName(c.Name) + "=" + v
	}
	return sets, nil
}

// Update renders an UPDATE statement.
func (b *Builder) Update(ctx context.Context, table string, cols Columns, where Expression, p *Params) (string, error) {
	sets, err := b.PrepareUpdateSets(ctx, table, cols, p)
	if err != nil {
		return "", err
	}
	sql := "UPDATE " + b.Quoter.QuoteTableName(table) + " SET " + strings.Join(sets, ", ")
	cond, err := b.BuildExpression(where, p)
	if err != nil {
		return "", err
	}
	if cond != "" {
		sql += " WHERE " + cond
	}
	return sql, nil
}

// Delete renders a DELETE statement.
func (b *Builder) Delete(table string, where Expression, p *Params) (string, error) {
	sql := "DELETE FROM " + b.Quoter.QuoteTableName(table)
	cond, err := b.BuildExpression(where, p)
	if err != nil {
		return "", err
	}
	if cond != "" {
		sql += " WHERE " + cond
	}
	return sql, nil
}

// UpsertColumns is the column analysis of an upsert.
type UpsertColumns struct {
	// Unique holds the columns of every unique constraint covered by the
	// inserted columns.
	Unique []string
	Insert []string
	// Update holds the inserted columns outside Unique. It is only set
	// for UpdateAll.
	Update []string
	// Constraints holds the covered constraints.
	Constraints []schema.Constraint
}

// PrepareUpsertColumns finds the primary key and unique constraints of
// table that are fully covered by the inserted columns.
func (b *Builder) PrepareUpsertColumns(ctx context.Context, table string, src InsertSource, up Update) (*UpsertColumns, error) {
	uc := &UpsertColumns{}
	switch src := src.(type) {
	case Columns:
		uc.Insert = src.Names()
	case *Query:
		names, ok := src.SelectNames()
		if !ok {
			return nil, sqlforge.NewInvalidArgumentError(table, "expected select query object with enumerated (named) parameters")
		}
		uc.Insert = names
	}
	ts, err := b.TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if ts != nil {
		for _, c := range ts.Constraints() {
			if !isSubset(c.Columns, uc.Insert) {
				continue
			}
			uc.Constraints = append(uc.Constraints, c)
			for _, col := range c.Columns {
				if !slices.Contains(uc.Unique, col) {
					uc.Unique = append(uc.Unique, col)
				}
			}
		}
	}
	if up.All() {
		uc.Update = []string{}
		for _, col := range uc.Insert {
			if !slices.Contains(uc.Unique, col) {
				uc.Update = append(uc.Update, col)
			}
		}
	}
	return uc, nil
}

// DoNothing reports whether an upsert has nothing to update on
// conflict.
func (uc *UpsertColumns) DoNothing(up Update) bool {
	return up.None() || (up.All() && len(uc.Update) == 0)
}

// PrepareUpsertSets renders the conflict assignments of an upsert.
// UpdateAll assigns every update column the value returned by inserted
// for its quoted name; an explicit empty map assigns the first unique
// column to itself.
func (b *Builder) PrepareUpsertSets(ctx context.Context, table string, uc *UpsertColumns, up Update, inserted func(quoted string) string, p *Params) ([]string, error) {
	var cols Columns
	switch {
	case up.All():
		for _, name := range uc.Update {
			cols = append(cols, Col(name, Expr(inserted(b.Quoter.QuoteColumnName(name)))))
		}
	case len(up.Columns()) == 0:
		name := uc.Unique[0]
		cols = Columns{Col(name, Expr(b.Quoter.QuoteTableName(table)+"."+b.Quoter.QuoteColumnName(name)))}
	default:
		cols = up.Columns()
	}
	return b.PrepareUpdateSets(ctx, table, cols, p)
}

// InsertReturning renders an INSERT followed by "RETURNING pk...".
// Tables without a known primary key get the plain insert.
func (b *Builder) InsertReturning(ctx context.Context, table string, src InsertSource, p *Params) (string, error) {
	insert, err := b.Insert(ctx, table, src, p)
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
	return insert + " RETURNING " + b.BuildColumns(ts.PrimaryKey), nil
}

func isSubset(sub, set []string) bool {
	if len(sub) == 0 {
		return false
	}
	for _, s := range sub {
		if !slices.Contains(set, s) {
			return false
		}
	}
	return true
}

// AsSlice converts slices and arrays other than []byte to []any.
func AsSlice(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
