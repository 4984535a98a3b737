package sql

type (
	// Column is a column name with the value to write or compare.
	Column struct {
		Name  string
		Value any
	}

	// Columns is an ordered list of column values. It is the row of an
	// INSERT and the assignment list of an UPDATE.
	Columns []Column
)

// Col returns a Column.
func Col(name string, v any) Column { return Column{Name: name, Value: v} }

// Names returns the column names in order.
func (cs Columns) Names() []string {
	names := make([]string, len(cs))
	for i := range cs {
		names[i] = cs[i].Name
	}
	return names
}

// Get returns the value of the named column.
func (cs Columns) Get(name string) (any, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// InsertSource is the row source of an INSERT: either Columns or a *Query.
type InsertSource interface {
	insertSource()
}

func (Columns) insertSource() {}
func (*Query) insertSource()  {}

type updateMode uint8

const (
	updateAll updateMode = iota
	updateNone
	updateWith
)

// Update describes the conflict branch of an upsert.
type Update struct {
	mode updateMode
	cols Columns
}

var (
	// UpdateAll updates every inserted column that is not part of the
	// matched unique constraint to its inserted value.
	UpdateAll = Update{mode: updateAll}
	// UpdateNone leaves the existing row untouched.
	UpdateNone = Update{mode: updateNone}
)

// UpdateWith updates the given columns to the given values or expressions.
// An empty list keeps the conflict branch as a no-op assignment.
func UpdateWith(cols Columns) Update {
	return Update{mode: updateWith, cols: cols}
}

// All reports whether u is UpdateAll.
func (u Update) All() bool { return u.mode == updateAll }

// None reports whether u is UpdateNone.
func (u Update) None() bool { return u.mode == updateNone }

// Columns returns the explicit assignments of an UpdateWith.
func (u Update) Columns() Columns { return u.cols }

// Order is an ORDER BY item. Expr, when set, is rendered instead of Column.
type Order struct {
	Column string
	Desc   bool
	Expr   Expression
}

// Asc returns an ascending order on column.
func Asc(column string) Order { return Order{Column: column} }

// Desc returns a descending order on column.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type (
	selection struct {
		expr  any // string, Expression
		alias string
	}
	source struct {
		table string
		query *Query
		alias string
	}
)

// Query describes a SELECT statement. It is rendered by a dialect
// builder, and used as sub-query, INSERT source and upsert source.
type Query struct {
	columns  []selection
	distinct bool
	from     []source
	where    Expression
	groupBy  []string
	having   Expression
	orderBy  []Order
	limit    any
	offset   any
	params   []NamedParam
}

// Select returns a query selecting the given columns. Columns may carry
// an alias as "col AS alias" or "col alias".
func Select(columns ...string) *Query {
	q := &Query{}
	return q.Columns(columns...)
}

// Columns appends columns to the select list.
func (q *Query) Columns(columns ...string) *Query {
	for _, c := range columns {
		q.columns = append(q.columns, selection{expr: c})
	}
	return q
}

// ColumnAs appends an aliased column, expression or sub-query to the select list.
func (q *Query) ColumnAs(x any, alias string) *Query {
	q.columns = append(q.columns, selection{expr: x, alias: alias})
	return q
}

// Distinct makes the query SELECT DISTINCT.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

// From appends tables to the FROM clause. Tables may carry an alias.
func (q *Query) From(tables ...string) *Query {
	for _, t := range tables {
		q.from = append(q.from, source{table: t})
	}
	return q
}

// FromQuery appends an aliased sub-query to the FROM clause.
func (q *Query) FromQuery(sub *Query, alias string) *Query {
	q.from = append(q.from, source{query: sub, alias: alias})
	return q
}

// Where sets the WHERE condition.
func (q *Query) Where(e Expression) *Query {
	q.where = e
	return q
}

// AndWhere adds a condition to the existing WHERE with AND.
func (q *Query) AndWhere(e Expression) *Query {
	if q.where == nil {
		q.where = e
	} else {
		q.where = And(q.where, e)
	}
	return q
}

// GroupBy appends GROUP BY columns.
func (q *Query) GroupBy(columns ...string) *Query {
	q.groupBy = append(q.groupBy, columns...)
	return q
}

// Having sets the HAVING condition.
func (q *Query) Having(e Expression) *Query {
	q.having = e
	return q
}

// OrderBy appends ORDER BY items.
func (q *Query) OrderBy(orders ...Order) *Query {
	q.orderBy = append(q.orderBy, orders...)
	return q
}

// Limit sets the row limit. n is an integer, a digit string or an Expression.
func (q *Query) Limit(n any) *Query {
	q.limit = n
	return q
}

// Offset sets the row offset. n is an integer, a digit string or an Expression.
func (q *Query) Offset(n any) *Query {
	q.offset = n
	return q
}

// Params adds named parameters referenced by raw fragments of the query.
func (q *Query) Params(params ...NamedParam) *Query {
	q.params = append(q.params, params...)
	return q
}

// Kind implements Expression. A query used as a value renders as a sub-query.
func (*Query) Kind() Kind { return KindQuery }

// HasWhere reports whether the query has a WHERE condition.
func (q *Query) HasWhere() bool { return q.where != nil }

// SelectNames returns the column names produced by the select list, or
// false when the list is empty or contains a wildcard.
func (q *Query) SelectNames() ([]string, bool) {
	if len(q.columns) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(q.columns))
	for _, c := range q.columns {
		if c.alias != "" {
			names = append(names, c.alias)
			continue
		}
		s, ok := c.expr.(string)
		if !ok || s == "*" {
			return nil, false
		}
		if m := aliasRe.FindStringSubmatch(s); m != nil {
			names = append(names, m[2])
		} else {
			names = append(names, s)
		}
	}
	return names, true
}
