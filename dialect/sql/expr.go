package sql

// Kind identifies the variant of an Expression.
type Kind uint8

// Expression kinds understood by the Builder.
const (
	KindRaw Kind = iota + 1
	KindJSON
	KindArray
	KindHash
	KindAnd
	KindOr
	KindNot
	KindCompare
	KindIn
	KindLike
	KindBetween
	KindExists
	KindQuery
)

var kindNames = [...]string{
	KindRaw:     "raw",
	KindJSON:    "json",
	KindArray:   "array",
	KindHash:    "hash",
	KindAnd:     "and",
	KindOr:      "or",
	KindNot:     "not",
	KindCompare: "compare",
	KindIn:      "in",
	KindLike:    "like",
	KindBetween: "between",
	KindExists:  "exists",
	KindQuery:   "query",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Expression is a node of a condition or value tree. The set of
// variants is closed; rendering is selected by Kind.
type Expression interface {
	Kind() Kind
}

type (
	// RawExpr is SQL text inserted verbatim, with the parameters it references.
	RawExpr struct {
		SQL    string
		Params []NamedParam
	}

	// JSONExpr binds Value as encoded JSON. Type is an optional
	// dialect cast such as "jsonb".
	JSONExpr struct {
		Value any
		Type  string
	}

	// ArrayExpr is a typed array literal. Value is a slice, or a *Query
	// producing the elements.
	ArrayExpr struct {
		Value     any
		Type      string
		Dimension int
	}

	// HashExpr is an ordered list of column=value conditions joined by AND.
	HashExpr struct {
		Columns Columns
	}

	// Conjunction joins its parts with AND or OR.
	Conjunction struct {
		Op    Kind
		Parts []Expression
	}

	// NotExpr negates an expression.
	NotExpr struct {
		X Expression
	}

	// CompareExpr is a binary "column op value" condition.
	CompareExpr struct {
		Column string
		Op     string
		Value  any
	}

	// InExpr is an IN or NOT IN condition. With one column Values holds
	// plain values; with several columns each value is a []any row
	// aligned with Columns. Values may also be a *Query.
	InExpr struct {
		Columns []string
		Values  any
		Not     bool
	}

	// LikeExpr is a LIKE family condition. Op is one of LIKE, NOT LIKE,
	// OR LIKE, OR NOT LIKE, ILIKE (and their NOT/OR forms). A nil Escape
	// uses the dialect replacements; NoEscape binds values unwrapped.
	LikeExpr struct {
		Column   string
		Op       string
		Values   []any
		Escape   map[string]string
		NoEscape bool
	}

	// BetweenExpr is a BETWEEN or NOT BETWEEN condition.
	BetweenExpr struct {
		Column   string
		Not      bool
		From, To any
	}

	// ExistsExpr is an EXISTS or NOT EXISTS sub-query condition.
	ExistsExpr struct {
		Query *Query
		Not   bool
	}
)

func (*RawExpr) Kind() Kind     { return KindRaw }
func (*JSONExpr) Kind() Kind    { return KindJSON }
func (*ArrayExpr) Kind() Kind   { return KindArray }
func (*HashExpr) Kind() Kind    { return KindHash }
func (*NotExpr) Kind() Kind     { return KindNot }
func (*CompareExpr) Kind() Kind { return KindCompare }
func (*InExpr) Kind() Kind      { return KindIn }
func (*LikeExpr) Kind() Kind    { return KindLike }
func (*BetweenExpr) Kind() Kind { return KindBetween }
func (*ExistsExpr) Kind() Kind  { return KindExists }

// Kind returns KindAnd or KindOr.
func (c *Conjunction) Kind() Kind {
	if c.Op == KindOr {
		return KindOr
	}
	return KindAnd
}

// String returns the raw SQL text. It lets column builders render raw
// default values.
func (e *RawExpr) String() string { return e.SQL }

// Expr returns a raw SQL expression with optional named parameters.
func Expr(sql string, params ...NamedParam) *RawExpr {
	return &RawExpr{SQL: sql, Params: params}
}

// JSON returns a JSON expression for v.
func JSON(v any) *JSONExpr { return &JSONExpr{Value: v} }

// JSONAs returns a JSON expression cast to the given type where the dialect supports casts.
func JSONAs(v any, typ string) *JSONExpr { return &JSONExpr{Value: v, Type: typ} }

// Array returns a one-dimensional array expression of the given element type.
func Array(v any, typ string) *ArrayExpr { return &ArrayExpr{Value: v, Type: typ, Dimension: 1} }

// Hash returns an AND of column=value conditions. A nil value renders
// IS NULL, a slice or *Query renders IN.
func Hash(cols ...Column) *HashExpr { return &HashExpr{Columns: cols} }

// And joins the given expressions with AND.
func And(parts ...Expression) *Conjunction { return &Conjunction{Op: KindAnd, Parts: parts} }

// Or joins the given expressions with OR.
func Or(parts ...Expression) *Conjunction { return &Conjunction{Op: KindOr, Parts: parts} }

// Not negates x.
func Not(x Expression) *NotExpr { return &NotExpr{X: x} }

// Compare returns "column op value".
func Compare(column, op string, v any) *CompareExpr {
	return &CompareExpr{Column: column, Op: op, Value: v}
}

// EQ returns "column = value".
func EQ(column string, v any) *CompareExpr { return Compare(column, "=", v) }

// NEQ returns "column <> value".
func NEQ(column string, v any) *CompareExpr { return Compare(column, "<>", v) }

// GT returns "column > value".
func GT(column string, v any) *CompareExpr { return Compare(column, ">", v) }

// GTE returns "column >= value".
func GTE(column string, v any) *CompareExpr { return Compare(column, ">=", v) }

// LT returns "column < value".
func LT(column string, v any) *CompareExpr { return Compare(column, "<", v) }

// LTE returns "column <= value".
func LTE(column string, v any) *CompareExpr { return Compare(column, "<=", v) }

// IsNull returns "column IS NULL".
func IsNull(column string) *CompareExpr { return Compare(column, "IS", nil) }

// NotNull returns "column IS NOT NULL".
func NotNull(column string) *CompareExpr { return Compare(column, "IS NOT", nil) }

// In returns "column IN (values)".
func In(column string, vs ...any) *InExpr {
	return &InExpr{Columns: []string{column}, Values: vs}
}

// NotIn returns "column NOT IN (values)".
func NotIn(column string, vs ...any) *InExpr {
	return &InExpr{Columns: []string{column}, Values: vs, Not: true}
}

// InQuery returns "column IN (sub-query)".
func InQuery(column string, q *Query) *InExpr {
	return &InExpr{Columns: []string{column}, Values: q}
}

// InTuple returns a composite IN condition. Each row is aligned with columns.
func InTuple(columns []string, rows ...[]any) *InExpr {
	vs := make([]any, len(rows))
	for i := range rows {
		vs[i] = rows[i]
	}
	return &InExpr{Columns: columns, Values: vs}
}

// Like returns "column LIKE %value%" for each value, joined with AND.
func Like(column string, vs ...any) *LikeExpr {
	return &LikeExpr{Column: column, Op: "LIKE", Values: vs}
}

// NotLike returns "column NOT LIKE %value%" for each value, joined with AND.
func NotLike(column string, vs ...any) *LikeExpr {
	return &LikeExpr{Column: column, Op: "NOT LIKE", Values: vs}
}

// OrLike returns "column LIKE %value%" for each value, joined with OR.
func OrLike(column string, vs ...any) *LikeExpr {
	return &LikeExpr{Column: column, Op: "OR LIKE", Values: vs}
}

// OrNotLike returns "column NOT LIKE %value%" for each value, joined with OR.
func OrNotLike(column string, vs ...any) *LikeExpr {
	return &LikeExpr{Column: column, Op: "OR NOT LIKE", Values: vs}
}

// ILike returns the case-insensitive LIKE used by PostgreSQL.
func ILike(column string, vs ...any) *LikeExpr {
	return &LikeExpr{Column: column, Op: "ILIKE", Values: vs}
}

// Between returns "column BETWEEN from AND to".
func Between(column string, from, to any) *BetweenExpr {
	return &BetweenExpr{Column: column, From: from, To: to}
}

// NotBetween returns "column NOT BETWEEN from AND to".
func NotBetween(column string, from, to any) *BetweenExpr {
	return &BetweenExpr{Column: column, From: from, To: to, Not: true}
}

// Exists returns "EXISTS (sub-query)".
func Exists(q *Query) *ExistsExpr { return &ExistsExpr{Query: q} }

// NotExists returns "NOT EXISTS (sub-query)".
func NotExists(q *Query) *ExistsExpr { return &ExistsExpr{Query: q, Not: true} }
