package sql

// Field is a typed column name that builds condition expressions for
// values of type T.
//
//	var Status = sql.Field[int]("status")
//	q.Where(sql.And(Status.GT(0), Status.NotIn(3, 4)))
type Field[T any] string

// Name returns the column name.
func (f Field[T]) Name() string { return string(f) }

// EQ returns a condition that checks if the column equals v.
func (f Field[T]) EQ(v T) Expression { return EQ(string(f), v) }

// NEQ returns a condition that checks if the column does not equal v.
func (f Field[T]) NEQ(v T) Expression { return NEQ(string(f), v) }

// GT returns a condition that checks if the column is greater than v.
func (f Field[T]) GT(v T) Expression { return GT(string(f), v) }

// GTE returns a condition that checks if the column is greater than or equal to v.
func (f Field[T]) GTE(v T) Expression { return GTE(string(f), v) }

// LT returns a condition that checks if the column is less than v.
func (f Field[T]) LT(v T) Expression { return LT(string(f), v) }

// LTE returns a condition that checks if the column is less than or equal to v.
func (f Field[T]) LTE(v T) Expression { return LTE(string(f), v) }

// In returns a condition that checks if the column value is in vs.
func (f Field[T]) In(vs ...T) Expression { return In(string(f), anys(vs)...) }

// NotIn returns a condition that checks if the column value is not in vs.
func (f Field[T]) NotIn(vs ...T) Expression { return NotIn(string(f), anys(vs)...) }

// Between returns a condition that checks if the column is within [from, to].
func (f Field[T]) Between(from, to T) Expression { return Between(string(f), from, to) }

// IsNull returns a condition that checks if the column is NULL.
func (f Field[T]) IsNull() Expression { return IsNull(string(f)) }

// NotNull returns a condition that checks if the column is not NULL.
func (f Field[T]) NotNull() Expression { return NotNull(string(f)) }

// StringField adds pattern matching to a string Field.
type StringField string

// Field returns the plain typed field.
func (f StringField) Field() Field[string] { return Field[string](f) }

// EQ returns a condition that checks if the column equals v.
func (f StringField) EQ(v string) Expression { return EQ(string(f), v) }

// In returns a condition that checks if the column value is in vs.
func (f StringField) In(vs ...string) Expression { return In(string(f), anys(vs)...) }

// Contains returns a condition that checks if the column contains v.
// Wildcards in v are escaped.
func (f StringField) Contains(v string) Expression { return Like(string(f), v) }

// ContainsAny returns a condition that checks if the column contains any of vs.
func (f StringField) ContainsAny(vs ...string) Expression { return OrLike(string(f), anys(vs)...) }

// ContainsFold is Contains using ILIKE. Only PostgreSQL understands it.
func (f StringField) ContainsFold(v string) Expression { return ILike(string(f), v) }

// Match returns "column LIKE pattern" with the pattern bound as given.
func (f StringField) Match(pattern string) Expression {
	return &LikeExpr{Column: string(f), Op: "LIKE", Values: []any{pattern}, NoEscape: true}
}

// IsNull returns a condition that checks if the column is NULL.
func (f StringField) IsNull() Expression { return IsNull(string(f)) }

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}
