package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is the dialect-specific rendering of a ColumnBuilder. Templates
// are ordered lists of {slot} markers; each slot renders empty when its
// attribute is unset. Known slots: type, length, unsigned, autoincrement,
// notnull, default, unique, primarykey, comment, append, pos, check.
type Format struct {
	// Templates overrides Default per category.
	Templates map[Category]string
	Default   string
	// Quote renders a string literal for defaults and comments.
	Quote func(string) string
	// QuoteColumn quotes the column named by After.
	QuoteColumn func(string) string
	// Unsigned enables the UNSIGNED marker.
	Unsigned bool
	// Position enables AFTER and FIRST.
	Position bool
	// AutoIncrement renders the autoincrement slot.
	AutoIncrement func(c *ColumnBuilder) string
	// Comment renders the comment slot. Nil renders nothing.
	Comment func(c *ColumnBuilder) string
}

// Base is the format used by builders that were not given one.
var Base = &Format{
	Default: "{type}{length}{autoincrement}{notnull}{unique}{default}{primarykey}{check}{append}",
	Templates: map[Category]string{
		CategoryPK: "{type}{check}{append}",
	},
	AutoIncrement: func(c *ColumnBuilder) string {
		if start, inc, ok := c.Seed(); ok {
			return fmt.Sprintf(" GENERATED BY DEFAULT AS IDENTITY (START WITH %d INCREMENT BY %d)", start, inc)
		}
		return " GENERATED BY DEFAULT AS IDENTITY"
	},
}

// Template returns the template of category c.
func (f *Format) Template(c Category) string {
	if t, ok := f.Templates[c]; ok {
		return t
	}
	return f.Default
}

// ColumnBuilder accumulates the attributes of one column definition.
// Mutators return the receiver for chaining; String renders the abstract
// definition, which a dialect query builder resolves to physical types.
type ColumnBuilder struct {
	typ           string
	length        []any
	notNull       *bool
	unique        bool
	unsigned      bool
	autoIncrement bool
	primaryKey    bool
	seed          *[2]int
	def           any
	check         string
	comment       *string
	extra         string
	after         string
	first         bool
	format        *Format
}

// New returns a builder for the abstract or physical type typ. Length
// is a single size or a precision and scale pair.
func New(typ string, length ...any) *ColumnBuilder {
	return &ColumnBuilder{typ: typ, length: length}
}

// WithFormat sets the dialect format.
func (c *ColumnBuilder) WithFormat(f *Format) *ColumnBuilder {
	c.format = f
	return c
}

// NotNull adds NOT NULL.
func (c *ColumnBuilder) NotNull() *ColumnBuilder {
	v := true
	c.notNull = &v
	return c
}

// Null adds an explicit NULL.
func (c *ColumnBuilder) Null() *ColumnBuilder {
	v := false
	c.notNull = &v
	return c
}

// Unique adds UNIQUE.
func (c *ColumnBuilder) Unique() *ColumnBuilder {
	c.unique = true
	return c
}

// Check adds a CHECK constraint with the given condition.
func (c *ColumnBuilder) Check(cond string) *ColumnBuilder {
	c.check = cond
	return c
}

// Default sets the default value. Strings are quoted, a fmt.Stringer
// (such as a raw SQL expression) is rendered verbatim and nil removes
// the default.
func (c *ColumnBuilder) Default(v any) *ColumnBuilder {
	c.def = v
	return c
}

// DefaultExpression sets a raw SQL default.
func (c *ColumnBuilder) DefaultExpression(sql string) *ColumnBuilder {
	c.def = rawDefault(sql)
	return c
}

// Comment sets the column comment.
func (c *ColumnBuilder) Comment(s string) *ColumnBuilder {
	c.comment = &s
	return c
}

// Unsigned marks a numeric column UNSIGNED (MySQL).
func (c *ColumnBuilder) Unsigned() *ColumnBuilder {
	c.unsigned = true
	switch c.typ {
	case TypePK:
		c.typ = TypeUPK
	case TypeBigPK:
		c.typ = TypeUBigPK
	case TypeAuto:
		c.typ = TypeUAuto
	case TypeBigAuto:
		c.typ = TypeUBigAuto
	}
	return c
}

// After places the column after the named one (MySQL).
func (c *ColumnBuilder) After(column string) *ColumnBuilder {
	c.after = column
	return c
}

// First places the column first (MySQL).
func (c *ColumnBuilder) First() *ColumnBuilder {
	c.first = true
	return c
}

// Append adds raw SQL after the definition.
func (c *ColumnBuilder) Append(sql string) *ColumnBuilder {
	c.extra = sql
	return c
}

// AutoIncrement marks the column as server generated.
func (c *ColumnBuilder) AutoIncrement() *ColumnBuilder {
	c.autoIncrement = true
	return c
}

// Identity marks the column as server generated with the given seed.
// A zero increment is corrected to 1.
func (c *ColumnBuilder) Identity(start, increment int) *ColumnBuilder {
	if increment == 0 {
		increment = 1
	}
	c.autoIncrement = true
	c.seed = &[2]int{start, increment}
	return c
}

// PrimaryKey adds PRIMARY KEY.
func (c *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	c.primaryKey = true
	return c
}

// Type returns the type the builder was created with.
func (c *ColumnBuilder) Type() string { return c.typ }

// Category returns the category of the builder type.
func (c *ColumnBuilder) Category() Category { return CategoryOf(c.typ) }

// Seed returns the identity seed set by Identity.
func (c *ColumnBuilder) Seed() (start, increment int, ok bool) {
	if c.seed == nil {
		return 0, 0, false
	}
	return c.seed[0], c.seed[1], true
}

// CommentText returns the comment, if any.
func (c *ColumnBuilder) CommentText() (string, bool) {
	if c.comment == nil {
		return "", false
	}
	return *c.comment, true
}

// String renders the definition with the builder format.
func (c *ColumnBuilder) String() string {
	f := c.format
	if f == nil {
		f = Base
	}
	slots := []string{
		"{type}", c.typ,
		"{length}", c.lengthString(),
		"{unsigned}", c.unsignedString(f),
		"{autoincrement}", c.autoIncrementString(f),
		"{notnull}", c.notNullString(),
		"{default}", c.defaultString(f),
		"{unique}", c.flag(c.unique, " UNIQUE"),
		"{primarykey}", c.flag(c.primaryKey, " PRIMARY KEY"),
		"{comment}", c.commentString(f),
		"{append}", c.flag(c.extra != "", " "+c.extra),
		"{pos}", c.positionString(f),
		"{check}", c.flag(c.check != "", " CHECK ("+c.check+")"),
	}
	return strings.NewReplacer(slots...).Replace(f.Template(c.Category()))
}

func (c *ColumnBuilder) flag(set bool, s string) string {
	if set {
		return s
	}
	return ""
}

func (c *ColumnBuilder) lengthString() string {
	parts := c.length
	if len(parts) == 0 && c.Category() == CategoryAuto && c.seed != nil {
		parts = []any{c.seed[0], c.seed[1]}
	}
	if len(parts) == 0 {
		return ""
	}
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return "(" + strings.Join(s, ",") + ")"
}

func (c *ColumnBuilder) unsignedString(f *Format) string {
	return c.flag(c.unsigned && f.Unsigned, " UNSIGNED")
}

func (c *ColumnBuilder) autoIncrementString(f *Format) string {
	if !c.autoIncrement || f.AutoIncrement == nil {
		return ""
	}
	return f.AutoIncrement(c)
}

func (c *ColumnBuilder) notNullString() string {
	switch {
	case c.notNull == nil:
		return ""
	case *c.notNull:
		return " NOT NULL"
	default:
		return " NULL"
	}
}

func (c *ColumnBuilder) defaultString(f *Format) string {
	if c.def == nil {
		if c.notNull != nil && !*c.notNull {
			return " DEFAULT NULL"
		}
		return ""
	}
	var s string
	switch v := c.def.(type) {
	case fmt.Stringer:
		s = v.String()
	case bool:
		s = "FALSE"
		if v {
			s = "TRUE"
		}
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		s = quote(f, v)
	default:
		s = fmt.Sprint(v)
	}
	return " DEFAULT " + s
}

func (c *ColumnBuilder) commentString(f *Format) string {
	if c.comment == nil || f.Comment == nil {
		return ""
	}
	return f.Comment(c)
}

func (c *ColumnBuilder) positionString(f *Format) string {
	if !f.Position {
		return ""
	}
	var s string
	if c.after != "" {
		col := c.after
		if f.QuoteColumn != nil {
			col = f.QuoteColumn(col)
		}
		s = " AFTER " + col
	}
	if c.first {
		s += " FIRST"
	}
	return s
}

// QuoteString renders s as a literal with the format quoting.
func (f *Format) QuoteString(s string) string { return quote(f, s) }

func quote(f *Format, s string) string {
	if f.Quote != nil {
		return f.Quote(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type rawDefault string

func (r rawDefault) String() string { return string(r) }
