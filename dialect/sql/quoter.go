package sql

import "strings"

// Quoter quotes identifiers and string literals for one dialect.
// Quoting never fails: malformed input is quoted as literally as possible.
type Quoter struct {
	// Start and End are the identifier delimiters.
	Start, End string
	// Escape renders a string literal including its surrounding quotes.
	// A nil Escape doubles single quotes.
	Escape func(string) string
}

// TableName is a table reference split into its parts.
type TableName struct {
	Server  string
	Catalog string
	Schema  string
	Name    string
}

// QuoteSimpleTableName quotes an unqualified table name. Names that
// already contain the start delimiter are returned unchanged.
func (q *Quoter) QuoteSimpleTableName(name string) string {
	if strings.Contains(name, q.Start) {
		return name
	}
	return q.Start + name + q.End
}

// QuoteSimpleColumnName quotes an unqualified column name. The
// wildcard and names that already contain the start delimiter are
// returned unchanged.
func (q *Quoter) QuoteSimpleColumnName(name string) string {
	if name == "*" || strings.Contains(name, q.Start) {
		return name
	}
	return q.Start + name + q.End
}

// UnquoteSimpleTableName strips the delimiters of a quoted table name.
func (q *Quoter) UnquoteSimpleTableName(name string) string {
	return q.unquote(name)
}

// UnquoteSimpleColumnName strips the delimiters of a quoted column name.
func (q *Quoter) UnquoteSimpleColumnName(name string) string {
	return q.unquote(name)
}

func (q *Quoter) unquote(name string) string {
	if !strings.HasPrefix(name, q.Start) || len(name) < len(q.Start)+len(q.End) {
		return name
	}
	return strings.TrimSuffix(name[len(q.Start):], q.End)
}

// QuoteTableName quotes a possibly qualified table name part by part.
// Sub-queries in parentheses and {{ }} placeholders pass through.
func (q *Quoter) QuoteTableName(name string) string {
	if strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		return name
	}
	if strings.Contains(name, "{{") {
		return name
	}
	if !strings.Contains(name, ".") {
		return q.QuoteSimpleTableName(name)
	}
	parts := q.split(name)
	for i, p := range parts {
		parts[i] = q.QuoteSimpleTableName(p)
	}
	return strings.Join(parts, ".")
}

// QuoteColumnName quotes a possibly table-prefixed column name.
// Names containing "(", "[[" or "{{" are treated as expressions and
// pass through.
func (q *Quoter) QuoteColumnName(name string) string {
	if strings.Contains(name, "(") || strings.Contains(name, "[[") {
		return name
	}
	var prefix string
	if i := strings.LastIndex(name, "."); i >= 0 && !q.inDelimiters(name, i) {
		prefix = q.QuoteTableName(name[:i]) + "."
		name = name[i+1:]
	}
	if strings.Contains(name, "{{") {
		return prefix + name
	}
	return prefix + q.QuoteSimpleColumnName(name)
}

// QuoteString renders s as a string literal.
func (q *Quoter) QuoteString(s string) string {
	if q.Escape != nil {
		return q.Escape(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteValue quotes string values as literals. Other values are
// returned unchanged so that drivers can bind them natively.
func (q *Quoter) QuoteValue(v any) any {
	if s, ok := v.(string); ok {
		return q.QuoteString(s)
	}
	return v
}

// SplitTableName splits a qualified table name into its unquoted parts,
// filling Name, Schema, Catalog and Server from the right.
func (q *Quoter) SplitTableName(name string) TableName {
	parts := q.split(name)
	for i := range parts {
		parts[i] = q.unquote(parts[i])
	}
	var t TableName
	fields := []*string{&t.Name, &t.Schema, &t.Catalog, &t.Server}
	for i, j := len(parts)-1, 0; i >= 0 && j < len(fields); i, j = i-1, j+1 {
		*fields[j] = parts[i]
	}
	return t
}

// split splits name on dots that are not inside delimiters.
func (q *Quoter) split(name string) []string {
	var (
		parts []string
		cur   strings.Builder
		in    bool
	)
	for i := 0; i < len(name); i++ {
		switch {
		case !in && strings.HasPrefix(name[i:], q.Start):
			in = true
		case in && strings.HasPrefix(name[i:], q.End):
			in = false
		case !in && name[i] == '.':
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(name[i])
	}
	return append(parts, cur.String())
}

func (q *Quoter) inDelimiters(name string, pos int) bool {
	in := false
	for i := 0; i < pos; i++ {
		switch {
		case !in && strings.HasPrefix(name[i:], q.Start):
			in = true
		case in && strings.HasPrefix(name[i:], q.End):
			in = false
		}
	}
	return in
}
