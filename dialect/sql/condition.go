package sql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/syssam/sqlforge"
)

var defaultBuilders = map[Kind]BuildFunc{
	KindRaw:     buildRaw,
	KindJSON:    BuildJSON,
	KindArray:   buildArrayUnsupported,
	KindHash:    buildHash,
	KindAnd:     buildConjunction,
	KindOr:      buildConjunction,
	KindNot:     buildNot,
	KindCompare: buildCompare,
	KindIn:      BuildIn,
	KindLike:    buildLike,
	KindBetween: buildBetween,
	KindExists:  buildExists,
	KindQuery:   buildQuery,
}

func buildRaw(_ *Builder, e Expression, p *Params) (string, error) {
	x := e.(*RawExpr)
	p.Merge(x.Params...)
	return x.SQL, nil
}

func buildQuery(b *Builder, e Expression, p *Params) (string, error) {
	sql, err := b.Build(e.(*Query), p)
	if err != nil {
		return "", err
	}
	return "(" + sql + ")", nil
}

// EncodeJSON encodes v the way JSON parameters are bound.
func EncodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("dialect/sql: encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// BuildJSON binds the encoded value as text. Sub-queries render inline.
func BuildJSON(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*JSONExpr)
	if q, ok := x.Value.(*Query); ok {
		return buildQuery(b, q, p)
	}
	s, err := EncodeJSON(x.Value)
	if err != nil {
		return "", err
	}
	return p.Add(s), nil
}

func buildArrayUnsupported(b *Builder, _ Expression, _ *Params) (string, error) {
	return "", sqlforge.NewNotSupportedError(b.Dialect, "array expression")
}

func (b *Builder) quoteColumn(c string) string {
	if strings.Contains(c, "(") {
		return c
	}
	return b.Quoter.QuoteColumnName(c)
}

func buildHash(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*HashExpr)
	parts := make([]string, 0, len(x.Columns))
	for _, c := range x.Columns {
		var (
			part string
			err  error
		)
		if vs, ok := AsSlice(c.Value); ok {
			part, err = BuildIn(b, &InExpr{Columns: []string{c.Name}, Values: vs}, p)
		} else if q, ok := c.Value.(*Query); ok {
			part, err = BuildIn(b, &InExpr{Columns: []string{c.Name}, Values: q}, p)
		} else if c.Value == nil {
			part = b.quoteColumn(c.Name) + " IS NULL"
		} else {
			var v string
			v, err = b.BindValue(c.Value, p)
			part = b.quoteColumn(c.Name) + "=" + v
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}
	return "(" + strings.Join(parts, ") AND (") + ")", nil
}

func buildConjunction(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*Conjunction)
	op := "AND"
	if x.Kind() == KindOr {
		op = "OR"
	}
	parts := make([]string, 0, len(x.Parts))
	for _, part := range x.Parts {
		s, err := b.BuildExpression(part, p)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}
	return "(" + strings.Join(parts, ") "+op+" (") + ")", nil
}

func buildNot(b *Builder, e Expression, p *Params) (string, error) {
	s, err := b.BuildExpression(e.(*NotExpr).X, p)
	if err != nil || s == "" {
		return "", err
	}
	return "NOT (" + s + ")", nil
}

func buildCompare(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*CompareExpr)
	col := b.quoteColumn(x.Column)
	if x.Value == nil {
		return col + " " + x.Op + " NULL", nil
	}
	v, err := b.BindValue(x.Value, p)
	if err != nil {
		return "", err
	}
	return col + " " + x.Op + " " + v, nil
}

func buildBetween(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*BetweenExpr)
	op := "BETWEEN"
	if x.Not {
		op = "NOT BETWEEN"
	}
	from, err := b.BindValue(x.From, p)
	if err != nil {
		return "", err
	}
	to, err := b.BindValue(x.To, p)
	if err != nil {
		return "", err
	}
	return b.quoteColumn(x.Column) + " " + op + " " + from + " AND " + to, nil
}

func buildExists(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*ExistsExpr)
	sql, err := b.Build(x.Query, p)
	if err != nil {
		return "", err
	}
	if x.Not {
		return "NOT EXISTS (" + sql + ")", nil
	}
	return "EXISTS (" + sql + ")", nil
}

// InOperator returns "IN" or "NOT IN".
func (x *InExpr) InOperator() string {
	if x.Not {
		return "NOT IN"
	}
	return "IN"
}

// BuildIn renders IN and NOT IN conditions. An empty value list renders
// "0=1" for IN and nothing for NOT IN; a single value renders "=" or
// "<>"; nil members add an IS NULL branch.
func BuildIn(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*InExpr)
	op := x.InOperator()
	if len(x.Columns) == 0 {
		return emptyIn(x), nil
	}
	if q, ok := x.Values.(*Query); ok {
		sql, err := b.Build(q, p)
		if err != nil {
			return "", err
		}
		if len(x.Columns) > 1 {
			return "(" + b.BuildColumns(x.Columns) + ") " + op + " (" + sql + ")", nil
		}
		return b.quoteColumn(x.Columns[0]) + " " + op + " (" + sql + ")", nil
	}
	values, ok := AsSlice(x.Values)
	if !ok {
		values = []any{x.Values}
	}
	if len(x.Columns) > 1 {
		return buildCompositeIn(b, x, values, p)
	}
	col := b.quoteColumn(x.Columns[0])
	var (
		sqlValues []string
		hasNull   bool
	)
	for _, v := range values {
		if v == nil {
			hasNull = true
			continue
		}
		s, err := b.BindValue(v, p)
		if err != nil {
			return "", err
		}
		sqlValues = append(sqlValues, s)
	}
	nullCond, nullOp := col+" IS NULL", "OR"
	if x.Not {
		nullCond, nullOp = col+" IS NOT NULL", "AND"
	}
	if len(sqlValues) == 0 {
		if hasNull {
			return nullCond, nil
		}
		return emptyIn(x), nil
	}
	var sql string
	if len(sqlValues) > 1 {
		sql = col + " " + op + " (" + strings.Join(sqlValues, ", ") + ")"
	} else if x.Not {
		sql = col + "<>" + sqlValues[0]
	} else {
		sql = col + "=" + sqlValues[0]
	}
	if hasNull {
		return sql + " " + nullOp + " " + nullCond, nil
	}
	return sql, nil
}

func emptyIn(x *InExpr) string {
	if x.Not {
		return ""
	}
	return "0=1"
}

func buildCompositeIn(b *Builder, x *InExpr, rows []any, p *Params) (string, error) {
	var vss []string
	for _, row := range rows {
		vals, ok := AsSlice(row)
		if !ok {
			return "", sqlforge.NewInvalidArgumentError("", fmt.Sprintf("composite IN expects rows of values, got %T", row))
		}
		vs := make([]string, len(x.Columns))
		for i := range x.Columns {
			if i >= len(vals) || vals[i] == nil {
				vs[i] = "NULL"
				continue
			}
			s, err := b.BindValue(vals[i], p)
			if err != nil {
				return "", err
			}
			vs[i] = s
		}
		vss = append(vss, "("+strings.Join(vs, ", ")+")")
	}
	if len(vss) == 0 {
		return emptyIn(x), nil
	}
	return "(" + b.BuildColumns(x.Columns) + ") " + x.InOperator() + " (" + strings.Join(vss, ", ") + ")", nil
}

var likeOpRe = regexp.MustCompile(`^(AND |OR |)(((NOT |))I?LIKE)`)

func buildLike(b *Builder, e Expression, p *Params) (string, error) {
	x := e.(*LikeExpr)
	m := likeOpRe.FindStringSubmatch(strings.ToUpper(x.Op))
	if m == nil {
		return "", sqlforge.NewInvalidArgumentError("", fmt.Sprintf("invalid operator %q", x.Op))
	}
	andor := " AND "
	if m[1] != "" {
		andor = " " + m[1]
	}
	not, op := m[3] != "", m[2]
	if len(x.Values) == 0 {
		if not {
			return "", nil
		}
		return "0=1", nil
	}
	escape := x.Escape
	if escape == nil {
		escape = b.LikeEscape
	}
	var replacer *strings.Replacer
	if !x.NoEscape && len(escape) > 0 {
		pairs := make([]string, 0, 2*len(escape))
		for k, v := range escape {
			pairs = append(pairs, k, v)
		}
		replacer = strings.NewReplacer(pairs...)
	}
	col := b.quoteColumn(x.Column)
	parts := make([]string, len(x.Values))
	for i, v := range x.Values {
		var (
			ph  string
			err error
		)
		switch v := v.(type) {
		case Expression:
			ph, err = b.BuildExpression(v, p)
		default:
			s := fmt.Sprint(v)
			if replacer != nil {
				s = "%" + replacer.Replace(s) + "%"
			}
			ph = p.Add(s)
		}
		if err != nil {
			return "", err
		}
		parts[i] = col + " " + op + " " + ph + b.LikeEscapeSQL
	}
	return strings.Join(parts, andor), nil
}
