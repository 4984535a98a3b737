package sql

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
)

var placeholderRe = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`)

// Binder turns SQL with named :qpN placeholders into the placeholder
// style of a driver together with the argument list.
type Binder struct {
	// Format rewrites positional "?" placeholders, e.g. squirrel.Dollar.
	// A nil Format keeps "?".
	Format squirrel.PlaceholderFormat
	// Named keeps the named placeholders and passes sql.NamedArg values.
	Named bool
	// Convert adapts values for the driver before binding.
	Convert func(any) any
}

// Bind returns the driver query and its arguments. Tokens that do not
// name a bound parameter are left alone.
func (bd Binder) Bind(query string, p *Params) (string, []any, error) {
	if p == nil || p.Len() == 0 {
		return query, []any{}, nil
	}
	if bd.Named {
		args := make([]any, 0, p.Len())
		for _, name := range p.names {
			args = append(args, sql.Named(name[1:], bd.convert(p.values[name])))
		}
		return query, args, nil
	}
	// Numbered formats read "??" as a literal "?".
	numbered := bd.Format != nil && bd.Format != squirrel.Question
	if numbered {
		query = strings.ReplaceAll(query, "?", "??")
	}
	args := make([]any, 0, p.Len())
	out := placeholderRe.ReplaceAllStringFunc(query, func(tok string) string {
		v, ok := p.values[tok]
		if !ok {
			return tok
		}
		args = append(args, bd.convert(v))
		return "?"
	})
	if !numbered {
		return out, args, nil
	}
	out, err := bd.Format.ReplacePlaceholders(out)
	if err != nil {
		return "", nil, fmt.Errorf("dialect/sql: bind: %w", err)
	}
	return out, args, nil
}

func (bd Binder) convert(v any) any {
	if bd.Convert == nil {
		return v
	}
	return bd.Convert(v)
}

// Placeholder binders of the supported drivers.
var (
	QuestionBinder = Binder{Format: squirrel.Question}
	DollarBinder   = Binder{Format: squirrel.Dollar}
	AtPBinder      = Binder{Format: squirrel.AtP}
	NamedBinder    = Binder{Named: true}
)
