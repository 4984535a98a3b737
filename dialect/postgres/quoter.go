package postgres

import (
	"strings"

	"github.com/lib/pq"

	"github.com/syssam/sqlforge/dialect/sql"
)

// NewQuoter returns the double quote quoter of PostgreSQL.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{Start: `"`, End: `"`, Escape: QuoteString}
}

// QuoteString renders s as a string literal. Literals containing
// backslashes use the E'' form.
func QuoteString(s string) string {
	return strings.TrimLeft(pq.QuoteLiteral(s), " ")
}
