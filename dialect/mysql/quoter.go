package mysql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlforge/dialect/sql"
)

// NewQuoter returns the backtick quoter of MySQL and MariaDB.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{Start: "`", End: "`", Escape: QuoteString}
}

// QuoteString renders s as a MySQL string literal. Besides the usual
// backslash escapes, every remaining control or non-ASCII byte is
// written as \x followed by its hex code.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\'':
			sb.WriteString(`\'`)
		case '"':
			sb.WriteString(`\"`)
		case 0x1a:
			sb.WriteString(`\Z`)
		default:
			if c < 0x20 || c >= 0x7f {
				sb.WriteString(`\x`)
				sb.WriteString(strconv.FormatUint(uint64(c), 16))
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
