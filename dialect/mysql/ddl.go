package mysql

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

var (
	columnLineRe = regexp.MustCompile("(?m)^\\s*[`\"](.*?)[`\"]\\s+(.*?),?$")
	commentRe    = regexp.MustCompile(`(?i)COMMENT '(?:''|[^'])*'`)
	checkRe      = regexp.MustCompile(`CHECK *\(`)
)

// CreateTable renders a CREATE TABLE statement. MySQL has no per-column
// identity seed: the start of a column built with Identity becomes the
// AUTO_INCREMENT table option unless options already set one. The
// increment is a server setting and is not rendered.
func (qb *QueryBuilder) CreateTable(ctx context.Context, table string, cols []sql.ColumnDef, options string) (string, error) {
	for _, c := range cols {
		cb, ok := c.Type.(*schema.ColumnBuilder)
		if !ok {
			continue
		}
		if start, _, ok := cb.Seed(); ok {
			if !strings.Contains(strings.ToUpper(options), "AUTO_INCREMENT") {
				options = strings.TrimSpace(options + " AUTO_INCREMENT=" + strconv.Itoa(start))
			}
			break
		}
	}
	return qb.B.CreateTable(ctx, table, cols, options), nil
}

// RenameColumn renders "ALTER TABLE t CHANGE old new <definition>",
// carrying over the definition read from SHOW CREATE TABLE. When the
// table lists columns but not old, the definition is left out.
func (qb *QueryBuilder) RenameColumn(ctx context.Context, table, oldName, newName string) (string, error) {
	q := qb.B.Quoter
	stmt := "ALTER TABLE " + q.QuoteTableName(table) + " CHANGE " + q.QuoteColumnName(oldName) + " " + q.QuoteColumnName(newName)
	defs, err := qb.columnDefinitions(ctx, table)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return "", sqlforge.NewColumnNotFoundError(table, oldName)
	}
	for _, d := range defs {
		if d[0] == oldName {
			return stmt + " " + d[1], nil
		}
	}
	return stmt, nil
}

// AddCommentOnColumn rewrites the column definition with a new COMMENT.
// A CHECK constraint in the definition is moved after the comment.
func (qb *QueryBuilder) AddCommentOnColumn(ctx context.Context, table, column, comment string) (string, error) {
	def, err := qb.columnDefinition(ctx, table, column)
	if err != nil {
		return "", err
	}
	def = strings.TrimSpace(commentRe.ReplaceAllString(def, ""))
	def, check := cutCheck(def)
	q := qb.B.Quoter
	c := q.QuoteColumnName(column)
	stmt := "ALTER TABLE " + q.QuoteTableName(table) + " CHANGE " + c + " " + c
	if def != "" {
		stmt += " " + def
	}
	stmt += " COMMENT " + q.QuoteString(comment)
	if check != "" {
		stmt += " " + check
	}
	return stmt, nil
}

// AddCommentOnTable renders "ALTER TABLE t COMMENT 'comment'".
func (qb *QueryBuilder) AddCommentOnTable(_ context.Context, table, comment string) (string, error) {
	return "ALTER TABLE " + qb.B.Quoter.QuoteTableName(table) + " COMMENT " + qb.B.Quoter.QuoteString(comment), nil
}

// DropCommentFromColumn sets an empty column comment.
func (qb *QueryBuilder) DropCommentFromColumn(ctx context.Context, table, column string) (string, error) {
	return qb.AddCommentOnColumn(ctx, table, column, "")
}

// DropCommentFromTable sets an empty table comment.
func (qb *QueryBuilder) DropCommentFromTable(ctx context.Context, table string) (string, error) {
	return qb.AddCommentOnTable(ctx, table, "")
}

func (qb *QueryBuilder) columnDefinition(ctx context.Context, table, column string) (string, error) {
	defs, err := qb.columnDefinitions(ctx, table)
	if err != nil {
		return "", err
	}
	for _, d := range defs {
		if d[0] == column {
			return d[1], nil
		}
	}
	return "", sqlforge.NewColumnNotFoundError(table, column)
}

// columnDefinitions returns the name and definition of each column line
// of SHOW CREATE TABLE. It returns nil when the table does not exist.
func (qb *QueryBuilder) columnDefinitions(ctx context.Context, table string) ([][2]string, error) {
	row, cols, err := qb.B.Conn.QueryRow(ctx, "SHOW CREATE TABLE "+qb.B.Quoter.QuoteTableName(table), []any{})
	if err != nil || row == nil {
		return nil, err
	}
	ddl, ok := row["Create Table"].(string)
	if !ok && len(cols) > 1 {
		ddl, _ = row[cols[1]].(string)
	}
	var defs [][2]string
	for _, m := range columnLineRe.FindAllStringSubmatch(ddl, -1) {
		defs = append(defs, [2]string{m[1], m[2]})
	}
	return defs, nil
}

// cutCheck removes the first CHECK (...) constraint from def and
// returns it separately. Parentheses inside the condition may nest.
func cutCheck(def string) (rest, check string) {
	loc := checkRe.FindStringIndex(def)
	if loc == nil {
		return def, ""
	}
	depth := 0
	for i := loc[1] - 1; i < len(def); i++ {
		switch def[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				check = def[loc[0] : i+1]
				return strings.TrimSpace(def[:loc[0]] + def[i+1:]), check
			}
		}
	}
	return def, ""
}

func noSequence(table string) error {
	return sqlforge.NewInvalidArgumentError(table, "there is no sequence associated with table")
}

func noPrimaryKey(table string) error {
	return sqlforge.NewInvalidArgumentError(table, "there is no primary key for table")
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
