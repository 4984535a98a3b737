package mssql

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
	checkRe      = regexp.MustCompile(`(?i)\s+CHECK\s+(\(.*\))`)
	defaultRe    = regexp.MustCompile(`(?i)\s+DEFAULT\s+('(?:[^']|'')*'|"[^"]*"|[^(\s]*\([^)]*\)|\S+)`)
	uniqueRe     = regexp.MustCompile(`(?i)\s+UNIQUE\b`)
	identifierRe = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// outputType is the table variable type holding a returned key.
func outputType(c *schema.ColumnSchema) string {
	if c == nil || c.DBType == "" {
		return "sql_variant"
	}
	switch t := strings.ToLower(c.DBType); t {
	case "timestamp", "rowversion":
		return "binary(8)"
	default:
		return t
	}
}

// AlterColumn renders "ALTER TABLE t ALTER COLUMN c type". DEFAULT,
// UNIQUE and CHECK cannot be part of ALTER COLUMN; they become named
// constraints added by separate statements.
func (qb *QueryBuilder) AlterColumn(ctx context.Context, table, column string, t any) (string, error) {
	b := qb.B
	typ := b.ColumnType(ctx, t)
	quotedTable := b.Quoter.QuoteTableName(table)
	col := b.Quoter.QuoteColumnName(column)
	base := identifierRe.ReplaceAllString(table+"_"+column, "")
	var after []string
	if m := checkRe.FindStringSubmatch(typ); m != nil {
		typ = strings.Replace(typ, m[0], "", 1)
		after = append(after, "ALTER TABLE "+quotedTable+" ADD CONSTRAINT "+b.Quoter.QuoteColumnName("CK_"+base)+" CHECK "+m[1])
	}
	if m := defaultRe.FindStringSubmatch(typ); m != nil {
		typ = strings.Replace(typ, m[0], "", 1)
		after = append(after, "ALTER TABLE "+quotedTable+" ADD CONSTRAINT "+b.Quoter.QuoteColumnName("DF_"+base)+" DEFAULT "+m[1]+" FOR "+col)
	}
	if uniqueRe.MatchString(typ) {
		typ = uniqueRe.ReplaceAllString(typ, "")
		after = append(after, "ALTER TABLE "+quotedTable+" ADD CONSTRAINT "+b.Quoter.QuoteColumnName("UQ_"+base)+" UNIQUE ("+col+")")
	}
	stmts := append([]string{"ALTER TABLE " + quotedTable + " ALTER COLUMN " + col + " " + typ}, after...)
	return strings.Join(stmts, "; "), nil
}

// RenameColumn renders an sp_rename call.
func (qb *QueryBuilder) RenameColumn(_ context.Context, table, oldName, newName string) (string, error) {
	q := qb.B.Quoter
	return "sp_rename '" + q.QuoteTableName(table) + "." + q.QuoteColumnName(oldName) + "', " + q.QuoteColumnName(newName) + ", 'COLUMN'", nil
}

// AddCommentOnColumn sets the MS_description extended property of a
// column.
func (qb *QueryBuilder) AddCommentOnColumn(_ context.Context, table, column, comment string) (string, error) {
	return qb.addComment(table, column, comment), nil
}

// AddCommentOnTable sets the MS_description extended property of a
// table.
func (qb *QueryBuilder) AddCommentOnTable(_ context.Context, table, comment string) (string, error) {
	return qb.addComment(table, "", comment), nil
}

// DropCommentFromColumn drops the MS_description extended property of
// a column if it is set.
func (qb *QueryBuilder) DropCommentFromColumn(_ context.Context, table, column string) (string, error) {
	return qb.dropComment(table, column), nil
}

// DropCommentFromTable drops the MS_description extended property of a
// table if it is set.
func (qb *QueryBuilder) DropCommentFromTable(_ context.Context, table string) (string, error) {
	return qb.dropComment(table, ""), nil
}

type property struct {
	schema, table, column string
}

func (qb *QueryBuilder) property(table, column string) property {
	q := qb.B.Quoter
	name := q.SplitTableName(table)
	if name.Schema == "" {
		name.Schema = qb.B.DefaultSchema
	}
	p := property{schema: "N" + q.QuoteString(name.Schema), table: "N" + q.QuoteString(name.Name)}
	if column != "" {
		p.column = "N" + q.QuoteString(column)
	}
	return p
}

// exists renders the fn_listextendedproperty lookup of the property.
func (p property) exists() string {
	level2 := "DEFAULT, DEFAULT"
	if p.column != "" {
		level2 = "'COLUMN', " + p.column
	}
	return "(SELECT 1 FROM fn_listextendedproperty(N'MS_description', 'SCHEMA', " + p.schema + ", 'TABLE', " + p.table + ", " + level2 + "))"
}

// levels renders the level arguments of the sp_*extendedproperty
// procedures.
func (p property) levels() string {
	s := "@level0type = N'SCHEMA', @level0name = " + p.schema + ", @level1type = N'TABLE', @level1name = " + p.table
	if p.column != "" {
		s += ", @level2type = N'COLUMN', @level2name = " + p.column
	}
	return s
}

func (qb *QueryBuilder) addComment(table, column, comment string) string {
	p := qb.property(table, column)
	args := "@name = N'MS_description', @value = N" + qb.B.Quoter.QuoteString(comment) + ", " + p.levels()
	return "IF NOT EXISTS " + p.exists() +
		" EXEC sys.sp_addextendedproperty " + args +
		" ELSE EXEC sys.sp_updateextendedproperty " + args + ";"
}

func (qb *QueryBuilder) dropComment(table, column string) string {
	p := qb.property(table, column)
	return "IF EXISTS " + p.exists() + " EXEC sys.sp_dropextendedproperty @name = N'MS_description', " + p.levels() + ";"
}

// CreateSequence renders a CREATE SEQUENCE of type bigint.
func (qb *QueryBuilder) CreateSequence(table string, start, increment int64, opts sql.SequenceOptions) (string, error) {
	if increment == 0 {
		increment = 1
	}
	parts := []string{
		"CREATE SEQUENCE " + qb.B.SequenceName(table) + " AS bigint",
		"START WITH " + strconv.FormatInt(start, 10),
		"INCREMENT BY " + strconv.FormatInt(increment, 10),
	}
	if opts.MinValue != nil {
		parts = append(parts, "MINVALUE "+strconv.FormatInt(*opts.MinValue, 10))
	} else {
		parts = append(parts, "NO MINVALUE")
	}
	if opts.MaxValue != nil {
		parts = append(parts, "MAXVALUE "+strconv.FormatInt(*opts.MaxValue, 10))
	} else {
		parts = append(parts, "NO MAXVALUE")
	}
	if opts.Cycle {
		parts = append(parts, "CYCLE")
	} else {
		parts = append(parts, "NO CYCLE")
	}
	if opts.Cache > 0 {
		parts = append(parts, "CACHE "+strconv.FormatInt(opts.Cache, 10))
	} else {
		parts = append(parts, "NO CACHE")
	}
	return strings.Join(parts, " "), nil
}

// DropSequence renders DROP SEQUENCE for the sequence of table.
func (qb *QueryBuilder) DropSequence(table string) (string, error) {
	return "DROP SEQUENCE " + qb.B.SequenceName(table), nil
}

// ResetSequence reseeds the identity of table with DBCC CHECKIDENT. A
// nil value reseeds to the current maximum: reseeding to 0 first lets
// the plain RESEED correct it upwards.
func (qb *QueryBuilder) ResetSequence(ctx context.Context, table string, value any) (string, error) {
	b := qb.B
	ts, err := b.RequireTableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts.SequenceName == "" {
		return "", sqlforge.NewInvalidArgumentError(table, "there is no sequence associated with table")
	}
	name := "'" + b.Quoter.QuoteTableName(table) + "'"
	if value == nil {
		return "DBCC CHECKIDENT (" + name + ", RESEED, 0) WITH NO_INFOMSGS;DBCC CHECKIDENT (" + name + ", RESEED)", nil
	}
	n, err := sql.Int64(value)
	if err != nil {
		return "", err
	}
	return "DBCC CHECKIDENT (" + name + ", RESEED, " + strconv.FormatInt(n, 10) + ")", nil
}

// CheckIntegrity enables or disables the foreign key and check
// constraints of table or of every table of the schema.
func (qb *QueryBuilder) CheckIntegrity(ctx context.Context, check bool, schemaName, table string) (string, error) {
	b := qb.B
	if schemaName == "" {
		schemaName = b.DefaultSchema
	}
	tables, err := b.IntegrityTables(ctx, schemaName, table)
	if err != nil {
		return "", err
	}
	action := "NOCHECK"
	if check {
		action = "CHECK"
	}
	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = "ALTER TABLE " + b.Quoter.QuoteTableName(schemaName+"."+t) + " " + action + " CONSTRAINT ALL;"
	}
	return strings.Join(stmts, " "), nil
}
