package sql

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// ColumnDef is one entry of a CREATE TABLE column list. Type is an
// abstract or physical type string, or a column builder. An empty Name
// makes Type a raw table-level definition such as a constraint.
type ColumnDef struct {
	Name string
	Type any
}

// SequenceOptions holds the optional parts of a CREATE SEQUENCE.
type SequenceOptions struct {
	MinValue *int64
	MaxValue *int64
	Cache    int64
	Cycle    bool
}

// SequenceSuffix is appended to a table name to name its sequence.
const SequenceSuffix = "_SEQ"

// CreateTable renders a CREATE TABLE statement.
func (b *Builder) CreateTable(ctx context.Context, table string, cols []ColumnDef, options string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			defs[i] = "\t" + b.ColumnType(ctx, c.Type)
			continue
		}
		defs[i] = "\t" + b.Quoter.QuoteColumnName(c.Name) + " " + b.ColumnType(ctx, c.Type)
	}
	sql := "CREATE TABLE " + b.Quoter.QuoteTableName(table) + " (\n" + strings.Join(defs, ",\n") + "\n)"
	if options != "" {
		sql += " " + options
	}
	return sql
}

// AddColumn renders "ALTER TABLE t ADD c type".
func (b *Builder) AddColumn(ctx context.Context, table, column string, t any) string {
	return "ALTER TABLE " + b.Quoter.QuoteTableName(table) +
		" ADD " + b.Quoter.QuoteColumnName(column) + " " + b.ColumnType(ctx, t)
}

// DropColumn renders "ALTER TABLE t DROP COLUMN c".
func (b *Builder) DropColumn(table, column string) string {
	return "ALTER TABLE " + b.Quoter.QuoteTableName(table) + " DROP COLUMN " + b.Quoter.QuoteColumnName(column)
}

// RenameColumn renders "ALTER TABLE t RENAME COLUMN a TO b".
func (b *Builder) RenameColumn(table, oldName, newName string) string {
	return "ALTER TABLE " + b.Quoter.QuoteTableName(table) +
		" RENAME COLUMN " + b.Quoter.QuoteColumnName(oldName) +
		" TO " + b.Quoter.QuoteColumnName(newName)
}

// CreateIndex renders "CREATE [kind ]INDEX name ON table (columns)".
func (b *Builder) CreateIndex(kind, name, table string, columns []string) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if kind != "" {
		sb.WriteString(kind + " ")
	}
	sb.WriteString("INDEX " + b.Quoter.QuoteTableName(name))
	sb.WriteString(" ON " + b.Quoter.QuoteTableName(table))
	sb.WriteString(" (" + b.BuildColumns(columns) + ")")
	return sb.String()
}

// DropIndex renders "DROP INDEX name ON table".
func (b *Builder) DropIndex(name, table string) string {
	return "DROP INDEX " + b.Quoter.QuoteTableName(name) + " ON " + b.Quoter.QuoteTableName(table)
}

// CommentOnColumn renders "COMMENT ON COLUMN t.c IS 'comment'". A nil
// comment renders IS NULL.
func (b *Builder) CommentOnColumn(table, column string, comment *string) string {
	return "COMMENT ON COLUMN " + b.Quoter.QuoteTableName(table) + "." +
		b.Quoter.QuoteColumnName(column) + " IS " + b.commentLiteral(comment)
}

// CommentOnTable renders "COMMENT ON TABLE t IS 'comment'". A nil
// comment renders IS NULL.
func (b *Builder) CommentOnTable(table string, comment *string) string {
	return "COMMENT ON TABLE " + b.Quoter.QuoteTableName(table) + " IS " + b.commentLiteral(comment)
}

func (b *Builder) commentLiteral(comment *string) string {
	if comment == nil {
		return "NULL"
	}
	return b.Quoter.QuoteString(*comment)
}

// SequenceName returns the quoted name of the sequence created for table.
func (b *Builder) SequenceName(table string) string {
	return b.Quoter.QuoteTableName(table + SequenceSuffix)
}

// IntegrityTables returns the tables an integrity check applies to:
// table alone, or every table of schemaName when table is empty. Views
// are left out.
func (b *Builder) IntegrityTables(ctx context.Context, schemaName, table string) ([]string, error) {
	var reader schema.Reader
	if b.Conn != nil {
		reader = b.Conn.Schema
	}
	tables := []string{table}
	if table == "" {
		if reader == nil {
			return nil, sqlforge.NewInvalidArgumentError(schemaName, "listing tables requires a schema reader")
		}
		names, err := reader.TableNames(ctx, schemaName)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: table names: %w", err)
		}
		tables = names
	}
	if reader == nil {
		return tables, nil
	}
	views, err := reader.ViewNames(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: view names: %w", err)
	}
	return slices.DeleteFunc(tables, func(t string) bool { return slices.Contains(views, t) }), nil
}
