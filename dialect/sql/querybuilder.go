package sql

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// QueryBuilder compiles portable operation descriptions into the SQL of
// one dialect. Every method binding values takes the parameter bag of
// the statement being built; each statement owns its own bag.
type QueryBuilder interface {
	// Dialect returns the dialect name, e.g. dialect.MySQL.
	Dialect() string
	Quoter() *Quoter
	Builder() *Builder

	// Column returns a column builder rendering with the dialect format.
	Column(typ string, length ...any) *schema.ColumnBuilder
	ColumnType(ctx context.Context, t any) string
	BuildLimit(limit, offset any) string

	Select(q *Query, p *Params) (string, error)
	Insert(ctx context.Context, table string, src InsertSource, p *Params) (string, error)
	Upsert(ctx context.Context, table string, src InsertSource, up Update, p *Params) (string, error)
	InsertWithReturningPks(ctx context.Context, table string, cols Columns, p *Params) (string, error)
	Update(ctx context.Context, table string, cols Columns, where Expression, p *Params) (string, error)
	Delete(table string, where Expression, p *Params) (string, error)

	CreateTable(ctx context.Context, table string, cols []ColumnDef, options string) (string, error)
	AddColumn(ctx context.Context, table, column string, t any) (string, error)
	DropColumn(table, column string) (string, error)
	AlterColumn(ctx context.Context, table, column string, t any) (string, error)
	RenameColumn(ctx context.Context, table, oldName, newName string) (string, error)
	CreateIndex(name, table string, columns []string, indexType string) (string, error)
	DropIndex(ctx context.Context, name, table string) (string, error)

	AddCommentOnColumn(ctx context.Context, table, column, comment string) (string, error)
	AddCommentOnTable(ctx context.Context, table, comment string) (string, error)
	DropCommentFromColumn(ctx context.Context, table, column string) (string, error)
	DropCommentFromTable(ctx context.Context, table string) (string, error)

	CreateSequence(table string, start, increment int64, opts SequenceOptions) (string, error)
	DropSequence(table string) (string, error)
	ResetSequence(ctx context.Context, table string, value any) (string, error)
	CheckIntegrity(ctx context.Context, check bool, schemaName, table string) (string, error)
}

// Generic implements the QueryBuilder operations that render the same
// way in most dialects. Dialect query builders embed it and override
// what differs. Operations without a portable form fail with a
// NotSupportedError naming DisplayName.
type Generic struct {
	B *Builder
	// DisplayName is the dialect name used in error messages,
	// e.g. "MySQL/MariaDB".
	DisplayName string
	// Format renders column builders. Nil uses schema.Base.
	Format *schema.Format
}

// Dialect returns the dialect name.
func (g *Generic) Dialect() string { return g.B.Dialect }

// Quoter returns the identifier quoter.
func (g *Generic) Quoter() *Quoter { return g.B.Quoter }

// Builder returns the shared compiler.
func (g *Generic) Builder() *Builder { return g.B }

// Column returns a column builder rendering with Format.
func (g *Generic) Column(typ string, length ...any) *schema.ColumnBuilder {
	c := schema.New(typ, length...)
	if g.Format != nil {
		c.WithFormat(g.Format)
	}
	return c
}

// ColumnType resolves an abstract type to the dialect type.
func (g *Generic) ColumnType(ctx context.Context, t any) string { return g.B.ColumnType(ctx, t) }

// BuildLimit renders the pagination fragment of the dialect.
func (g *Generic) BuildLimit(limit, offset any) string { return g.B.Limit(limit, offset) }

// Select renders a SELECT statement.
func (g *Generic) Select(q *Query, p *Params) (string, error) { return g.B.Build(q, p) }

// Insert renders an INSERT statement.
func (g *Generic) Insert(ctx context.Context, table string, src InsertSource, p *Params) (string, error) {
	return g.B.Insert(ctx, table, src, p)
}

// Upsert fails for dialects without an upsert form.
func (g *Generic) Upsert(context.Context, string, InsertSource, Update, *Params) (string, error) {
	return "", g.NotSupported("upsert")
}

// InsertWithReturningPks fails for dialects without a returning form.
func (g *Generic) InsertWithReturningPks(context.Context, string, Columns, *Params) (string, error) {
	return "", g.NotSupported("insertWithReturningPks")
}

// Update renders an UPDATE statement.
func (g *Generic) Update(ctx context.Context, table string, cols Columns, where Expression, p *Params) (string, error) {
	return g.B.Update(ctx, table, cols, where, p)
}

// Delete renders a DELETE statement.
func (g *Generic) Delete(table string, where Expression, p *Params) (string, error) {
	return g.B.Delete(table, where, p)
}

// CreateTable renders a CREATE TABLE statement.
func (g *Generic) CreateTable(ctx context.Context, table string, cols []ColumnDef, options string) (string, error) {
	return g.B.CreateTable(ctx, table, cols, options), nil
}

// AddColumn renders an ALTER TABLE ADD statement.
func (g *Generic) AddColumn(ctx context.Context, table, column string, t any) (string, error) {
	return g.B.AddColumn(ctx, table, column, t), nil
}

// DropColumn renders an ALTER TABLE DROP COLUMN statement.
func (g *Generic) DropColumn(table, column string) (string, error) {
	return g.B.DropColumn(table, column), nil
}

// AlterColumn renders "ALTER TABLE t CHANGE c c type".
func (g *Generic) AlterColumn(ctx context.Context, table, column string, t any) (string, error) {
	c := g.B.Quoter.QuoteColumnName(column)
	return "ALTER TABLE " + g.B.Quoter.QuoteTableName(table) + " CHANGE " + c + " " + c + " " + g.B.ColumnType(ctx, t), nil
}

// RenameColumn renders "ALTER TABLE t RENAME COLUMN a TO b".
func (g *Generic) RenameColumn(_ context.Context, table, oldName, newName string) (string, error) {
	return g.B.RenameColumn(table, oldName, newName), nil
}

// CreateIndex renders a plain or UNIQUE index.
func (g *Generic) CreateIndex(name, table string, columns []string, indexType string) (string, error) {
	kind, err := g.IndexType(indexType, IndexUnique)
	if err != nil {
		return "", err
	}
	return g.B.CreateIndex(kind, name, table, columns), nil
}

// DropIndex renders "DROP INDEX name ON table".
func (g *Generic) DropIndex(_ context.Context, name, table string) (string, error) {
	return g.B.DropIndex(name, table), nil
}

// AddCommentOnColumn renders a COMMENT ON COLUMN statement.
func (g *Generic) AddCommentOnColumn(_ context.Context, table, column, comment string) (string, error) {
	return g.B.CommentOnColumn(table, column, &comment), nil
}

// AddCommentOnTable renders a COMMENT ON TABLE statement.
func (g *Generic) AddCommentOnTable(_ context.Context, table, comment string) (string, error) {
	return g.B.CommentOnTable(table, &comment), nil
}

// DropCommentFromColumn sets the column comment to NULL.
func (g *Generic) DropCommentFromColumn(_ context.Context, table, column string) (string, error) {
	return g.B.CommentOnColumn(table, column, nil), nil
}

// DropCommentFromTable sets the table comment to NULL.
func (g *Generic) DropCommentFromTable(_ context.Context, table string) (string, error) {
	return g.B.CommentOnTable(table, nil), nil
}

// CreateSequence fails for dialects without sequence objects.
func (g *Generic) CreateSequence(string, int64, int64, SequenceOptions) (string, error) {
	return "", g.NotSupported("createSequence")
}

// DropSequence fails for dialects without sequence objects.
func (g *Generic) DropSequence(string) (string, error) {
	return "", g.NotSupported("dropSequence")
}

// ResetSequence fails unless overridden.
func (g *Generic) ResetSequence(context.Context, string, any) (string, error) {
	return "", g.NotSupported("resetSequence")
}

// CheckIntegrity fails unless overridden.
func (g *Generic) CheckIntegrity(context.Context, bool, string, string) (string, error) {
	return "", g.NotSupported("checkIntegrity")
}

// NotSupported returns the error for an operation the dialect lacks.
func (g *Generic) NotSupported(op string) error {
	name := g.DisplayName
	if name == "" {
		name = g.B.Dialect
	}
	return sqlforge.NewNotSupportedError(name, op)
}

// Index types shared by several dialects.
const (
	IndexUnique       = "UNIQUE"
	IndexFulltext     = "FULLTEXT"
	IndexSpatial      = "SPATIAL"
	IndexClustered    = "CLUSTERED"
	IndexNonClustered = "NONCLUSTERED"
)

// IndexType validates an index type against the allowed ones. The
// empty type, a plain index, is always allowed. Matching ignores case
// and the canonical spelling is returned.
func (g *Generic) IndexType(indexType string, allowed ...string) (string, error) {
	if indexType == "" {
		return "", nil
	}
	if i := slices.IndexFunc(allowed, func(a string) bool { return strings.EqualFold(a, indexType) }); i >= 0 {
		return allowed[i], nil
	}
	return "", sqlforge.NewInvalidArgumentError("", fmt.Sprintf("%s does not support index type %q", g.DisplayName, indexType))
}
