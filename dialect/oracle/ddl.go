package oracle

import (
	"context"
	"strconv"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
)

// AlterColumn renders "ALTER TABLE t MODIFY c type".
func (qb *QueryBuilder) AlterColumn(ctx context.Context, table, column string, t any) (string, error) {
	b := qb.B
	return "ALTER TABLE " + b.Quoter.QuoteTableName(table) + " MODIFY " + b.Quoter.QuoteColumnName(column) + " " + b.ColumnType(ctx, t), nil
}

// DropIndex renders "DROP INDEX name". Oracle index names are schema
// wide.
func (qb *QueryBuilder) DropIndex(_ context.Context, name, _ string) (string, error) {
	return "DROP INDEX " + qb.B.Quoter.QuoteTableName(name), nil
}

// DropCommentFromColumn sets the column comment to the empty string.
func (qb *QueryBuilder) DropCommentFromColumn(_ context.Context, table, column string) (string, error) {
	empty := ""
	return qb.B.CommentOnColumn(table, column, &empty), nil
}

// DropCommentFromTable sets the table comment to the empty string.
func (qb *QueryBuilder) DropCommentFromTable(_ context.Context, table string) (string, error) {
	empty := ""
	return qb.B.CommentOnTable(table, &empty), nil
}

// CreateSequence renders a CREATE SEQUENCE with every option spelled
// out.
func (qb *QueryBuilder) CreateSequence(table string, start, increment int64, opts sql.SequenceOptions) (string, error) {
	if increment == 0 {
		increment = 1
	}
	parts := []string{
		"CREATE SEQUENCE " + qb.B.SequenceName(table),
		"START WITH " + strconv.FormatInt(start, 10),
		"INCREMENT BY " + strconv.FormatInt(increment, 10),
	}
	if opts.MinValue != nil {
		parts = append(parts, "MINVALUE "+strconv.FormatInt(*opts.MinValue, 10))
	} else {
		parts = append(parts, "NOMINVALUE")
	}
	if opts.MaxValue != nil {
		parts = append(parts, "MAXVALUE "+strconv.FormatInt(*opts.MaxValue, 10))
	} else {
		parts = append(parts, "NOMAXVALUE")
	}
	if opts.Cache > 0 {
		parts = append(parts, "CACHE "+strconv.FormatInt(opts.Cache, 10))
	} else {
		parts = append(parts, "NOCACHE")
	}
	if opts.Cycle {
		parts = append(parts, "CYCLE")
	} else {
		parts = append(parts, "NOCYCLE")
	}
	return strings.Join(parts, " "), nil
}

// DropSequence renders DROP SEQUENCE for the sequence of table.
func (qb *QueryBuilder) DropSequence(table string) (string, error) {
	return "DROP SEQUENCE " + qb.B.SequenceName(table), nil
}

// ResetSequence renders a PL/SQL block recreating the table sequence.
// Oracle cannot move a sequence, so it is dropped and created again
// starting at value, or after the largest primary key when value is
// nil.
func (qb *QueryBuilder) ResetSequence(ctx context.Context, table string, value any) (string, error) {
	b := qb.B
	ts, err := b.RequireTableSchema(ctx, table)
	if err != nil {
		return "", err
	}
	if ts.SequenceName == "" {
		return "", sqlforge.NewInvalidArgumentError(table, "there is no sequence associated with table")
	}
	var declare, selectMax string
	if value != nil {
		n, err := sql.Int64(value)
		if err != nil {
			return "", err
		}
		declare = " := " + strconv.FormatInt(n, 10)
	} else {
		switch len(ts.PrimaryKey) {
		case 0:
			return "", sqlforge.NewInvalidArgumentError(table, "table has no primary key")
		case 1:
		default:
			return "", sqlforge.NewInvalidArgumentError(table, "can't reset sequence for composite primary key")
		}
		selectMax = "\n    SELECT MAX(" + b.Quoter.QuoteColumnName(ts.PrimaryKey[0]) + ") + 1 INTO lastSeq FROM " + b.Quoter.QuoteTableName(table) + ";"
	}
	seq := b.Quoter.QuoteTableName(ts.SequenceName)
	return "declare\n" +
		"    lastSeq number" + declare + ";\n" +
		"begin" + selectMax + "\n" +
		"    if lastSeq IS NULL then lastSeq := 1; end if;\n" +
		"    execute immediate 'DROP SEQUENCE " + seq + "';\n" +
		"    execute immediate 'CREATE SEQUENCE " + seq + " START WITH ' || lastSeq || ' INCREMENT BY 1 NOMAXVALUE NOCACHE';\n" +
		"end;", nil
}
