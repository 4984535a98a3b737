package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/syssam/sqlforge/dialect/sql"
)

// render compiles every statement and writes the SQL followed by its
// bound parameters as comments.
func render(ctx context.Context, w io.Writer, qb sql.QueryBuilder, stmts []statement, logger *slog.Logger) error {
	for i, s := range stmts {
		p := sql.NewParams()
		query, err := compile(ctx, qb, s, p)
		if err != nil {
			return fmt.Errorf("statement %d (%s): %w", i+1, s.Op, err)
		}
		logger.Debug("compiled statement", "index", i+1, "op", s.Op, "table", s.Table, "params", p.Len())
		if _, err := fmt.Fprintf(w, "-- %s %s\n%s;\n", s.Op, s.Table, query); err != nil {
			return err
		}
		for _, name := range p.Names() {
			v, _ := p.Value(name)
			if _, err := fmt.Fprintf(w, "-- %s = %#v\n", name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func compile(ctx context.Context, qb sql.QueryBuilder, s statement, p *sql.Params) (string, error) {
	switch s.Op {
	case "select":
		if s.Select == nil {
			return "", errors.New("select requires a select block")
		}
		return qb.Select(s.Select.query(), p)
	case "insert":
		return qb.Insert(ctx, s.Table, s.source(), p)
	case "upsert":
		return qb.Upsert(ctx, s.Table, s.source(), s.Update.Update, p)
	case "insert_returning":
		return qb.InsertWithReturningPks(ctx, s.Table, s.Values.columns(), p)
	case "update":
		return qb.Update(ctx, s.Table, s.Values.columns(), s.Where.hash(), p)
	case "delete":
		return qb.Delete(s.Table, s.Where.hash(), p)
	case "create_table":
		defs := make([]sql.ColumnDef, len(s.Columns))
		for i, c := range s.Columns {
			defs[i] = sql.ColumnDef{Name: c.Name, Type: fmt.Sprint(c.Value)}
		}
		return qb.CreateTable(ctx, s.Table, defs, s.Options)
	case "add_column":
		return qb.AddColumn(ctx, s.Table, s.Column, s.Type)
	case "drop_column":
		return qb.DropColumn(s.Table, s.Column)
	case "alter_column":
		return qb.AlterColumn(ctx, s.Table, s.Column, s.Type)
	case "rename_column":
		return qb.RenameColumn(ctx, s.Table, s.Column, s.NewName)
	case "create_index":
		return qb.CreateIndex(s.Name, s.Table, s.On, s.IndexType)
	case "drop_index":
		return qb.DropIndex(ctx, s.Name, s.Table)
	case "comment":
		switch {
		case s.Comment == nil && s.Column == "":
			return qb.DropCommentFromTable(ctx, s.Table)
		case s.Comment == nil:
			return qb.DropCommentFromColumn(ctx, s.Table, s.Column)
		case s.Column == "":
			return qb.AddCommentOnTable(ctx, s.Table, *s.Comment)
		}
		return qb.AddCommentOnColumn(ctx, s.Table, s.Column, *s.Comment)
	case "create_sequence":
		return qb.CreateSequence(s.Table, s.Start, s.Increment, sql.SequenceOptions{
			MinValue: s.MinValue,
			MaxValue: s.MaxValue,
			Cache:    s.Cache,
			Cycle:    s.Cycle,
		})
	case "drop_sequence":
		return qb.DropSequence(s.Table)
	case "reset_sequence":
		return qb.ResetSequence(ctx, s.Table, s.Value)
	case "check_integrity":
		check := s.Check == nil || *s.Check
		return qb.CheckIntegrity(ctx, check, s.Schema, s.Table)
	}
	return "", fmt.Errorf("unknown op %q", s.Op)
}

// source returns the insert source: the select block when present,
// otherwise the values row.
func (s statement) source() sql.InsertSource {
	if s.Select != nil {
		return s.Select.query()
	}
	return s.Values.columns()
}
