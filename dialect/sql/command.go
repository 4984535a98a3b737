package sql

import (
	"context"
	"fmt"
)

// InsertResult is the outcome of an insert returning primary keys.
type InsertResult struct {
	// PrimaryKeys maps each primary key column to its generated or
	// supplied value. It is nil when the table has no primary key.
	PrimaryKeys  map[string]any
	RowsAffected int64
}

// Command executes compiled statements of one dialect.
type Command interface {
	// Execute binds p into query, runs it and returns the number of
	// affected rows.
	Execute(ctx context.Context, query string, p *Params) (int64, error)
	// InsertWithReturningPks inserts one row and returns its primary
	// key values.
	InsertWithReturningPks(ctx context.Context, table string, cols Columns) (*InsertResult, error)
}

// Executor is the Command shared by dialects whose returning insert
// yields a result row: RETURNING and OUTPUT based dialects.
type Executor struct {
	QB     QueryBuilder
	Conn   *Connection
	Binder Binder
}

// NewExecutor returns an Executor running the statements of qb on conn.
func NewExecutor(qb QueryBuilder, conn *Connection, bd Binder) *Executor {
	return &Executor{QB: qb, Conn: conn, Binder: bd}
}

// Exec binds p into query and runs it.
func (e *Executor) Exec(ctx context.Context, query string, p *Params) (Result, error) {
	q, args, err := e.Binder.Bind(query, p)
	if err != nil {
		return nil, err
	}
	e.Conn.Log().DebugContext(ctx, "execute", "dialect", e.QB.Dialect(), "sql", q)
	return e.Conn.Exec(ctx, q, args)
}

// Execute implements Command.
func (e *Executor) Execute(ctx context.Context, query string, p *Params) (int64, error) {
	res, err := e.Exec(ctx, query, p)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: rows affected: %w", err)
	}
	return n, nil
}

// QueryRow binds p into query and returns its first row, or nil.
func (e *Executor) QueryRow(ctx context.Context, query string, p *Params) (map[string]any, error) {
	q, args, err := e.Binder.Bind(query, p)
	if err != nil {
		return nil, err
	}
	e.Conn.Log().DebugContext(ctx, "query", "dialect", e.QB.Dialect(), "sql", q)
	row, _, err := e.Conn.QueryRow(ctx, q, args)
	return row, err
}

// Insert runs a plain insert of cols.
func (e *Executor) Insert(ctx context.Context, table string, cols Columns) (*InsertResult, error) {
	p := NewParams()
	query, err := e.QB.Insert(ctx, table, cols, p)
	if err != nil {
		return nil, err
	}
	n, err := e.Execute(ctx, query, p)
	if err != nil {
		return nil, err
	}
	return &InsertResult{RowsAffected: n}, nil
}

// InsertWithReturningPks implements Command for dialects returning the
// inserted keys as a row. Tables without a primary key get a plain
// insert.
func (e *Executor) InsertWithReturningPks(ctx context.Context, table string, cols Columns) (*InsertResult, error) {
	ts, err := e.QB.Builder().TableSchema(ctx, table)
	if err != nil {
		return nil, err
	}
	if ts == nil || len(ts.PrimaryKey) == 0 {
		return e.Insert(ctx, table, cols)
	}
	p := NewParams()
	query, err := e.QB.InsertWithReturningPks(ctx, table, cols, p)
	if err != nil {
		return nil, err
	}
	row, err := e.QueryRow(ctx, query, p)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &InsertResult{}, nil
	}
	keys := make(map[string]any, len(ts.PrimaryKey))
	for _, pk := range ts.PrimaryKey {
		keys[pk] = row[pk]
	}
	return &InsertResult{PrimaryKeys: keys, RowsAffected: 1}, nil
}

var _ Command = (*Executor)(nil)
