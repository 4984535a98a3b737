package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// Connection is what the query builders and commands know about the
// database: how to run statements, where table metadata comes from and
// the caches used for capability probes.
type Connection struct {
	Driver dialect.ExecQuerier
	// DSN identifies the server in probe cache keys.
	DSN string
	// Version is the server version. When empty it is probed on demand.
	Version string
	Schema  schema.Reader
	// Cache stores capability probe results for CacheDuration. A nil
	// Cache disables cross-builder caching.
	Cache         sqlforge.Cache
	CacheDuration time.Duration
	Logger        *slog.Logger
}

// Log returns the connection logger or slog.Default.
func (c *Connection) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

var errNoDriver = errors.New("dialect/sql: connection has no driver")

// Exec runs a statement.
func (c *Connection) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	if c == nil || c.Driver == nil {
		return nil, errNoDriver
	}
	var res sql.Result
	if err := c.Driver.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Query runs a query. The caller closes the returned rows.
func (c *Connection) Query(ctx context.Context, query string, args []any) (*Rows, error) {
	if c == nil || c.Driver == nil {
		return nil, errNoDriver
	}
	rows := &Rows{}
	if err := c.Driver.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryRow returns the first row of a query keyed by column name, and
// the column names in order. It returns nil without error when the
// query yields no rows.
func (c *Connection) QueryRow(ctx context.Context, query string, args []any) (map[string]any, []string, error) {
	rows, err := c.Query(ctx, query, args)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("dialect/sql: columns: %w", err)
	}
	if !rows.Next() {
		return nil, cols, rows.Err()
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, nil, fmt.Errorf("dialect/sql: scan: %w", err)
	}
	row := make(map[string]any, len(cols))
	for i, name := range cols {
		if b, ok := values[i].([]byte); ok {
			values[i] = string(b)
		}
		row[name] = values[i]
	}
	return row, cols, rows.Err()
}

// QueryScalar returns the first column of the first row, or nil.
func (c *Connection) QueryScalar(ctx context.Context, query string, args []any) (any, error) {
	row, cols, err := c.QueryRow(ctx, query, args)
	if err != nil || row == nil || len(cols) == 0 {
		return nil, err
	}
	return row[cols[0]], nil
}

// ServerVersion returns Version, or the first column of versionQuery.
func (c *Connection) ServerVersion(ctx context.Context, versionQuery string) (string, error) {
	if c.Version != "" {
		return c.Version, nil
	}
	v, err := c.QueryScalar(ctx, versionQuery, []any{})
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", errors.New("dialect/sql: empty server version")
	}
	return fmt.Sprint(v), nil
}

// Int64 converts a scalar read from the database to int64. nil is 0.
func Int64(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return Int64(string(v))
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil {
				return 0, fmt.Errorf("dialect/sql: not an integer: %q", v)
			}
			return int64(f), nil
		}
		return n, nil
	}
	return 0, fmt.Errorf("dialect/sql: not an integer: %T", v)
}
