package sql

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge/dialect"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Connection{Driver: OpenDB(dialect.Postgres, db)}, mock
}

func TestConnectionQueryRow(t *testing.T) {
	ctx := context.Background()
	conn, mock := newMockConnection(t)

	mock.ExpectQuery("SELECT id, name FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("a")).
			AddRow(int64(2), []byte("b")))
	row, cols, err := conn.QueryRow(ctx, "SELECT id, name FROM t", []any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "a"}, row)

	mock.ExpectQuery("SELECT id FROM t WHERE id = $1").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	row, _, err = conn.QueryRow(ctx, "SELECT id FROM t WHERE id = $1", []any{9})
	require.NoError(t, err)
	assert.Nil(t, row)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionQueryScalar(t *testing.T) {
	ctx := context.Background()
	conn, mock := newMockConnection(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	v, err := conn.QueryScalar(ctx, "SELECT COUNT(*) FROM t", []any{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	mock.ExpectQuery("SELECT 1 WHERE false").WillReturnRows(sqlmock.NewRows([]string{"x"}))
	v, err = conn.QueryScalar(ctx, "SELECT 1 WHERE false", []any{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestConnectionServerVersion(t *testing.T) {
	ctx := context.Background()

	v, err := (&Connection{Version: "8.0.36"}).ServerVersion(ctx, "SELECT VERSION()")
	require.NoError(t, err)
	assert.Equal(t, "8.0.36", v)

	conn, mock := newMockConnection(t)
	mock.ExpectQuery("SELECT VERSION()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow([]byte("10.11.6-MariaDB")))
	v, err = conn.ServerVersion(ctx, "SELECT VERSION()")
	require.NoError(t, err)
	assert.Equal(t, "10.11.6-MariaDB", v)

	cause := errors.New("connection refused")
	mock.ExpectQuery("SELECT VERSION()").WillReturnError(cause)
	_, err = conn.ServerVersion(ctx, "SELECT VERSION()")
	require.ErrorIs(t, err, cause)

	mock.ExpectQuery("SELECT VERSION()").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	_, err = conn.ServerVersion(ctx, "SELECT VERSION()")
	require.Error(t, err)
}

func TestConnectionWithoutDriver(t *testing.T) {
	ctx := context.Background()
	var conn *Connection
	_, err := conn.Exec(ctx, "DELETE FROM t", []any{})
	require.ErrorIs(t, err, errNoDriver)
	_, err = (&Connection{}).Query(ctx, "SELECT 1", []any{})
	require.ErrorIs(t, err, errNoDriver)
	assert.Same(t, slog.Default(), conn.Log())

	logger := slog.New(slog.DiscardHandler)
	assert.Same(t, logger, (&Connection{Logger: logger}).Log())
}

func TestInt64(t *testing.T) {
	tests := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{in: nil, want: 0},
		{in: int64(7), want: 7},
		{in: 7, want: 7},
		{in: int32(7), want: 7},
		{in: uint64(7), want: 7},
		{in: float64(7.9), want: 7},
		{in: "42", want: 42},
		{in: []byte("42"), want: 42},
		{in: "4.2e1", want: 42},
		{in: "abc", wantErr: true},
		{in: true, wantErr: true},
	}
	for _, tt := range tests {
		got, err := Int64(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
