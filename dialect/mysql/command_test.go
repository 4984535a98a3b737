package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect/sql"
)

func TestInsertWithReturningPksNotSupported(t *testing.T) {
	conn, _ := newMock(t)
	cmd := NewCommand(NewQueryBuilder(conn), conn)
	res, err := cmd.InsertWithReturningPks(context.Background(), "customer", sql.Columns{sql.Col("email", "a@b.c")})
	require.Nil(t, res)
	require.True(t, sqlforge.IsNotSupported(err))
	assert.Contains(t, err.Error(), "MySQL/MariaDB")
	assert.Contains(t, err.Error(), "insertWithReturningPks")

	_, err = NewQueryBuilder(conn).InsertWithReturningPks(context.Background(), "customer", nil, sql.NewParams())
	require.True(t, sqlforge.IsNotSupported(err))
}

func TestInsertWithLastID(t *testing.T) {
	ctx := context.Background()
	t.Run("auto increment", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `customer` (`email`) VALUES (?)")).
			WithArgs("a@b.c").
			WillReturnResult(sqlmock.NewResult(7, 1))
		res, err := NewCommand(NewQueryBuilder(conn), conn).InsertWithLastID(ctx, "customer", sql.Columns{sql.Col("email", "a@b.c")})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": int64(7)}, res.PrimaryKeys)
		assert.Equal(t, int64(1), res.RowsAffected)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("supplied keys", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `order_item` (`order_id`, `item_id`, `quantity`) VALUES (?, ?, ?)")).
			WithArgs(1, 2, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		res, err := NewCommand(NewQueryBuilder(conn), conn).InsertWithLastID(ctx, "order_item", sql.Columns{
			sql.Col("order_id", 1), sql.Col("item_id", 2), sql.Col("quantity", 3),
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"order_id": 1, "item_id": 2}, res.PrimaryKeys)
	})
	t.Run("no primary key", func(t *testing.T) {
		conn, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `type` (`int_col`) VALUES (?)")).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		res, err := NewCommand(NewQueryBuilder(conn), conn).InsertWithLastID(ctx, "type", sql.Columns{sql.Col("int_col", 1)})
		require.NoError(t, err)
		assert.Nil(t, res.PrimaryKeys)
		assert.Equal(t, int64(1), res.RowsAffected)
	})
	t.Run("exec error", func(t *testing.T) {
		conn, mock := newMock(t)
		cause := errors.New("duplicate entry")
		mock.ExpectExec("INSERT INTO").WillReturnError(cause)
		_, err := NewCommand(NewQueryBuilder(conn), conn).InsertWithLastID(ctx, "customer", sql.Columns{sql.Col("email", "a@b.c")})
		require.ErrorIs(t, err, cause)
	})
}

func TestExecute(t *testing.T) {
	conn, mock := newMock(t)
	qb := NewQueryBuilder(conn)
	p := sql.NewParams()
	query, err := qb.Update(context.Background(), "customer", sql.Columns{sql.Col("status", 2)}, sql.In("id", 1, 2), p)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `customer` SET `status`=:qp0 WHERE `id` IN (:qp1, :qp2)", query)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `customer` SET `status`=? WHERE `id` IN (?, ?)")).
		WithArgs(2, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	n, err := NewCommand(qb, conn).Execute(context.Background(), query, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
