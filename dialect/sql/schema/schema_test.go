package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerTable() *TableSchema {
	return &TableSchema{
		Name:       "customer",
		PrimaryKey: []string{"id"},
		Columns: []*ColumnSchema{
			{Name: "id", Type: TypeInteger, IsPrimaryKey: true, AutoIncrement: true},
			{Name: "email", Type: TypeString, Size: 128},
			{Name: "name", Type: TypeString, Size: 128, AllowNull: true},
		},
		Uniques: []Constraint{{Name: "customer_email_key", Columns: []string{"email"}}},
	}
}

func TestTableSchema(t *testing.T) {
	ts := customerTable()
	assert.Equal(t, "customer", ts.FullName())
	ts.Schema = "shop"
	assert.Equal(t, "shop.customer", ts.FullName())
	assert.Equal(t, "email", ts.Column("email").Name)
	assert.Nil(t, ts.Column("missing"))
}

func TestConstraints(t *testing.T) {
	ts := &TableSchema{
		Name:       "order_item",
		PrimaryKey: []string{"order_id", "item_id"},
		Uniques: []Constraint{
			{Name: "uq_pair", Columns: []string{"item_id", "order_id"}},
			{Name: "uq_code", Columns: []string{"code"}},
			{Name: "uq_code_again", Columns: []string{"code"}},
		},
	}
	assert.Equal(t, []Constraint{
		{Name: "PRIMARY", Columns: []string{"order_id", "item_id"}},
		{Name: "uq_code", Columns: []string{"code"}},
	}, ts.Constraints())
	assert.Empty(t, (&TableSchema{Name: "t"}).Constraints())
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	archived := &TableSchema{Schema: "archive", Name: "customer", PrimaryKey: []string{"id"}, Columns: []*ColumnSchema{{Name: "id"}}}
	item := &TableSchema{Name: "item", PrimaryKey: []string{"id"}, Columns: []*ColumnSchema{{Name: "id"}}}
	s, err := NewStatic(item, archived)
	require.NoError(t, err)

	ts, err := s.TableSchema(ctx, "archive.customer")
	require.NoError(t, err)
	assert.Same(t, archived, ts)
	ts, err = s.TableSchema(ctx, "customer")
	require.NoError(t, err)
	assert.Same(t, archived, ts)
	ts, err = s.TableSchema(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, ts)

	replaced := customerTable()
	replaced.Name = "item"
	require.NoError(t, s.Add(replaced))
	ts, err = s.TableSchema(ctx, "item")
	require.NoError(t, err)
	assert.Same(t, replaced, ts)

	names, err := s.TableNames(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"item", "customer"}, names)
	names, err = s.TableNames(ctx, "public")
	require.NoError(t, err)
	assert.Equal(t, []string{"item"}, names)

	s.AddView("", "active_customer")
	views, err := s.ViewNames(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"active_customer"}, views)
	views[0] = "changed"
	views, err = s.ViewNames(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"active_customer"}, views)
	views, err = s.ViewNames(ctx, "archive")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestStaticInvalid(t *testing.T) {
	_, err := NewStatic(&TableSchema{Name: "t", PrimaryKey: []string{"id"}})
	require.EqualError(t, err, `schema: invalid table "t": t: primary key references non-existent column "id"`)
}
