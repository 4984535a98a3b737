// Package fixture provides the table metadata shared by the dialect
// tests.
package fixture

import (
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// Tables returns fresh copies of the test tables:
//
//   - T_upsert: auto-increment id, unique email.
//   - customer: auto-increment id, with a sequence.
//   - type: no primary key, JSON and array columns.
//   - order_item: composite primary key, no sequence.
//   - T_upsert_varbinary: string primary key.
func Tables() []*schema.TableSchema {
	return []*schema.TableSchema{
		{
			Name:         "T_upsert",
			PrimaryKey:   []string{"id"},
			SequenceName: "T_upsert_id_seq",
			Uniques:      []schema.Constraint{{Name: "T_upsert_email_key", Columns: []string{"email"}}},
			Columns: []*schema.ColumnSchema{
				{Name: "id", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", IsPrimaryKey: true, AutoIncrement: true},
				{Name: "email", Type: schema.TypeString, DBType: "varchar(128)", ValueType: "string", Size: 128},
				{Name: "address", Type: schema.TypeText, DBType: "text", ValueType: "string", AllowNull: true},
				{Name: "status", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", DefaultValue: 0},
				{Name: "profile_id", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", AllowNull: true},
			},
		},
		{
			Name:         "customer",
			PrimaryKey:   []string{"id"},
			SequenceName: "customer_id_seq",
			Columns: []*schema.ColumnSchema{
				{Name: "id", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", IsPrimaryKey: true, AutoIncrement: true},
				{Name: "email", Type: schema.TypeString, DBType: "varchar(128)", ValueType: "string", Size: 128},
				{Name: "name", Type: schema.TypeString, DBType: "varchar(128)", ValueType: "string", Size: 128, AllowNull: true},
				{Name: "status", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", DefaultValue: 0},
			},
		},
		{
			Name: "type",
			Columns: []*schema.ColumnSchema{
				{Name: "int_col", Type: schema.TypeInteger, DBType: "int", ValueType: "integer"},
				{Name: "char_col", Type: schema.TypeChar, DBType: "char(100)", ValueType: "string", Size: 100},
				{Name: "json_col", Type: schema.TypeJSON, DBType: "jsonb", ValueType: "string", AllowNull: true},
				{Name: "intarray_col", Type: schema.TypeInteger, DBType: "int4[]", ValueType: "integer", Dimension: 1, AllowNull: true},
			},
		},
		{
			Name:       "order_item",
			PrimaryKey: []string{"order_id", "item_id"},
			Columns: []*schema.ColumnSchema{
				{Name: "order_id", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", IsPrimaryKey: true},
				{Name: "item_id", Type: schema.TypeInteger, DBType: "int", ValueType: "integer", IsPrimaryKey: true},
				{Name: "quantity", Type: schema.TypeInteger, DBType: "int", ValueType: "integer"},
			},
		},
		{
			Name:       "T_upsert_varbinary",
			PrimaryKey: []string{"id"},
			Columns: []*schema.ColumnSchema{
				{Name: "id", Type: schema.TypeString, DBType: "varchar(32)", ValueType: "string", Size: 32, IsPrimaryKey: true},
				{Name: "blob_col", Type: schema.TypeBinary, DBType: "varbinary(max)", ValueType: "resource", AllowNull: true},
			},
		},
	}
}

// Static returns a schema reader over Tables. It panics if a table is
// invalid.
func Static() *schema.Static {
	s, err := schema.NewStatic(Tables()...)
	if err != nil {
		panic(err)
	}
	return s
}
