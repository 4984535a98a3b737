package mssql

import (
	"fmt"

	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// NewQuoter returns the bracket quoter of SQL Server.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{Start: "[", End: "]"}
}

// Format renders column definitions with IDENTITY columns. Auto types
// carry their seed as the length, which the type map substitutes into
// IDENTITY(start,increment).
var Format = &schema.Format{
	Default: schema.Base.Default,
	Templates: map[schema.Category]string{
		schema.CategoryPK:   "{type}{check}{append}",
		schema.CategoryAuto: "{type}{length}{notnull}{unique}{default}{primarykey}{check}{append}",
	},
	AutoIncrement: func(c *schema.ColumnBuilder) string {
		if start, inc, ok := c.Seed(); ok {
			return fmt.Sprintf(" IDENTITY(%d,%d)", start, inc)
		}
		return " IDENTITY"
	},
}

// Types maps abstract types to SQL Server types.
var Types = map[string]string{
	schema.TypePK:        "int IDENTITY PRIMARY KEY",
	schema.TypeUPK:       "int IDENTITY PRIMARY KEY",
	schema.TypeBigPK:     "bigint IDENTITY PRIMARY KEY",
	schema.TypeUBigPK:    "bigint IDENTITY PRIMARY KEY",
	schema.TypeAuto:      "int IDENTITY(1,1)",
	schema.TypeUAuto:     "int IDENTITY(1,1)",
	schema.TypeBigAuto:   "bigint IDENTITY(1,1)",
	schema.TypeUBigAuto:  "bigint IDENTITY(1,1)",
	schema.TypeChar:      "nchar(1)",
	schema.TypeString:    "nvarchar(255)",
	schema.TypeText:      "nvarchar(max)",
	schema.TypeTinyInt:   "tinyint",
	schema.TypeSmallInt:  "smallint",
	schema.TypeInteger:   "int",
	schema.TypeBigInt:    "bigint",
	schema.TypeFloat:     "float",
	schema.TypeDouble:    "float",
	schema.TypeDecimal:   "decimal(18,0)",
	schema.TypeDateTime:  "datetime",
	schema.TypeTimestamp: "datetime",
	schema.TypeTime:      "time",
	schema.TypeDate:      "date",
	schema.TypeBinary:    "varbinary(max)",
	schema.TypeBoolean:   "bit",
	schema.TypeMoney:     "decimal(19,4)",
	schema.TypeJSON:      "nvarchar(max)",
}
