package sqlite

import (
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// NewQuoter returns the backtick quoter of SQLite.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{Start: "`", End: "`"}
}

// Format renders column definitions. AUTOINCREMENT is only valid after
// PRIMARY KEY.
var Format = &schema.Format{
	Default:   "{type}{length}{primarykey}{autoincrement}{notnull}{unique}{default}{check}{append}",
	Templates: schema.Base.Templates,
	AutoIncrement: func(*schema.ColumnBuilder) string {
		return " AUTOINCREMENT"
	},
}

// Types maps abstract types to SQLite types. Identity columns are
// INTEGER PRIMARY KEY AUTOINCREMENT.
var Types = map[string]string{
	schema.TypePK:        "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeUPK:       "integer UNSIGNED PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeBigPK:     "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeUBigPK:    "integer UNSIGNED PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeAuto:      "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeUAuto:     "integer UNSIGNED PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeBigAuto:   "integer PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeUBigAuto:  "integer UNSIGNED PRIMARY KEY AUTOINCREMENT NOT NULL",
	schema.TypeChar:      "char(1)",
	schema.TypeString:    "varchar(255)",
	schema.TypeText:      "text",
	schema.TypeTinyInt:   "tinyint",
	schema.TypeSmallInt:  "smallint",
	schema.TypeInteger:   "integer",
	schema.TypeBigInt:    "bigint",
	schema.TypeFloat:     "float",
	schema.TypeDouble:    "double",
	schema.TypeDecimal:   "decimal(10,0)",
	schema.TypeDateTime:  "datetime",
	schema.TypeTimestamp: "timestamp",
	schema.TypeTime:      "time",
	schema.TypeDate:      "date",
	schema.TypeBinary:    "blob",
	schema.TypeBoolean:   "boolean",
	schema.TypeMoney:     "decimal(19,4)",
	schema.TypeJSON:      "json",
}
