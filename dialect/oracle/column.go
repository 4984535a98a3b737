package oracle

import (
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/dialect/sql/schema"
)

// NewQuoter returns the double quote quoter of Oracle. Names already
// containing a double quote are left as they are.
func NewQuoter() *sql.Quoter {
	return &sql.Quoter{Start: `"`, End: `"`}
}

// Format renders column definitions. Oracle expects DEFAULT before
// the nullability.
var Format = &schema.Format{
	Default: "{type}{length}{default}{notnull}{unique}{check}{append}",
	Templates: map[schema.Category]string{
		schema.CategoryPK:      "{type}{length}{check}{append}",
		schema.CategoryNumeric: "{type}{length}{autoincrement}{default}{notnull}{primarykey}{unique}{check}{append}",
	},
	AutoIncrement: schema.Base.AutoIncrement,
}

// Types maps abstract types to Oracle types.
var Types = map[string]string{
	schema.TypePK:        "NUMBER(10) NOT NULL PRIMARY KEY",
	schema.TypeUPK:       "NUMBER(10) NOT NULL PRIMARY KEY",
	schema.TypeBigPK:     "NUMBER(20) NOT NULL PRIMARY KEY",
	schema.TypeUBigPK:    "NUMBER(20) NOT NULL PRIMARY KEY",
	schema.TypeAuto:      "NUMBER(10) GENERATED BY DEFAULT AS IDENTITY",
	schema.TypeUAuto:     "NUMBER(10) GENERATED BY DEFAULT AS IDENTITY",
	schema.TypeBigAuto:   "NUMBER(20) GENERATED BY DEFAULT AS IDENTITY",
	schema.TypeUBigAuto:  "NUMBER(20) GENERATED BY DEFAULT AS IDENTITY",
	schema.TypeChar:      "CHAR(1)",
	schema.TypeString:    "VARCHAR2(255)",
	schema.TypeText:      "CLOB",
	schema.TypeTinyInt:   "NUMBER(3)",
	schema.TypeSmallInt:  "NUMBER(5)",
	schema.TypeInteger:   "NUMBER(10)",
	schema.TypeBigInt:    "NUMBER(20)",
	schema.TypeFloat:     "NUMBER",
	schema.TypeDouble:    "NUMBER",
	schema.TypeDecimal:   "NUMBER",
	schema.TypeDateTime:  "TIMESTAMP",
	schema.TypeTimestamp: "TIMESTAMP",
	schema.TypeTime:      "TIMESTAMP",
	schema.TypeDate:      "DATE",
	schema.TypeBinary:    "BLOB",
	schema.TypeBoolean:   "NUMBER(1)",
	schema.TypeMoney:     "NUMBER(19,4)",
	schema.TypeJSON:      "CLOB",
}
