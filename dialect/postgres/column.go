package postgres

import "github.com/syssam/sqlforge/dialect/sql/schema"

// Format renders column definitions. PostgreSQL has no inline column
// comments; use AddCommentOnColumn.
var Format = &schema.Format{
	Default:       schema.Base.Default,
	Templates:     schema.Base.Templates,
	Quote:         QuoteString,
	AutoIncrement: schema.Base.AutoIncrement,
}

// Types maps abstract types to PostgreSQL types.
var Types = map[string]string{
	schema.TypePK:        "serial NOT NULL PRIMARY KEY",
	schema.TypeUPK:       "serial NOT NULL PRIMARY KEY",
	schema.TypeBigPK:     "bigserial NOT NULL PRIMARY KEY",
	schema.TypeUBigPK:    "bigserial NOT NULL PRIMARY KEY",
	schema.TypeAuto:      "serial NOT NULL",
	schema.TypeBigAuto:   "bigserial NOT NULL",
	schema.TypeChar:      "char(1)",
	schema.TypeString:    "varchar(255)",
	schema.TypeText:      "text",
	schema.TypeTinyInt:   "smallint",
	schema.TypeSmallInt:  "smallint",
	schema.TypeInteger:   "integer",
	schema.TypeBigInt:    "bigint",
	schema.TypeFloat:     "double precision",
	schema.TypeDouble:    "double precision",
	schema.TypeDecimal:   "numeric(10,0)",
	schema.TypeDateTime:  "timestamp(0)",
	schema.TypeTimestamp: "timestamp(0)",
	schema.TypeTime:      "time(0)",
	schema.TypeDate:      "date",
	schema.TypeBinary:    "bytea",
	schema.TypeBoolean:   "boolean",
	schema.TypeMoney:     "numeric(19,4)",
	schema.TypeJSON:      "jsonb",
}
