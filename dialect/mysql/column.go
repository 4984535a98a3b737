package mysql

import (
	"maps"

	"github.com/syssam/sqlforge/dialect/sql/schema"
)

var quoter = NewQuoter()

// Format renders column definitions. COMMENT precedes CHECK, and
// UNSIGNED sits before the nullability of numeric columns.
var Format = &schema.Format{
	Default: "{type}{length}{notnull}{default}{unique}{comment}{append}{pos}{check}",
	Templates: map[schema.Category]string{
		schema.CategoryPK:      "{type}{length}{comment}{check}{append}{pos}",
		schema.CategoryNumeric: "{type}{length}{unsigned}{notnull}{default}{autoincrement}{primarykey}{unique}{comment}{append}{pos}{check}",
		schema.CategoryAuto:    "{type}{primarykey}{comment}{append}{pos}{check}",
	},
	Quote:       QuoteString,
	QuoteColumn: quoter.QuoteColumnName,
	Unsigned:    true,
	Position:    true,
	AutoIncrement: func(*schema.ColumnBuilder) string {
		return " AUTO_INCREMENT"
	},
	Comment: func(c *schema.ColumnBuilder) string {
		s, _ := c.CommentText()
		return " COMMENT " + QuoteString(s)
	},
}

// Column returns a column builder rendering with Format.
func Column(typ string, length ...any) *schema.ColumnBuilder {
	return schema.New(typ, length...).WithFormat(Format)
}

var baseTypes = map[string]string{
	schema.TypePK:       "int(11) NOT NULL AUTO_INCREMENT PRIMARY KEY",
	schema.TypeUPK:      "int(10) UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
	schema.TypeBigPK:    "bigint(20) NOT NULL AUTO_INCREMENT PRIMARY KEY",
	schema.TypeUBigPK:   "bigint(20) UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
	schema.TypeAuto:     "int(11) NOT NULL AUTO_INCREMENT",
	schema.TypeUAuto:    "int(10) UNSIGNED NOT NULL AUTO_INCREMENT",
	schema.TypeBigAuto:  "bigint(20) NOT NULL AUTO_INCREMENT",
	schema.TypeUBigAuto: "bigint(20) UNSIGNED NOT NULL AUTO_INCREMENT",
	schema.TypeChar:     "char(1)",
	schema.TypeString:   "varchar(255)",
	schema.TypeText:     "text",
	schema.TypeTinyInt:  "tinyint(3)",
	schema.TypeSmallInt: "smallint(6)",
	schema.TypeInteger:  "int(11)",
	schema.TypeBigInt:   "bigint(20)",
	schema.TypeFloat:    "float",
	schema.TypeDouble:   "double",
	schema.TypeDecimal:  "decimal(10,0)",
	schema.TypeDate:     "date",
	schema.TypeBinary:   "blob",
	schema.TypeBoolean:  "tinyint(1)",
	schema.TypeMoney:    "decimal(19,4)",
	schema.TypeJSON:     "json",
}

var (
	// LegacyTypes is the type map of servers without fractional seconds.
	LegacyTypes = withTimeTypes("datetime", "timestamp", "time")
	// FractionalTypes is the type map of servers since 5.6.4.
	FractionalTypes = withTimeTypes("datetime(0)", "timestamp(0)", "time(0)")
)

func withTimeTypes(datetime, timestamp, time string) map[string]string {
	m := maps.Clone(baseTypes)
	m[schema.TypeDateTime] = datetime
	m[schema.TypeTimestamp] = timestamp
	m[schema.TypeTime] = time
	return m
}
