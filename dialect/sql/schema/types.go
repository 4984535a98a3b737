package schema

// Abstract column types. Dialect type maps resolve them to physical types.
const (
	TypePK        = "pk"
	TypeUPK       = "upk"
	TypeBigPK     = "bigpk"
	TypeUBigPK    = "ubigpk"
	TypeChar      = "char"
	TypeString    = "string"
	TypeText      = "text"
	TypeTinyInt   = "tinyint"
	TypeSmallInt  = "smallint"
	TypeInteger   = "integer"
	TypeBigInt    = "bigint"
	TypeFloat     = "float"
	TypeDouble    = "double"
	TypeDecimal   = "decimal"
	TypeDateTime  = "datetime"
	TypeTimestamp = "timestamp"
	TypeTime      = "time"
	TypeDate      = "date"
	TypeBinary    = "binary"
	TypeBoolean   = "boolean"
	TypeMoney     = "money"
	TypeJSON      = "json"
	TypeAuto      = "auto"
	TypeUAuto     = "uauto"
	TypeBigAuto   = "bigauto"
	TypeUBigAuto  = "ubigauto"
)

// Types returns the core abstract types every dialect maps.
func Types() []string {
	return []string{
		TypePK, TypeBigPK, TypeChar, TypeString, TypeText, TypeTinyInt,
		TypeSmallInt, TypeInteger, TypeBigInt, TypeFloat, TypeDouble, TypeDecimal,
		TypeDateTime, TypeTimestamp, TypeTime, TypeDate, TypeBinary, TypeBoolean,
		TypeMoney, TypeJSON,
	}
}

// Category groups abstract types that share a column template.
type Category uint8

// Type categories.
const (
	CategoryOther Category = iota
	CategoryPK
	CategoryAuto
	CategoryString
	CategoryNumeric
	CategoryTime
)

var categories = map[string]Category{
	TypePK:        CategoryPK,
	TypeUPK:       CategoryPK,
	TypeBigPK:     CategoryPK,
	TypeUBigPK:    CategoryPK,
	TypeAuto:      CategoryAuto,
	TypeUAuto:     CategoryAuto,
	TypeBigAuto:   CategoryAuto,
	TypeUBigAuto:  CategoryAuto,
	TypeChar:      CategoryString,
	TypeString:    CategoryString,
	TypeText:      CategoryString,
	TypeTinyInt:   CategoryNumeric,
	TypeSmallInt:  CategoryNumeric,
	TypeInteger:   CategoryNumeric,
	TypeBigInt:    CategoryNumeric,
	TypeFloat:     CategoryNumeric,
	TypeDouble:    CategoryNumeric,
	TypeDecimal:   CategoryNumeric,
	TypeMoney:     CategoryNumeric,
	TypeDateTime:  CategoryTime,
	TypeTimestamp: CategoryTime,
	TypeTime:      CategoryTime,
	TypeDate:      CategoryTime,
}

// CategoryOf returns the category of an abstract type.
func CategoryOf(t string) Category {
	return categories[t]
}

func (c Category) String() string {
	switch c {
	case CategoryPK:
		return "pk"
	case CategoryAuto:
		return "auto"
	case CategoryString:
		return "string"
	case CategoryNumeric:
		return "numeric"
	case CategoryTime:
		return "time"
	default:
		return "other"
	}
}
