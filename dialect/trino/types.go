// Package trino implements the Trino native type sum: its scalar and compound variants,
// a parser and printer for Trino's canonical SQL spelling of each, and total conversions
// to and from portable.PortableType.
//
// Grounded on _examples/original_source/crates/dbcrossbar_trino/src/types.rs: the variant
// list, the convenience constructors with Trino's documented defaults, the canonical
// Display spellings (including SphericalGeography's unusual capitalization, preserved
// verbatim because that's how Trino itself prints it), and the set of grammatically
// recognized but deliberately unsupported types (CHAR, TIME WITH TIME ZONE, INTERVAL DAY TO
// SECOND, INTERVAL YEAR TO MONTH, MAP).
package trino

import "fmt"

// Kind discriminates the DataType variant.
type Kind int

const (
	Boolean Kind = iota
	TinyInt
	SmallInt
	Int
	BigInt
	Real
	Double
	DecimalKind
	Varchar
	Varbinary
	Json
	Date
	Time
	Timestamp
	TimestampWithTimeZone
	Uuid
	SphericalGeography
	ArrayKind
	Row
)

// Field is one field of a Row type. Name is empty for an anonymous field (legal in
// connectors that support positional ROW types, e.g. Memory).
type Field struct {
	Name string
	Type DataType
}

// DataType is a single Trino native type value. As with portable.PortableType, only the
// fields relevant to Kind are meaningful.
type DataType struct {
	Kind Kind

	// DecimalKind
	Precision, Scale int

	// Varchar: nil Length means unbounded VARCHAR.
	Length *int

	// Time, Timestamp, TimestampWithTimeZone: fractional-second digits (e.g. 3, 6, 9).
	TimePrecision int

	// ArrayKind
	Element *DataType

	// Row
	Fields []Field
}

func NewBoolean() DataType  { return DataType{Kind: Boolean} }
func NewTinyInt() DataType  { return DataType{Kind: TinyInt} }
func NewSmallInt() DataType { return DataType{Kind: SmallInt} }
func NewInt() DataType      { return DataType{Kind: Int} }
func NewBigInt() DataType   { return DataType{Kind: BigInt} }
func NewReal() DataType     { return DataType{Kind: Real} }
func NewDouble() DataType   { return DataType{Kind: Double} }
func NewJson() DataType     { return DataType{Kind: Json} }
func NewDate() DataType     { return DataType{Kind: Date} }
func NewUuid() DataType     { return DataType{Kind: Uuid} }
func NewVarbinary() DataType { return DataType{Kind: Varbinary} }
func NewSphericalGeography() DataType { return DataType{Kind: SphericalGeography} }

// NewDecimal builds DECIMAL(precision, scale).
func NewDecimal(precision, scale int) DataType {
	return DataType{Kind: DecimalKind, Precision: precision, Scale: scale}
}

// Varchar builds VARCHAR (unbounded).
func NewVarchar() DataType { return DataType{Kind: Varchar} }

// VarcharN builds VARCHAR(n).
func VarcharN(n int) DataType { return DataType{Kind: Varchar, Length: &n} }

// NewTime builds TIME(precision). Trino's documented default precision is 3.
func NewTime(precision int) DataType { return DataType{Kind: Time, TimePrecision: precision} }

// DefaultTime is TIME(3), Trino's documented default.
func DefaultTime() DataType { return NewTime(3) }

// NewTimestamp builds TIMESTAMP(precision). Trino's documented default precision is 3.
func NewTimestamp(precision int) DataType { return DataType{Kind: Timestamp, TimePrecision: precision} }

// DefaultTimestamp is TIMESTAMP(3), Trino's documented default.
func DefaultTimestamp() DataType { return NewTimestamp(3) }

// NewTimestampWithTimeZone builds TIMESTAMP(precision) WITH TIME ZONE.
func NewTimestampWithTimeZone(precision int) DataType {
	return DataType{Kind: TimestampWithTimeZone, TimePrecision: precision}
}

// DefaultTimestampWithTimeZone is TIMESTAMP(3) WITH TIME ZONE.
func DefaultTimestampWithTimeZone() DataType { return NewTimestampWithTimeZone(3) }

// NewArray builds ARRAY(element).
func NewArray(element DataType) DataType { return DataType{Kind: ArrayKind, Element: &element} }

// NewRow builds ROW(fields...).
func NewRow(fields ...Field) DataType { return DataType{Kind: Row, Fields: fields} }

// IsRowWithNamedFields reports whether t is a Row whose fields are all named, the
// condition under which Trino allows "." field-access syntax against it.
func (t DataType) IsRowWithNamedFields() bool {
	if t.Kind != Row {
		return false
	}
	for _, f := range t.Fields {
		if f.Name == "" {
			return false
		}
	}
	return len(t.Fields) > 0
}

func (t DataType) String() string {
	switch t.Kind {
	case Boolean:
		return "BOOLEAN"
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Int:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Real:
		return "REAL"
	case Double:
		return "DOUBLE"
	case DecimalKind:
		return fmt.Sprintf("DECIMAL(%d, %d)", t.Precision, t.Scale)
	case Varchar:
		if t.Length == nil {
			return "VARCHAR"
		}
		return fmt.Sprintf("VARCHAR(%d)", *t.Length)
	case Varbinary:
		return "VARBINARY"
	case Json:
		return "JSON"
	case Date:
		return "DATE"
	case Time:
		return fmt.Sprintf("TIME(%d)", t.TimePrecision)
	case Timestamp:
		return fmt.Sprintf("TIMESTAMP(%d)", t.TimePrecision)
	case TimestampWithTimeZone:
		return fmt.Sprintf("TIMESTAMP(%d) WITH TIME ZONE", t.TimePrecision)
	case Uuid:
		return "UUID"
	case SphericalGeography:
		return "SphericalGeography"
	case ArrayKind:
		return fmt.Sprintf("ARRAY(%s)", t.Element.String())
	case Row:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			if f.Name == "" {
				parts[i] = f.Type.String()
			} else {
				parts[i] = fmt.Sprintf("%s %s", f.Name, f.Type.String())
			}
		}
		s := "ROW("
		for i, p := range parts {
			if i > 0 {
				s += ", "
			}
			s += p
		}
		return s + ")"
	default:
		return fmt.Sprintf("DataType(%d)", int(t.Kind))
	}
}

// Equal reports deep structural equality, used by the round-trip property tests.
func (t DataType) Equal(other DataType) bool {
	return t.String() == other.String()
}
