// Package portable defines dbxform's backend-independent column-type algebra: the
// PortableType sum, the Schema container that resolves named types, and the validation
// pass every loaded schema must pass before any dialect module or the transform planner
// touches it.
//
// A PortableType value is always one of the Kind variants below; compound kinds carry
// their payload in the matching field (Element for Array, Fields for Struct, Labels for
// OneOf, Name for Named) and leave the others zero. This mirrors the tagged-sum texture of
// the teacher's own goschema.Field, trading Go's lack of real sum types for a single
// exhaustively-switched Kind discriminant rather than an interface hierarchy.
package portable

import "fmt"

// Kind discriminates the variant carried by a PortableType value.
type Kind int

const (
	Bool Kind = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	Decimal
	Text
	Date
	TimestampNoTz
	TimestampTz
	Uuid
	Json
	GeoJson
	Array
	Struct
	OneOf
	Named
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Decimal:
		return "decimal"
	case Text:
		return "text"
	case Date:
		return "date"
	case TimestampNoTz:
		return "timestamp_without_time_zone"
	case TimestampTz:
		return "timestamp_with_time_zone"
	case Uuid:
		return "uuid"
	case Json:
		return "json"
	case GeoJson:
		return "geo_json"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case OneOf:
		return "one_of"
	case Named:
		return "named"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StructField is one field of a Struct PortableType, in declaration order.
type StructField struct {
	Name     string
	Nullable bool
	Type     PortableType
}

// PortableType is dbxform's backend-independent column type. See Kind for the list of
// variants; only the field matching the active Kind is meaningful.
type PortableType struct {
	Kind Kind

	// Element is the element type of an Array.
	Element *PortableType

	// Fields holds a Struct's ordered field list.
	Fields []StructField

	// Labels holds a OneOf's closed, ordered set of string labels.
	Labels []string

	// Name is the lookup key into Schema.NamedTypes for a Named reference.
	Name string

	// Srid is the spatial reference identifier for a GeoJson column.
	Srid uint32
}

// Scalar constructors for the non-compound, non-referential kinds.
func NewBool() PortableType          { return PortableType{Kind: Bool} }
func NewInt16() PortableType         { return PortableType{Kind: Int16} }
func NewInt32() PortableType         { return PortableType{Kind: Int32} }
func NewInt64() PortableType         { return PortableType{Kind: Int64} }
func NewFloat32() PortableType       { return PortableType{Kind: Float32} }
func NewFloat64() PortableType       { return PortableType{Kind: Float64} }
func NewDecimal() PortableType       { return PortableType{Kind: Decimal} }
func NewText() PortableType          { return PortableType{Kind: Text} }
func NewDate() PortableType          { return PortableType{Kind: Date} }
func NewTimestampNoTz() PortableType { return PortableType{Kind: TimestampNoTz} }
func NewTimestampTz() PortableType   { return PortableType{Kind: TimestampTz} }
func NewUuid() PortableType          { return PortableType{Kind: Uuid} }
func NewJson() PortableType          { return PortableType{Kind: Json} }

// NewGeoJson builds a GeoJson column type carrying the given spatial reference identifier
// (4326 for WGS84 is the common case, but any SRID is accepted here; backends validate
// which SRIDs they can actually represent).
func NewGeoJson(srid uint32) PortableType {
	return PortableType{Kind: GeoJson, Srid: srid}
}

// NewArray builds an Array(element) compound type.
func NewArray(element PortableType) PortableType {
	return PortableType{Kind: Array, Element: &element}
}

// NewStruct builds a Struct type from an ordered field list.
func NewStruct(fields ...StructField) PortableType {
	return PortableType{Kind: Struct, Fields: fields}
}

// NewOneOf builds a closed enum-of-strings type. Labels must be non-empty; an empty OneOf
// is caught by Validate (dbxerrors.EmptyOneOf) rather than rejected here, so that types can
// be constructed incrementally before validation.
func NewOneOf(labels ...string) PortableType {
	return PortableType{Kind: OneOf, Labels: labels}
}

// NewNamed builds a reference to a named type defined elsewhere in the owning Schema.
func NewNamed(name string) PortableType {
	return PortableType{Kind: Named, Name: name}
}

// IsScalar reports whether t is one of the non-compound, non-referential kinds.
func (t PortableType) IsScalar() bool {
	switch t.Kind {
	case Array, Struct, OneOf, Named:
		return false
	default:
		return true
	}
}

// String renders a debug-friendly (not wire-format) description of t.
func (t PortableType) String() string {
	switch t.Kind {
	case GeoJson:
		return fmt.Sprintf("geo_json(%d)", t.Srid)
	case Array:
		return fmt.Sprintf("array(%s)", t.Element.String())
	case Struct:
		return fmt.Sprintf("struct(%d fields)", len(t.Fields))
	case OneOf:
		return fmt.Sprintf("one_of(%v)", t.Labels)
	case Named:
		return fmt.Sprintf("named(%s)", t.Name)
	default:
		return t.Kind.String()
	}
}
