// Package postgres implements the PostgreSQL (and, as a thin variant, Redshift) native
// type sum, its text-form parser/printer, portable conversions, and PostgreSQL type OIDs
// used by the csvbinary encoder.
//
// Grounded on _examples/original_source/dbcrossbar/src/drivers/postgres_shared/data_type.rs:
// the PgDataType/PgScalarDataType split (arrays carry an explicit dimension count rather
// than being recursively nested, because PostgreSQL's own catalog represents them that
// way), the OID table, and the comment explaining that Redshift "shares the common
// PostgreSQL infrastructure" rather than getting its own module — modeled here as a
// Flavor switch rather than a parallel type sum.
package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/stokaro/dbxform/dbxerrors"
)

// Flavor selects between vanilla PostgreSQL and Redshift's handful of printer deviations
// (TEXT prints as varchar(max) on Redshift; see DataType.StringFlavor).
type Flavor int

const (
	FlavorPostgres Flavor = iota
	FlavorRedshift
)

// ScalarKind discriminates the non-array PostgreSQL types.
type ScalarKind int

const (
	Boolean ScalarKind = iota
	Date
	Numeric
	Real
	DoublePrecision
	Geometry
	Smallint
	Int
	Bigint
	Json
	Jsonb
	Named
	Text
	TimestampWithoutTimeZone
	TimestampWithTimeZone
	Uuid
)

// Scalar is a single non-array PostgreSQL type value.
type Scalar struct {
	Kind ScalarKind

	// Geometry
	Srid uint32

	// Named
	Name string
}

func NewBoolean() Scalar                 { return Scalar{Kind: Boolean} }
func NewDate() Scalar                    { return Scalar{Kind: Date} }
func NewNumeric() Scalar                 { return Scalar{Kind: Numeric} }
func NewReal() Scalar                    { return Scalar{Kind: Real} }
func NewDoublePrecision() Scalar         { return Scalar{Kind: DoublePrecision} }
func NewGeometry(srid uint32) Scalar     { return Scalar{Kind: Geometry, Srid: srid} }
func NewSmallint() Scalar                { return Scalar{Kind: Smallint} }
func NewInt() Scalar                     { return Scalar{Kind: Int} }
func NewBigint() Scalar                  { return Scalar{Kind: Bigint} }
func NewJson() Scalar                    { return Scalar{Kind: Json} }
func NewJsonb() Scalar                   { return Scalar{Kind: Jsonb} }
func NewNamed(name string) Scalar        { return Scalar{Kind: Named, Name: name} }
func NewText() Scalar                    { return Scalar{Kind: Text} }
func NewTimestampNoTz() Scalar           { return Scalar{Kind: TimestampWithoutTimeZone} }
func NewTimestampTz() Scalar             { return Scalar{Kind: TimestampWithTimeZone} }
func NewUuid() Scalar                    { return Scalar{Kind: Uuid} }

// DataType is a PostgreSQL column type: either a scalar or an N-dimensional array of one.
// PostgreSQL's catalog tracks array dimensionality on the column rather than nesting
// "array of array" types the way the portable algebra does, so DataType mirrors that
// directly instead of recursing through DataType values the way portable.PortableType
// does for Array.
type DataType struct {
	DimensionCount int // 0 for a plain scalar
	Scalar         Scalar
}

func FromScalar(s Scalar) DataType { return DataType{Scalar: s} }

func (t DataType) String() string {
	s := t.Scalar.string(FlavorPostgres)
	for i := 0; i < t.DimensionCount; i++ {
		s += "[]"
	}
	return s
}

// StringFlavor renders t using the given dialect flavor's deviations (currently only
// Text's Redshift spelling).
func (t DataType) StringFlavor(f Flavor) string {
	s := t.Scalar.string(f)
	for i := 0; i < t.DimensionCount; i++ {
		s += "[]"
	}
	return s
}

func (s Scalar) String() string { return s.string(FlavorPostgres) }

func (s Scalar) string(flavor Flavor) string {
	switch s.Kind {
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Numeric:
		return "numeric"
	case Real:
		return "real"
	case DoublePrecision:
		return "double precision"
	case Geometry:
		return fmt.Sprintf("public.geometry(Geometry, %d)", s.Srid)
	case Smallint:
		return "smallint"
	case Int:
		return "int"
	case Bigint:
		return "bigint"
	case Json:
		return "json"
	case Jsonb:
		return "jsonb"
	case Named:
		return fmt.Sprintf("%q", s.Name)
	case Text:
		if flavor == FlavorRedshift {
			return "varchar(max)"
		}
		return "text"
	case TimestampWithoutTimeZone:
		return "timestamp without time zone"
	case TimestampWithTimeZone:
		return "timestamp with time zone"
	case Uuid:
		return "uuid"
	default:
		return fmt.Sprintf("Scalar(%d)", int(s.Kind))
	}
}

// OID returns the PostgreSQL type OID used by the COPY BINARY wire format and by the
// array-element-type header csvbinary writes, sourced from pgx's pgtype OID constants
// rather than hand-copied literals. Geometry and Named deliberately have no fixed OID,
// matching the original's "don't know the PostgreSQL OID for..." errors. Redshift's
// varchar(max) is a Text scalar and gets the text OID.
func (s Scalar) OID() (int32, error) {
	switch s.Kind {
	case Boolean:
		return pgtype.BoolOID, nil
	case Date:
		return pgtype.DateOID, nil
	case Numeric:
		return pgtype.NumericOID, nil
	case Real:
		return pgtype.Float4OID, nil
	case DoublePrecision:
		return pgtype.Float8OID, nil
	case Smallint:
		return pgtype.Int2OID, nil
	case Int:
		return pgtype.Int4OID, nil
	case Bigint:
		return pgtype.Int8OID, nil
	case Json:
		return pgtype.JSONOID, nil
	case Jsonb:
		return pgtype.JSONBOID, nil
	case Text:
		return pgtype.TextOID, nil
	case TimestampWithoutTimeZone:
		return pgtype.TimestampOID, nil
	case TimestampWithTimeZone:
		return pgtype.TimestamptzOID, nil
	case Uuid:
		return pgtype.UUIDOID, nil
	case Geometry:
		return 0, &dbxerrors.UnsupportedType{Backend: "postgres", Type: "geometry", Reason: "no fixed PostgreSQL OID for geometry"}
	case Named:
		return 0, &dbxerrors.UnsupportedType{Backend: "postgres", Type: s.Name, Reason: "no fixed PostgreSQL OID for a named/enum type"}
	default:
		return 0, &dbxerrors.UnsupportedType{Backend: "postgres", Type: s.String()}
	}
}
