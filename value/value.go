// Package value implements dbxform's runtime value model: a tagged union mirroring
// portable.PortableType, per-backend SQL literal rendering, and a "close enough"
// comparison used by property tests and integration tests to tolerate the precision and
// representation loss that storage transforms intentionally introduce.
//
// Grounded on _examples/original_source/crates/dbcrossbar_trino/src/values/mod.rs for the
// value sum and the render-as-sqlast-then-pretty-print design, and on pretty/ast.rs for the
// literal forms each Kind renders to.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"

	"github.com/stokaro/dbxform/portable"
	"github.com/stokaro/dbxform/sqlast"
)

// Kind discriminates the variant carried by a Value.
type Kind int

const (
	Null Kind = iota
	BoolVal
	Int16Val
	Int32Val
	Int64Val
	Float32Val
	Float64Val
	DecimalVal
	TextVal
	DateVal
	TimestampNoTzVal
	TimestampTzVal
	UuidVal
	JsonVal
	GeoJsonVal
	ArrayVal
	StructVal
)

func (k Kind) String() string {
	names := [...]string{
		"null", "bool", "int16", "int32", "int64", "float32", "float64", "decimal",
		"text", "date", "timestamp_no_tz", "timestamp_tz", "uuid", "json", "geo_json",
		"array", "struct",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// StructEntry is one named field of a Struct value, in declaration order.
type StructEntry struct {
	Name  string
	Value Value
}

// Value is dbxform's runtime representation of one cell. Only the field(s) matching Kind
// are meaningful; a Null value carries no payload regardless of the column's declared
// type.
type Value struct {
	Kind Kind

	Bool     bool
	Int      int64
	Float    float64
	Decimal  decimal.Decimal
	Text     string
	Time     time.Time
	Uuid     uuid.UUID
	Json     json.RawMessage
	Geometry orb.Geometry
	Srid     uint32
	Elements []Value
	Fields   []StructEntry

	// Type carries the declared portable type of an Array or Struct value. It's needed
	// (rather than derived from Elements/Fields) because an empty array still needs a type
	// to cast an empty ARRAY[] literal to, and a Row's field names live on the type, not on
	// any individual value.
	Type portable.PortableType
}

func NewNull() Value                     { return Value{Kind: Null} }
func NewBool(b bool) Value               { return Value{Kind: BoolVal, Bool: b} }
func NewInt16(n int16) Value             { return Value{Kind: Int16Val, Int: int64(n)} }
func NewInt32(n int32) Value             { return Value{Kind: Int32Val, Int: int64(n)} }
func NewInt64(n int64) Value             { return Value{Kind: Int64Val, Int: n} }
func NewFloat32(f float32) Value         { return Value{Kind: Float32Val, Float: float64(f)} }
func NewFloat64(f float64) Value         { return Value{Kind: Float64Val, Float: f} }
func NewDecimal(d decimal.Decimal) Value { return Value{Kind: DecimalVal, Decimal: d} }
func NewText(s string) Value             { return Value{Kind: TextVal, Text: s} }
func NewDate(t time.Time) Value          { return Value{Kind: DateVal, Time: t} }
func NewTimestampNoTz(t time.Time) Value { return Value{Kind: TimestampNoTzVal, Time: t} }
func NewTimestampTz(t time.Time) Value   { return Value{Kind: TimestampTzVal, Time: t.UTC()} }
func NewUuid(u uuid.UUID) Value          { return Value{Kind: UuidVal, Uuid: u} }
func NewJson(raw json.RawMessage) Value  { return Value{Kind: JsonVal, Json: raw} }

// NewGeoJson builds a geography value from a geometry and its spatial reference
// identifier.
func NewGeoJson(g orb.Geometry, srid uint32) Value {
	return Value{Kind: GeoJsonVal, Geometry: g, Srid: srid}
}

// NewArray builds an array value of elemType, the element type used to cast an empty or
// cast-requiring literal to its declared ARRAY type.
func NewArray(elemType portable.PortableType, elements ...Value) Value {
	return Value{Kind: ArrayVal, Type: portable.NewArray(elemType), Elements: elements}
}

// NewStruct builds a row value of rowType (a portable.Struct type listing the field names,
// in the same order as fields), used to decide whether a named-field row literal needs an
// outer cast and, if so, what to cast it to.
func NewStruct(rowType portable.PortableType, fields ...StructEntry) Value {
	return Value{Kind: StructVal, Type: rowType, Fields: fields}
}

// TypeOf reports the portable type a Value was constructed against, for values that don't
// carry a Null (which has no inherent type of its own).
func (v Value) TypeOf() (portable.PortableType, bool) {
	switch v.Kind {
	case BoolVal:
		return portable.NewBool(), true
	case Int16Val:
		return portable.NewInt16(), true
	case Int32Val:
		return portable.NewInt32(), true
	case Int64Val:
		return portable.NewInt64(), true
	case Float32Val:
		return portable.NewFloat32(), true
	case Float64Val:
		return portable.NewFloat64(), true
	case DecimalVal:
		return portable.NewDecimal(), true
	case TextVal:
		return portable.NewText(), true
	case DateVal:
		return portable.NewDate(), true
	case TimestampNoTzVal:
		return portable.NewTimestampNoTz(), true
	case TimestampTzVal:
		return portable.NewTimestampTz(), true
	case UuidVal:
		return portable.NewUuid(), true
	case JsonVal:
		return portable.NewJson(), true
	case GeoJsonVal:
		return portable.NewGeoJson(v.Srid), true
	case ArrayVal, StructVal:
		return v.Type, true
	default:
		return portable.PortableType{}, false
	}
}

// ToLiteral renders v as a SQL literal expression. Backend is currently informational
// only (trino/postgres/bigquery all share the same literal forms for the kinds dbxform
// supports); it's threaded through so future backend-specific quoting rules have
// somewhere to hook in without changing call sites.
func (v Value) ToLiteral(backend string) (sqlast.Expr, error) {
	return v.toLiteral(backend, false)
}

// toLiteral renders v. nested is true for an element or field of an enclosing Array or
// Struct literal: the enclosing literal's own outer CAST already fixes the element's type,
// so a nested Array or Struct gets no CAST of its own.
func (v Value) toLiteral(backend string, nested bool) (sqlast.Expr, error) {
	switch v.Kind {
	case Null:
		return sqlast.Null(), nil
	case BoolVal:
		return sqlast.Bool(v.Bool), nil
	case Int16Val, Int32Val, Int64Val:
		return sqlast.Int(v.Int), nil
	case Float32Val, Float64Val:
		return sqlast.RawSql(formatFloat(v.Float)), nil
	case DecimalVal:
		digits := v.Decimal.String()
		if v.Decimal.Exponent() < 0 {
			digits = v.Decimal.StringFixed(-v.Decimal.Exponent())
		}
		return sqlast.Cast(sqlast.Str(digits), "DECIMAL"), nil
	case TextVal:
		return sqlast.Str(v.Text), nil
	case DateVal:
		return sqlast.Cast(sqlast.Str(v.Time.Format("2006-01-02")), "DATE"), nil
	case TimestampNoTzVal:
		return sqlast.Cast(sqlast.Str(v.Time.Format("2006-01-02 15:04:05.999999")), "TIMESTAMP"), nil
	case TimestampTzVal:
		return sqlast.Cast(sqlast.Str(v.Time.Format("2006-01-02 15:04:05.999999Z07:00")), "TIMESTAMP WITH TIME ZONE"), nil
	case UuidVal:
		return sqlast.Cast(sqlast.Str(v.Uuid.String()), "UUID"), nil
	case JsonVal:
		return sqlast.Cast(sqlast.Str(string(v.Json)), "JSON"), nil
	case GeoJsonVal:
		fc := geojson.NewGeometry(v.Geometry)
		raw, err := fc.MarshalJSON()
		if err != nil {
			return sqlast.Expr{}, fmt.Errorf("marshaling geometry to geojson: %w", err)
		}
		return sqlast.Cast(sqlast.Str(string(raw)), "SphericalGeography"), nil
	case ArrayVal:
		elems := make([]sqlast.Expr, len(v.Elements))
		for i, e := range v.Elements {
			lit, err := e.toLiteral(backend, true)
			if err != nil {
				return sqlast.Expr{}, err
			}
			elems[i] = lit
		}
		lit := sqlast.Array(elems...)
		if nested || !v.requiresCast() {
			return lit, nil
		}
		typeText, err := portableTypeText(v.Type)
		if err != nil {
			return sqlast.Expr{}, err
		}
		return sqlast.Cast(lit, typeText), nil
	case StructVal:
		args := make([]sqlast.Expr, len(v.Fields))
		for i, f := range v.Fields {
			lit, err := f.Value.toLiteral(backend, true)
			if err != nil {
				return sqlast.Expr{}, err
			}
			args[i] = lit
		}
		lit := sqlast.Func("ROW", args...)
		if nested || !v.requiresCast() {
			return lit, nil
		}
		typeText, err := portableTypeText(v.Type)
		if err != nil {
			return sqlast.Expr{}, err
		}
		return sqlast.Cast(lit, typeText), nil
	default:
		return sqlast.Expr{}, fmt.Errorf("value: unknown kind %d", v.Kind)
	}
}

// requiresCast reports whether v's literal rendering needs an outer CAST to disambiguate
// its type, per spec.md §4.G: an Array needs one if it's empty or any element needs one; a
// Row needs one if it has any named field or any element needs one. Every other kind
// renders unambiguously on its own.
func (v Value) requiresCast() bool {
	switch v.Kind {
	case ArrayVal:
		if len(v.Elements) == 0 {
			return true
		}
		for _, e := range v.Elements {
			if e.requiresCast() {
				return true
			}
		}
		return false
	case StructVal:
		if hasNamedField(v.Type) {
			return true
		}
		for _, f := range v.Fields {
			if f.Value.requiresCast() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func hasNamedField(rowType portable.PortableType) bool {
	for _, f := range rowType.Fields {
		if f.Name != "" {
			return true
		}
	}
	return false
}

// portableTypeText renders t as the SQL type-name text used in an outer CAST, in the same
// canonical spelling dialect/trino's printer uses for ARRAY/ROW (§6.2): "ARRAY(<elem>)" and
// "ROW(name type, …)". All three backends share these literal-cast forms (see ToLiteral's
// doc comment), so there's a single renderer rather than one per backend.
func portableTypeText(t portable.PortableType) (string, error) {
	switch t.Kind {
	case portable.Bool:
		return "BOOLEAN", nil
	case portable.Int16:
		return "SMALLINT", nil
	case portable.Int32:
		return "INTEGER", nil
	case portable.Int64:
		return "BIGINT", nil
	case portable.Float32:
		return "REAL", nil
	case portable.Float64:
		return "DOUBLE", nil
	case portable.Decimal:
		return "DECIMAL", nil
	case portable.Text:
		return "VARCHAR", nil
	case portable.Date:
		return "DATE", nil
	case portable.TimestampNoTz:
		return "TIMESTAMP", nil
	case portable.TimestampTz:
		return "TIMESTAMP WITH TIME ZONE", nil
	case portable.Uuid:
		return "UUID", nil
	case portable.Json:
		return "JSON", nil
	case portable.GeoJson:
		return "SphericalGeography", nil
	case portable.Array:
		elem, err := portableTypeText(*t.Element)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ARRAY(%s)", elem), nil
	case portable.Struct:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := portableTypeText(f.Type)
			if err != nil {
				return "", err
			}
			if f.Name != "" {
				fields[i] = fmt.Sprintf("%s %s", f.Name, ft)
			} else {
				fields[i] = ft
			}
		}
		return fmt.Sprintf("ROW(%s)", strings.Join(fields, ", ")), nil
	default:
		return "", fmt.Errorf("value: cannot render cast type for kind %s", t.Kind)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "CAST('NaN' AS DOUBLE)"
	}
	if math.IsInf(f, 1) {
		return "CAST('Infinity' AS DOUBLE)"
	}
	if math.IsInf(f, -1) {
		return "CAST('-Infinity' AS DOUBLE)"
	}
	return fmt.Sprintf("%v", f)
}

// floatULPTolerance bounds the relative error CloseEnoughTo accepts between two floats,
// generous enough to absorb a float32->float64 round trip but tight enough to still catch
// a genuinely wrong value.
const floatULPTolerance = 1e-6

// CloseEnoughTo compares a and b the way dbxform's property tests and integration tests
// do: exact equality for discrete kinds, tolerance-based equality for floats, label-order
// independence for JSON object keys, and geometry equivalence that ignores GeoJSON vs. WKT
// serialization choices, per spec.md §4.G / §8 property 6.
func (a Value) CloseEnoughTo(b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case BoolVal:
		return a.Bool == b.Bool
	case Int16Val, Int32Val, Int64Val:
		return a.Int == b.Int
	case Float32Val, Float64Val:
		return closeFloat(a.Float, b.Float)
	case DecimalVal:
		return a.Decimal.Equal(b.Decimal)
	case TextVal:
		return a.Text == b.Text
	case DateVal:
		return a.Time.Format("2006-01-02") == b.Time.Format("2006-01-02")
	case TimestampNoTzVal, TimestampTzVal:
		return a.Time.Truncate(time.Microsecond).Equal(b.Time.Truncate(time.Microsecond))
	case UuidVal:
		return a.Uuid == b.Uuid
	case JsonVal:
		return jsonCloseEnough(a.Json, b.Json)
	case GeoJsonVal:
		return a.Srid == b.Srid && geometryCloseEnough(a.Geometry, b.Geometry)
	case ArrayVal:
		if len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !a.Elements[i].CloseEnoughTo(b.Elements[i]) {
				return false
			}
		}
		return true
	case StructVal:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !a.Fields[i].Value.CloseEnoughTo(b.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func closeFloat(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff <= largest*floatULPTolerance
}

func jsonCloseEnough(a, b json.RawMessage) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return bytesEqualTrim(a, b)
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return bytesEqualTrim(a, b)
	}
	return deepEqualJSON(av, bv)
}

func bytesEqualTrim(a, b json.RawMessage) bool {
	return string(a) == string(b)
}

func deepEqualJSON(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqualJSON(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqualJSON(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64:
		bv, ok := b.(float64)
		return ok && closeFloat(av, bv)
	default:
		return a == b
	}
}

// geometryCloseEnough compares geometries with orb.Equal on orb's in-memory
// representation, so it does not matter whether the value arrived as GeoJSON or as
// WKT/EWKB before being parsed.
func geometryCloseEnough(a, b orb.Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return orb.Equal(a, b)
}
