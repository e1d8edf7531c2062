// Package bigquery implements BigQuery's native type sum, including the Usage split
// (CsvLoad vs FinalTable) and the Stringified marker that records a STRING column whose
// contents are semantically a different portable type.
//
// Grounded on _examples/original_source/dbcrossbarlib/src/drivers/bigquery_shared/
// data_type.rs: the Array(NonArray)/NonArray(NonArray) split (BigQuery forbids directly
// nested arrays), the Usage-dependent for_data_type conversion, and
// bigquery_can_import_from_csv.
package bigquery

import (
	"fmt"

	"github.com/stokaro/dbxform/portable"
)

// Usage distinguishes "this type is being used to describe a CSV load" from "this type
// describes the final persisted table," because BigQuery's CSV loader and its SQL engine
// disagree about which types can be ingested directly.
type Usage int

const (
	UsageCsvLoad Usage = iota
	UsageFinalTable
)

// NonArrayKind discriminates BigQuery's scalar and STRUCT types (anything legal as an
// array element).
type NonArrayKind int

const (
	Bool NonArrayKind = iota
	Bytes
	Date
	Datetime
	Float64
	Geography
	Int64
	Numeric
	String
	StructKind
	Time
	Timestamp
	// Stringified marks a STRING column whose contents are semantically the full portable
	// type carried in Of, e.g. a JSON document, a UUID, or GeoJSON with a non-WGS84 SRID
	// that BigQuery's native GEOGRAPHY type cannot represent.
	Stringified
)

// StructField is one field of a BigQuery STRUCT.
type StructField struct {
	Name string
	Type NonArrayDataType
}

// NonArrayDataType is any BigQuery type legal as an array element.
type NonArrayDataType struct {
	Kind NonArrayKind

	// Numeric has fixed BigQuery-wide precision/scale (38, 9); no payload needed.

	// StructKind
	Fields []StructField

	// Stringified carries the original portable type the STRING column actually holds, so
	// that converting back to portable recovers it exactly (e.g. a GeoJson's SRID) instead
	// of losing it to a bare tag.
	Of portable.PortableType
}

func NewBool() NonArrayDataType      { return NonArrayDataType{Kind: Bool} }
func NewBytes() NonArrayDataType     { return NonArrayDataType{Kind: Bytes} }
func NewDate() NonArrayDataType      { return NonArrayDataType{Kind: Date} }
func NewDatetime() NonArrayDataType  { return NonArrayDataType{Kind: Datetime} }
func NewFloat64() NonArrayDataType   { return NonArrayDataType{Kind: Float64} }
func NewGeography() NonArrayDataType { return NonArrayDataType{Kind: Geography} }
func NewInt64() NonArrayDataType     { return NonArrayDataType{Kind: Int64} }
func NewNumeric() NonArrayDataType   { return NonArrayDataType{Kind: Numeric} }
func NewString() NonArrayDataType    { return NonArrayDataType{Kind: String} }
func NewTime() NonArrayDataType      { return NonArrayDataType{Kind: Time} }
func NewTimestamp() NonArrayDataType { return NonArrayDataType{Kind: Timestamp} }

func NewStruct(fields ...StructField) NonArrayDataType {
	return NonArrayDataType{Kind: StructKind, Fields: fields}
}

// NewStringified marks a STRING column as semantically holding of, the original portable
// type it was derived from.
func NewStringified(of portable.PortableType) NonArrayDataType {
	return NonArrayDataType{Kind: Stringified, Of: of}
}

func (t NonArrayDataType) String() string {
	switch t.Kind {
	case Bool:
		return "BOOL"
	case Bytes:
		return "BYTES"
	case Date:
		return "DATE"
	case Datetime:
		return "DATETIME"
	case Float64:
		return "FLOAT64"
	case Geography:
		return "GEOGRAPHY"
	case Int64:
		return "INT64"
	case Numeric:
		return "NUMERIC"
	case String, Stringified:
		return "STRING"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case StructKind:
		s := "STRUCT<"
		for i, f := range t.Fields {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s %s", f.Name, f.Type.String())
		}
		return s + ">"
	default:
		return fmt.Sprintf("NonArrayDataType(%d)", int(t.Kind))
	}
}

// DataType is a full BigQuery column type: either an array of a non-array element, or a
// bare non-array type. BigQuery disallows directly-nested arrays, so there is no
// Array(Array(...)) case to represent.
type DataType struct {
	IsArray bool
	Elem    NonArrayDataType
}

func NewArray(elem NonArrayDataType) DataType { return DataType{IsArray: true, Elem: elem} }
func NewNonArray(t NonArrayDataType) DataType { return DataType{Elem: t} }

func (t DataType) String() string {
	if t.IsArray {
		return fmt.Sprintf("ARRAY<%s>", t.Elem.String())
	}
	return t.Elem.String()
}

// CanImportFromCsv reports whether BigQuery's native CSV loader can ingest this type
// directly. Arrays and STRUCTs do not qualify: FromPortable loads them as a STRING column
// under UsageCsvLoad instead. Every other type, Stringified included, does.
func (t DataType) CanImportFromCsv() bool {
	return !t.IsArray && t.Elem.Kind != StructKind
}
