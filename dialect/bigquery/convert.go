package bigquery

import (
	"github.com/stokaro/dbxform/dbxerrors"
	"github.com/stokaro/dbxform/portable"
)

// FromPortable converts a portable type to BigQuery's representation under the given
// Usage. For UsageCsvLoad, Array(T) becomes a plain String (the CSV loader receives the
// array pre-serialized as JSON text and a later UDF step parses it into the real ARRAY<T>
// column at final-insert time); every other usage keeps the array shape, with a hard error
// if the element is Json (BigQuery cannot represent ARRAY<JSON> at all yet).
func FromPortable(schema *portable.Schema, t portable.PortableType, usage Usage) (DataType, error) {
	if t.Kind == portable.Array {
		if usage == UsageCsvLoad {
			return NewNonArray(NewString()), nil
		}
		if t.Element.Kind == portable.Json {
			return DataType{}, &dbxerrors.UnsupportedType{
				Backend: "bigquery",
				Type:    t.String(),
				Reason:  "cannot represent arrays of JSON in BigQuery yet",
			}
		}
		elem, err := nonArrayFromPortable(schema, *t.Element, usage)
		if err != nil {
			return DataType{}, err
		}
		return NewArray(elem), nil
	}
	elem, err := nonArrayFromPortable(schema, t, usage)
	if err != nil {
		return DataType{}, err
	}
	return NewNonArray(elem), nil
}

func nonArrayFromPortable(schema *portable.Schema, t portable.PortableType, usage Usage) (NonArrayDataType, error) {
	switch t.Kind {
	case portable.Bool:
		return NewBool(), nil
	case portable.Int16, portable.Int32, portable.Int64:
		return NewInt64(), nil
	case portable.Float32, portable.Float64:
		return NewFloat64(), nil
	case portable.Decimal:
		return NewNumeric(), nil
	case portable.Text:
		return NewString(), nil
	case portable.Date:
		return NewDate(), nil
	case portable.TimestampNoTz:
		return NewDatetime(), nil
	case portable.TimestampTz:
		return NewTimestamp(), nil
	case portable.Uuid:
		return NewStringified(t), nil
	case portable.Json:
		return NewStringified(t), nil
	case portable.GeoJson:
		if t.Srid == 4326 {
			return NewGeography(), nil
		}
		return NewStringified(t), nil
	case portable.Struct:
		// CSV loads collapse a nested STRUCT to a plain string column, the same treatment
		// Array gets in FromPortable, because BigQuery's CSV loader cannot ingest a nested
		// STRUCT either.
		if usage == UsageCsvLoad {
			return NewString(), nil
		}
		fields := make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := nonArrayFromPortable(schema, f.Type, usage)
			if err != nil {
				return NonArrayDataType{}, err
			}
			fields[i] = StructField{Name: f.Name, Type: ft}
		}
		return NewStruct(fields...), nil
	case portable.OneOf:
		return NewString(), nil
	case portable.Named:
		resolved, err := schema.Resolve(t.Name)
		if err != nil {
			return NonArrayDataType{}, err
		}
		return nonArrayFromPortable(schema, resolved, usage)
	default:
		return NonArrayDataType{}, &dbxerrors.UnsupportedType{Backend: "bigquery", Type: t.String()}
	}
}

// ToPortable converts a BigQuery native type back to its portable equivalent.
func ToPortable(t DataType) (portable.PortableType, error) {
	elem, err := nonArrayToPortable(t.Elem)
	if err != nil {
		return portable.PortableType{}, err
	}
	if t.IsArray {
		return portable.NewArray(elem), nil
	}
	return elem, nil
}

func nonArrayToPortable(t NonArrayDataType) (portable.PortableType, error) {
	switch t.Kind {
	case Bool:
		return portable.NewBool(), nil
	case Bytes:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "bigquery", Type: "BYTES", Reason: "no portable byte-string type"}
	case Date:
		return portable.NewDate(), nil
	case Datetime:
		return portable.NewTimestampNoTz(), nil
	case Float64:
		return portable.NewFloat64(), nil
	case Geography:
		return portable.NewGeoJson(4326), nil
	case Int64:
		return portable.NewInt64(), nil
	case Numeric:
		return portable.NewDecimal(), nil
	case String:
		return portable.NewText(), nil
	case Stringified:
		return t.Of, nil
	case Time:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "bigquery", Type: "TIME", Reason: "no portable time-of-day type"}
	case Timestamp:
		return portable.NewTimestampTz(), nil
	case StructKind:
		fields := make([]portable.StructField, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := nonArrayToPortable(f.Type)
			if err != nil {
				return portable.PortableType{}, err
			}
			fields[i] = portable.StructField{Name: f.Name, Nullable: true, Type: ft}
		}
		return portable.NewStruct(fields...), nil
	default:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "bigquery", Type: t.String()}
	}
}
