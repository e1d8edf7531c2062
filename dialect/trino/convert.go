package trino

import (
	"fmt"

	"github.com/stokaro/dbxform/dbxerrors"
	"github.com/stokaro/dbxform/portable"
)

// FromPortable converts a portable type to its Trino representation. This direction is
// total for every portable kind that Trino can widen into (spec.md §3.2's invariant),
// failing only for Named types that resolve to something other than an enum (OneOf),
// which is the same restriction the PostgreSQL dialect applies.
func FromPortable(schema *portable.Schema, t portable.PortableType) (DataType, error) {
	switch t.Kind {
	case portable.Bool:
		return NewBoolean(), nil
	case portable.Int16:
		return NewSmallInt(), nil
	case portable.Int32:
		return NewInt(), nil
	case portable.Int64:
		return NewBigInt(), nil
	case portable.Float32:
		return NewReal(), nil
	case portable.Float64:
		return NewDouble(), nil
	case portable.Decimal:
		return NewDecimal(38, 9), nil
	case portable.Text:
		return NewVarchar(), nil
	case portable.Date:
		return NewDate(), nil
	case portable.TimestampNoTz:
		return DefaultTimestamp(), nil
	case portable.TimestampTz:
		return DefaultTimestampWithTimeZone(), nil
	case portable.Uuid:
		return NewUuid(), nil
	case portable.Json:
		return NewJson(), nil
	case portable.GeoJson:
		return NewSphericalGeography(), nil
	case portable.Array:
		elem, err := FromPortable(schema, *t.Element)
		if err != nil {
			return DataType{}, err
		}
		return NewArray(elem), nil
	case portable.Struct:
		fields := make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := FromPortable(schema, f.Type)
			if err != nil {
				return DataType{}, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		return NewRow(fields...), nil
	case portable.OneOf:
		return NewVarchar(), nil
	case portable.Named:
		resolved, err := schema.Resolve(t.Name)
		if err != nil {
			return DataType{}, err
		}
		if resolved.Kind != portable.OneOf {
			return DataType{}, &dbxerrors.UnsupportedType{
				Backend: "trino",
				Type:    t.String(),
				Reason:  "named types must resolve to an enum (one_of)",
			}
		}
		return NewVarchar(), nil
	default:
		return DataType{}, &dbxerrors.UnsupportedType{Backend: "trino", Type: t.String()}
	}
}

// ToPortable converts a Trino native type back to its portable equivalent. Precision
// information on Timestamp/TimestampWithTimeZone/Decimal is necessarily lost, which is the
// documented, allowed kind of lossiness spec.md §3.2 calls out. TIME and VARBINARY have no
// portable equivalent and are rejected with dbxerrors.UnsupportedType.
func ToPortable(t DataType) (portable.PortableType, error) {
	switch t.Kind {
	case Boolean:
		return portable.NewBool(), nil
	case TinyInt, SmallInt:
		return portable.NewInt16(), nil
	case Int:
		return portable.NewInt32(), nil
	case BigInt:
		return portable.NewInt64(), nil
	case Real:
		return portable.NewFloat32(), nil
	case Double:
		return portable.NewFloat64(), nil
	case DecimalKind:
		return portable.NewDecimal(), nil
	case Varchar:
		return portable.NewText(), nil
	case Varbinary:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "trino", Type: "VARBINARY", Reason: "no portable byte-string type"}
	case Json:
		return portable.NewJson(), nil
	case Date:
		return portable.NewDate(), nil
	case Time:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "trino", Type: "TIME", Reason: "no portable time-of-day type"}
	case Timestamp:
		return portable.NewTimestampNoTz(), nil
	case TimestampWithTimeZone:
		return portable.NewTimestampTz(), nil
	case Uuid:
		return portable.NewUuid(), nil
	case SphericalGeography:
		return portable.NewGeoJson(4326), nil
	case ArrayKind:
		elem, err := ToPortable(*t.Element)
		if err != nil {
			return portable.PortableType{}, err
		}
		return portable.NewArray(elem), nil
	case Row:
		fields := make([]portable.StructField, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := ToPortable(f.Type)
			if err != nil {
				return portable.PortableType{}, err
			}
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("_%d", i+1)
			}
			fields[i] = portable.StructField{Name: name, Nullable: true, Type: ft}
		}
		return portable.NewStruct(fields...), nil
	default:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "trino", Type: t.String()}
	}
}
