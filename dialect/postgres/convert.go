package postgres

import (
	"github.com/stokaro/dbxform/dbxerrors"
	"github.com/stokaro/dbxform/portable"
)

// FromPortable converts a portable type into the PostgreSQL type that stores it, counting
// array dimensions the way PostgreSQL's own catalog does rather than nesting DataType
// values, per postgres_shared/data_type.rs's from_data_type.
func FromPortable(schema *portable.Schema, t portable.PortableType, flavor Flavor) (DataType, error) {
	dims := 0
	cur := t
	for cur.Kind == portable.Array {
		dims++
		cur = *cur.Element
	}
	scalar, err := scalarFromPortable(schema, cur, flavor)
	if err != nil {
		return DataType{}, err
	}
	return DataType{DimensionCount: dims, Scalar: scalar}, nil
}

func scalarFromPortable(schema *portable.Schema, t portable.PortableType, flavor Flavor) (Scalar, error) {
	switch t.Kind {
	case portable.Bool:
		return NewBoolean(), nil
	case portable.Date:
		return NewDate(), nil
	case portable.Decimal:
		return NewNumeric(), nil
	case portable.Float32:
		return NewReal(), nil
	case portable.Float64:
		return NewDoublePrecision(), nil
	case portable.GeoJson:
		return NewGeometry(t.Srid), nil
	case portable.Int16:
		return NewSmallint(), nil
	case portable.Int32:
		return NewInt(), nil
	case portable.Int64:
		return NewBigint(), nil
	case portable.Json:
		return NewJsonb(), nil
	case portable.Struct:
		return NewJsonb(), nil
	case portable.Text:
		if flavor == FlavorRedshift {
			return Scalar{Kind: Text}, nil // StringFlavor handles the varchar(max) spelling
		}
		return NewText(), nil
	case portable.TimestampNoTz:
		return NewTimestampNoTz(), nil
	case portable.TimestampTz:
		return NewTimestampTz(), nil
	case portable.Uuid:
		return NewUuid(), nil
	case portable.Named:
		resolved, err := schema.Resolve(t.Name)
		if err != nil {
			return Scalar{}, err
		}
		if resolved.Kind != portable.OneOf {
			return Scalar{}, &dbxerrors.UnsupportedType{
				Backend: "postgres",
				Type:    t.String(),
				Reason:  "cannot convert named type to PostgreSQL unless it resolves to an enum",
			}
		}
		return NewNamed(t.Name), nil
	case portable.OneOf:
		return Scalar{}, &dbxerrors.UnsupportedType{
			Backend: "postgres",
			Type:    t.String(),
			Reason:  "cannot convert an anonymous enum to PostgreSQL; try making it a named type",
		}
	default:
		return Scalar{}, &dbxerrors.UnsupportedType{Backend: "postgres", Type: t.String()}
	}
}

// ToPortable converts a PostgreSQL DataType back to its portable equivalent.
func ToPortable(t DataType) (portable.PortableType, error) {
	built, err := scalarToPortable(t.Scalar)
	if err != nil {
		return portable.PortableType{}, err
	}
	for i := 0; i < t.DimensionCount; i++ {
		built = portable.NewArray(built)
	}
	return built, nil
}

func scalarToPortable(s Scalar) (portable.PortableType, error) {
	switch s.Kind {
	case Boolean:
		return portable.NewBool(), nil
	case Date:
		return portable.NewDate(), nil
	case Numeric:
		return portable.NewDecimal(), nil
	case Real:
		return portable.NewFloat32(), nil
	case DoublePrecision:
		return portable.NewFloat64(), nil
	case Geometry:
		return portable.NewGeoJson(s.Srid), nil
	case Smallint:
		return portable.NewInt16(), nil
	case Int:
		return portable.NewInt32(), nil
	case Bigint:
		return portable.NewInt64(), nil
	case Json, Jsonb:
		return portable.NewJson(), nil
	case Named:
		return portable.NewNamed(s.Name), nil
	case Text:
		return portable.NewText(), nil
	case TimestampWithoutTimeZone:
		return portable.NewTimestampNoTz(), nil
	case TimestampWithTimeZone:
		return portable.NewTimestampTz(), nil
	case Uuid:
		return portable.NewUuid(), nil
	default:
		return portable.PortableType{}, &dbxerrors.UnsupportedType{Backend: "postgres", Type: s.String()}
	}
}
