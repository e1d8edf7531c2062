// Package transform implements the storage-transform planner: given a Trino connector and
// a native Trino type, it derives the storage type actually written to disk plus the pair
// of SQL expression recipes needed to move a value between its original type and that
// storage type.
//
// Grounded verbatim on _examples/original_source/crates/dbcrossbar_trino/src/transforms.rs
// for every TypeTransform variant, the simplify-on-construction rules, the
// requires-cast-on-store/load predicates, and the store/load expression templates
// (including the bind_var ROW idiom); the per-connector rule table is grounded on
// _examples/original_source/crates/dbcrossbar_trino/src/connectors.rs's
// storage_transform_for.
package transform

import (
	"fmt"

	"github.com/stokaro/dbxform/connector"
	"github.com/stokaro/dbxform/dialect/trino"
	"github.com/stokaro/dbxform/sqlast"
)

// Kind discriminates the TypeTransform variant.
type Kind int

const (
	Identity Kind = iota
	JsonAsVarchar
	UuidAsVarchar
	GeographyAsWkt
	SmallIntAsInt
	TimeAsVarchar
	TimestampTzAsTimestamp
	TimeWithPrecision
	TimestampWithPrecision
	TimestampTzWithPrecision
	ArrayTransform
	RowTransform
)

// FieldName identifies one field of a Row transform: either a name drawn from the
// original Row type, or a 1-based positional index for an anonymous field.
type FieldName struct {
	Name    string // empty means positional
	Index1  int    // only meaningful when Name == ""
}

func NamedField(name string) FieldName { return FieldName{Name: name} }
func IndexedField(i int) FieldName     { return FieldName{Index1: i} }

func (f FieldName) String() string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("_%d", f.Index1)
}

// refExpr builds the field-access expression for referencing f on bound variable z, using
// "." access for named fields and 1-based subscripting for positional ones, per spec.md
// §4.D.
func (f FieldName) refExpr(z sqlast.Expr) sqlast.Expr {
	if f.Name != "" {
		return sqlast.Field(z, f.Name)
	}
	return sqlast.Index(z, sqlast.Int(int64(f.Index1)))
}

// FieldTransform pairs one Row field with the transform applied to it and the field's
// original (pre-transform) type, needed to compute that field's own storage type when it
// requires its own inner CAST.
type FieldTransform struct {
	Field        FieldName
	Transform    TypeTransform
	OriginalType trino.DataType
}

// TypeTransform is the recursive tag describing how a value must be rewritten to move
// between its original type and its storage type. Only the field(s) relevant to Kind are
// meaningful.
type TypeTransform struct {
	Kind Kind

	// TimeWithPrecision, TimestampWithPrecision, TimestampTzWithPrecision,
	// TimestampTzAsTimestamp
	StoredPrecision int

	// ArrayTransform
	Element         *TypeTransform
	ElementOriginal *trino.DataType

	// RowTransform
	NameAnonymousFields bool
	FieldTransforms     []FieldTransform
}

func NewIdentity() TypeTransform { return TypeTransform{Kind: Identity} }

// IsIdentity reports whether tt performs no rewriting at all.
func (tt TypeTransform) IsIdentity() bool { return tt.Kind == Identity }

// simplifyTopLevel collapses an Array or Row transform down to Identity when none of its
// children actually need rewriting, keeping generated SQL readable (spec.md §3.4).
func simplifyTopLevel(tt TypeTransform) TypeTransform {
	switch tt.Kind {
	case ArrayTransform:
		if tt.Element.IsIdentity() {
			return NewIdentity()
		}
		return tt
	case RowTransform:
		for _, ft := range tt.FieldTransforms {
			if !ft.Transform.IsIdentity() || (tt.NameAnonymousFields && ft.Field.Name == "") {
				return tt
			}
		}
		return NewIdentity()
	default:
		return tt
	}
}

// StorageTransform is the planner's output for a single (connector, original type) pair:
// the original type, the storage type actually written to disk, and the transform that
// moves values between them.
type StorageTransform struct {
	OriginalType trino.DataType
	StorageType  trino.DataType
	Transform    TypeTransform
}

// requiresCastOnStore reports whether the generated store expression must be wrapped in an
// outer CAST(expr AS StorageType) because the transform narrows or reparameterizes the
// type (spec.md §4.D's outer-cast policy).
func requiresCastOnStore(tt TypeTransform) bool {
	switch tt.Kind {
	case Identity, JsonAsVarchar, GeographyAsWkt, SmallIntAsInt:
		// SmallIntAsInt needs no store-side cast: widening smallint -> int is always
		// implicit.
		return false
	case UuidAsVarchar, TimeAsVarchar, TimeWithPrecision, TimestampWithPrecision, TimestampTzWithPrecision, TimestampTzAsTimestamp:
		return true
	case ArrayTransform:
		return false
	case RowTransform:
		return true
	default:
		return false
	}
}

// requiresCastOnLoad is the load-direction analogue of requiresCastOnStore. Narrowing
// conversions (int -> smallint, varchar -> uuid/time) need an explicit cast back to the
// original type; widening ones and transforms whose load template already embeds its own
// cast (TimestampTzAsTimestamp's AT TIME ZONE already returns a timestamptz value,
// GeographyAsWkt's UDFs return the right type already) do not.
func requiresCastOnLoad(tt TypeTransform) bool {
	switch tt.Kind {
	case UuidAsVarchar, SmallIntAsInt, TimeAsVarchar, TimeWithPrecision, TimestampWithPrecision, TimestampTzWithPrecision:
		return true
	case Identity, JsonAsVarchar, GeographyAsWkt, TimestampTzAsTimestamp:
		return false
	case ArrayTransform:
		return false
	case RowTransform:
		return true
	default:
		return false
	}
}

// StorageTypeFor derives the storage type written to disk for a given original type and
// transform, asserting (in the Rust original, via panic!) that the transform's shape
// actually matches the original type's shape; here mismatches return an error instead of
// panicking, since transform is only ever called internally with matched pairs produced
// by Plan itself.
func StorageTypeFor(original trino.DataType, tt TypeTransform) (trino.DataType, error) {
	switch tt.Kind {
	case Identity:
		return original, nil
	case JsonAsVarchar, UuidAsVarchar, TimeAsVarchar:
		return trino.NewVarchar(), nil
	case GeographyAsWkt:
		return trino.NewVarchar(), nil
	case SmallIntAsInt:
		return trino.NewInt(), nil
	case TimeWithPrecision:
		return trino.NewTime(tt.StoredPrecision), nil
	case TimestampWithPrecision:
		return trino.NewTimestamp(tt.StoredPrecision), nil
	case TimestampTzWithPrecision:
		return trino.NewTimestampWithTimeZone(tt.StoredPrecision), nil
	case TimestampTzAsTimestamp:
		return trino.NewTimestamp(tt.StoredPrecision), nil
	case ArrayTransform:
		if original.Kind != trino.ArrayKind {
			return trino.DataType{}, fmt.Errorf("array transform applied to non-array type %s", original)
		}
		elemStorage, err := StorageTypeFor(*original.Element, *tt.Element)
		if err != nil {
			return trino.DataType{}, err
		}
		return trino.NewArray(elemStorage), nil
	case RowTransform:
		if original.Kind != trino.Row {
			return trino.DataType{}, fmt.Errorf("row transform applied to non-row type %s", original)
		}
		if len(original.Fields) != len(tt.FieldTransforms) {
			return trino.DataType{}, fmt.Errorf("row transform field count mismatch")
		}
		fields := make([]trino.Field, len(original.Fields))
		for i, of := range original.Fields {
			ft := tt.FieldTransforms[i]
			storageType, err := StorageTypeFor(of.Type, ft.Transform)
			if err != nil {
				return trino.DataType{}, err
			}
			name := of.Name
			if tt.NameAnonymousFields && name == "" {
				name = ft.Field.String()
			}
			fields[i] = trino.Field{Name: name, Type: storageType}
		}
		return trino.NewRow(fields...), nil
	default:
		return trino.DataType{}, fmt.Errorf("unknown transform kind %d", tt.Kind)
	}
}

// New builds a StorageTransform from an original type and transform tag, computing the
// derived storage type.
func New(original trino.DataType, tt TypeTransform) (StorageTransform, error) {
	storageType, err := StorageTypeFor(original, tt)
	if err != nil {
		return StorageTransform{}, err
	}
	return StorageTransform{OriginalType: original, StorageType: storageType, Transform: tt}, nil
}

// StoreExpr builds the expression that converts x (a value of OriginalType) into a value
// of StorageType, applying the transform's store template and, when required, wrapping it
// in an outer CAST to the storage type. The same wrapping is applied recursively to Array
// elements and Row fields that individually require their own cast.
func (s StorageTransform) StoreExpr(x sqlast.Expr) sqlast.Expr {
	return storeExprFor(s.Transform, s.OriginalType, x)
}

// LoadExpr builds the expression that converts y (a value of StorageType, as read back
// from storage) into a value of OriginalType, with the same recursive per-element and
// per-field casts (e.g. CAST(z[2] AS SMALLINT) for the SmallInt field of S3's anonymous
// row).
func (s StorageTransform) LoadExpr(y sqlast.Expr) sqlast.Expr {
	return loadExprFor(s.Transform, s.OriginalType, y)
}

// storeExprFor is the general recursive store-direction builder: it renders tt's template
// over x and wraps the result in an outer CAST to tt's storage type whenever
// requiresCastOnStore says so. original is tt's pre-transform type, needed only to compute
// that cast's target type.
func storeExprFor(tt TypeTransform, original trino.DataType, x sqlast.Expr) sqlast.Expr {
	inner := storeTransformExpr(tt, x)
	if requiresCastOnStore(tt) {
		storageType, err := StorageTypeFor(original, tt)
		if err == nil {
			return sqlast.Cast(inner, storageType.String())
		}
	}
	return inner
}

func loadExprFor(tt TypeTransform, original trino.DataType, y sqlast.Expr) sqlast.Expr {
	inner := loadTransformExpr(tt, y)
	if requiresCastOnLoad(tt) {
		return sqlast.Cast(inner, original.String())
	}
	return inner
}

func storeTransformExpr(tt TypeTransform, x sqlast.Expr) sqlast.Expr {
	switch tt.Kind {
	case Identity, UuidAsVarchar, SmallIntAsInt, TimeWithPrecision, TimestampWithPrecision, TimestampTzWithPrecision:
		// These rely entirely on the outer cast (if any); the inner expression is x
		// itself.
		return x
	case JsonAsVarchar:
		return sqlast.Func("JSON_FORMAT", x)
	case GeographyAsWkt:
		return sqlast.Func("ST_AsText", sqlast.Func("to_geometry", x))
	case TimeAsVarchar:
		return x
	case TimestampTzAsTimestamp:
		return sqlast.AtTimeZone(x, "+00:00")
	case ArrayTransform:
		y := sqlast.Var("y")
		return sqlast.Func("TRANSFORM", x, sqlast.Lambda("y", storeExprFor(*tt.Element, *tt.ElementOriginal, y)))
	case RowTransform:
		z := sqlast.Var("z")
		fields := make([]sqlast.Expr, len(tt.FieldTransforms))
		for i, ft := range tt.FieldTransforms {
			fields[i] = storeExprFor(ft.Transform, ft.OriginalType, ft.Field.refExpr(z))
		}
		return sqlast.BindVar(x, "z", sqlast.Func("ROW", fields...))
	default:
		return x
	}
}

func loadTransformExpr(tt TypeTransform, y sqlast.Expr) sqlast.Expr {
	switch tt.Kind {
	case Identity, SmallIntAsInt, TimeWithPrecision, TimestampWithPrecision, TimestampTzWithPrecision:
		return y
	case JsonAsVarchar:
		return sqlast.Func("JSON_PARSE", y)
	case UuidAsVarchar:
		return y
	case GeographyAsWkt:
		return sqlast.Func("to_spherical_geography", sqlast.Func("ST_GeometryFromText", y))
	case TimeAsVarchar:
		return y
	case TimestampTzAsTimestamp:
		return sqlast.AtTimeZone(y, "+00:00")
	case ArrayTransform:
		w := sqlast.Var("w")
		return sqlast.Func("TRANSFORM", y, sqlast.Lambda("w", loadExprFor(*tt.Element, *tt.ElementOriginal, w)))
	case RowTransform:
		z := sqlast.Var("z")
		fields := make([]sqlast.Expr, len(tt.FieldTransforms))
		for i, ft := range tt.FieldTransforms {
			fields[i] = loadExprFor(ft.Transform, ft.OriginalType, ft.Field.refExpr(z))
		}
		return sqlast.BindVar(y, "z", sqlast.Func("ROW", fields...))
	default:
		return y
	}
}

// Plan computes the StorageTransform for a (connector, original type) pair, matching
// spec.md §4.D's rule table verbatim for Hive and Iceberg and falling back to Identity for
// any type the connector already represents natively (including, always, Memory, which
// spec.md and the original source never restrict).
func Plan(conn connector.Type, original trino.DataType) (StorageTransform, error) {
	tt, err := planTag(conn, original)
	if err != nil {
		return StorageTransform{}, err
	}
	return New(original, tt)
}

func planTag(conn connector.Type, t trino.DataType) (TypeTransform, error) {
	switch t.Kind {
	case trino.ArrayKind:
		inner, err := planTag(conn, *t.Element)
		if err != nil {
			return TypeTransform{}, err
		}
		elemOriginal := *t.Element
		return simplifyTopLevel(TypeTransform{Kind: ArrayTransform, Element: &inner, ElementOriginal: &elemOriginal}), nil
	case trino.Row:
		fieldTransforms := make([]FieldTransform, len(t.Fields))
		for i, f := range t.Fields {
			inner, err := planTag(conn, f.Type)
			if err != nil {
				return TypeTransform{}, err
			}
			var fn FieldName
			if f.Name != "" {
				fn = NamedField(f.Name)
			} else {
				fn = IndexedField(i + 1)
			}
			fieldTransforms[i] = FieldTransform{Field: fn, Transform: inner, OriginalType: f.Type}
		}
		return simplifyTopLevel(TypeTransform{
			Kind:                RowTransform,
			NameAnonymousFields: !conn.SupportsAnonymousRowFields(),
			FieldTransforms:     fieldTransforms,
		}), nil
	}

	switch conn {
	case connector.Iceberg:
		switch t.Kind {
		case trino.TinyInt, trino.SmallInt:
			return TypeTransform{Kind: SmallIntAsInt}, nil
		case trino.Time:
			if t.TimePrecision != 6 {
				return TypeTransform{Kind: TimeWithPrecision, StoredPrecision: 6}, nil
			}
		case trino.Timestamp:
			if t.TimePrecision != 6 {
				return TypeTransform{Kind: TimestampWithPrecision, StoredPrecision: 6}, nil
			}
		case trino.TimestampWithTimeZone:
			if t.TimePrecision != 6 {
				return TypeTransform{Kind: TimestampTzWithPrecision, StoredPrecision: 6}, nil
			}
		case trino.Json:
			return TypeTransform{Kind: JsonAsVarchar}, nil
		case trino.SphericalGeography:
			return TypeTransform{Kind: GeographyAsWkt}, nil
		}
	case connector.Hive:
		switch t.Kind {
		case trino.SmallInt:
			return TypeTransform{Kind: SmallIntAsInt}, nil
		case trino.Time:
			return TypeTransform{Kind: TimeAsVarchar}, nil
		case trino.Timestamp:
			if t.TimePrecision != 3 {
				return TypeTransform{Kind: TimestampWithPrecision, StoredPrecision: 3}, nil
			}
		case trino.TimestampWithTimeZone:
			return TypeTransform{Kind: TimestampTzAsTimestamp, StoredPrecision: 3}, nil
		case trino.Json:
			return TypeTransform{Kind: JsonAsVarchar}, nil
		case trino.Uuid:
			return TypeTransform{Kind: UuidAsVarchar}, nil
		case trino.SphericalGeography:
			return TypeTransform{Kind: GeographyAsWkt}, nil
		}
	case connector.Memory:
		// Memory has no special-cased storage restrictions in spec.md; everything it
		// can parse at all, it stores as Identity.
	}
	return NewIdentity(), nil
}
