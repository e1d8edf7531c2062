package postgres

import (
	"strconv"
	"strings"

	"github.com/stokaro/dbxform/dbxerrors"
)

// Parse parses s as a PostgreSQL native type text form, e.g. "integer", "timestamp with
// time zone", "text[]", "public.geometry(Geometry, 4326)". As with the Trino parser,
// keywords are matched case-insensitively and array brackets may repeat to indicate
// dimensionality.
func Parse(s string) (DataType, error) {
	trimmed := strings.TrimSpace(s)
	dims := 0
	for strings.HasSuffix(strings.TrimRight(trimmed, " "), "[]") {
		trimmed = strings.TrimSuffix(strings.TrimRight(trimmed, " "), "[]")
		dims++
	}
	scalar, err := parseScalar(strings.TrimSpace(trimmed))
	if err != nil {
		return DataType{}, err
	}
	return DataType{DimensionCount: dims, Scalar: scalar}, nil
}

func parseScalar(s string) (Scalar, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "boolean", "bool":
		return NewBoolean(), nil
	case "date":
		return NewDate(), nil
	case "numeric", "decimal":
		return NewNumeric(), nil
	case "real", "float4":
		return NewReal(), nil
	case "double precision", "float8":
		return NewDoublePrecision(), nil
	case "smallint", "int2":
		return NewSmallint(), nil
	case "int", "integer", "int4":
		return NewInt(), nil
	case "bigint", "int8":
		return NewBigint(), nil
	case "json":
		return NewJson(), nil
	case "jsonb":
		return NewJsonb(), nil
	case "text":
		return NewText(), nil
	case "varchar(max)":
		return Scalar{Kind: Text}, nil
	case "timestamp without time zone", "timestamp":
		return NewTimestampNoTz(), nil
	case "timestamp with time zone", "timestamptz":
		return NewTimestampTz(), nil
	case "uuid":
		return NewUuid(), nil
	}
	if strings.HasPrefix(lower, "public.geometry(geometry,") && strings.HasSuffix(lower, ")") {
		srid, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(lower, "public.geometry(geometry,"), ")")))
		if err != nil {
			return Scalar{}, &dbxerrors.TypeParseError{Backend: "postgres", Input: s, Expected: []string{"a numeric srid"}}
		}
		return NewGeometry(uint32(srid)), nil
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		return NewNamed(s[1 : len(s)-1]), nil
	}
	return Scalar{}, &dbxerrors.TypeParseError{Backend: "postgres", Input: s, Expected: []string{"a PostgreSQL type"}}
}
