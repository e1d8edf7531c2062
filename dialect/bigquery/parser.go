package bigquery

import (
	"strings"

	"github.com/stokaro/dbxform/dbxerrors"
)

// Parse parses s as a BigQuery native type text form: "INT64", "ARRAY<STRING>",
// "STRUCT<name STRING, age INT64>". Keywords are matched case-insensitively; STRUCT field
// names are case-sensitive.
func Parse(s string) (DataType, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "ARRAY<") && strings.HasSuffix(trimmed, ">") {
		inner := trimmed[len("ARRAY<") : len(trimmed)-1]
		elem, err := parseNonArray(inner)
		if err != nil {
			return DataType{}, err
		}
		return NewArray(elem), nil
	}
	elem, err := parseNonArray(trimmed)
	if err != nil {
		return DataType{}, err
	}
	return NewNonArray(elem), nil
}

func parseNonArray(s string) (NonArrayDataType, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	switch upper {
	case "BOOL", "BOOLEAN":
		return NewBool(), nil
	case "BYTES":
		return NewBytes(), nil
	case "DATE":
		return NewDate(), nil
	case "DATETIME":
		return NewDatetime(), nil
	case "FLOAT64":
		return NewFloat64(), nil
	case "GEOGRAPHY":
		return NewGeography(), nil
	case "INT64", "INTEGER":
		return NewInt64(), nil
	case "NUMERIC":
		return NewNumeric(), nil
	case "STRING":
		return NewString(), nil
	case "TIME":
		return NewTime(), nil
	case "TIMESTAMP":
		return NewTimestamp(), nil
	}
	if strings.HasPrefix(upper, "STRUCT<") && strings.HasSuffix(trimmed, ">") {
		inner := trimmed[len("STRUCT<") : len(trimmed)-1]
		parts := splitTopLevel(inner)
		fields := make([]StructField, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			sp := strings.SplitN(part, " ", 2)
			if len(sp) != 2 {
				return NonArrayDataType{}, &dbxerrors.TypeParseError{Backend: "bigquery", Input: s, Expected: []string{"name type"}}
			}
			ft, err := parseNonArray(sp[1])
			if err != nil {
				return NonArrayDataType{}, err
			}
			fields = append(fields, StructField{Name: sp[0], Type: ft})
		}
		return NewStruct(fields...), nil
	}
	return NonArrayDataType{}, &dbxerrors.TypeParseError{Backend: "bigquery", Input: s, Expected: []string{"a BigQuery type"}}
}

// splitTopLevel splits s on commas that are not nested inside a STRUCT<...> or ARRAY<...>.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
