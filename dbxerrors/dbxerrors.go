// Package dbxerrors defines the concrete error taxonomy used across dbxform.
//
// Every error kind here maps to a single, prefix-unambiguous message so callers can
// distinguish failure classes with errors.As instead of string matching. TypeParseError,
// RowConversionError and ValueParseError wrap an optional cause and expose it with Unwrap;
// none of the types retries or substitutes a default value: the caller always sees the
// original failure.
package dbxerrors

import (
	"fmt"
)

// Position locates a byte offset inside a piece of parsed text, used by TypeParseError to
// report a caret-style file/line/column for a rejected native type string.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SchemaError reports a portable schema that failed validation: an unknown named type, a
// cyclic named-type reference, a duplicate struct field, a duplicate column name, or an
// empty one_of.
type SchemaError struct {
	Kind    SchemaErrorKind
	Name    string
	Context string
}

// SchemaErrorKind enumerates the ways a Schema can fail Validate.
type SchemaErrorKind int

const (
	UnknownNamedType SchemaErrorKind = iota
	CyclicNamedType
	DuplicateField
	DuplicateColumn
	EmptyOneOf
)

func (k SchemaErrorKind) String() string {
	switch k {
	case UnknownNamedType:
		return "unknown named type"
	case CyclicNamedType:
		return "cyclic named type"
	case DuplicateField:
		return "duplicate field"
	case DuplicateColumn:
		return "duplicate column"
	case EmptyOneOf:
		return "empty one_of"
	default:
		return "unknown schema error"
	}
}

func (e *SchemaError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("schema error: %s %q (%s)", e.Kind, e.Name, e.Context)
	}
	return fmt.Sprintf("schema error: %s %q", e.Kind, e.Name)
}

// TypeParseError reports that a backend's textual type form could not be parsed.
type TypeParseError struct {
	Backend  string
	Input    string
	Pos      Position
	Expected []string
	Cause    error
}

func (e *TypeParseError) Error() string {
	msg := fmt.Sprintf("%s: cannot parse type %q at %s", e.Backend, e.Input, e.Pos)
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf(" (expected one of %v)", e.Expected)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TypeParseError) Unwrap() error { return e.Cause }

// UnsupportedType reports a structural mismatch: the backend has no representation for the
// given portable or native type at all. This is always fatal; there is no fallback.
type UnsupportedType struct {
	Backend string
	Type    string
	Reason  string
}

func (e *UnsupportedType) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s does not support type %s: %s", e.Backend, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s does not support type %s", e.Backend, e.Type)
}

// PrecisionOutOfRange reports a decimal or time precision/scale value outside what the
// backend allows.
type PrecisionOutOfRange struct {
	Type    string
	Actual  int
	Allowed string
}

func (e *PrecisionOutOfRange) Error() string {
	return fmt.Sprintf("%s precision %d out of range (allowed: %s)", e.Type, e.Actual, e.Allowed)
}

// CsvSchemaMismatch reports that a CSV header did not match the expected column list.
type CsvSchemaMismatch struct {
	Expected []string
	Actual   []string
}

func (e *CsvSchemaMismatch) Error() string {
	return fmt.Sprintf("csv header mismatch: expected columns %v, got %v", e.Expected, e.Actual)
}

// RowConversionError wraps a lower-level parse error with the row/column context needed to
// produce a useful diagnostic for a failed streaming conversion.
type RowConversionError struct {
	Row    int // 1-based
	Column string
	Cause  error
}

func (e *RowConversionError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Cause)
}

func (e *RowConversionError) Unwrap() error { return e.Cause }

// ValueParseError reports that a raw cell could not be interpreted as the expected type.
type ValueParseError struct {
	ExpectedType string
	RawCell      string
	Cause        error
}

func (e *ValueParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %q as %s", e.RawCell, e.ExpectedType)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValueParseError) Unwrap() error { return e.Cause }
