// Package connector implements the per-connector capability table for Trino's storage
// backends: Hive, Iceberg, and Memory. Capability records are pure, immutable, and
// process-lifetime, per spec.md §3.3.
//
// Grounded verbatim on _examples/original_source/crates/dbcrossbar_trino/src/connectors.rs:
// the capability predicates, the table-options-for-merge logic, and the
// storage_transform_for dispatch table that drives the transform planner's per-connector
// rule selection in package transform.
package connector

import "fmt"

// Type identifies a Trino connector variant.
type Type int

const (
	Hive Type = iota
	Iceberg
	Memory
)

func (t Type) String() string {
	switch t {
	case Hive:
		return "hive"
	case Iceberg:
		return "iceberg"
	case Memory:
		return "memory"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Parse parses the lowercase connector name.
func Parse(s string) (Type, error) {
	switch s {
	case "hive":
		return Hive, nil
	case "iceberg":
		return Iceberg, nil
	case "memory":
		return Memory, nil
	default:
		return 0, fmt.Errorf("unknown connector type %q", s)
	}
}

// AllTestable lists the connectors dbxform's own test suite exercises.
func AllTestable() []Type { return []Type{Hive, Iceberg, Memory} }

// TestCatalog, TestSchema and TestTableName return the catalog/schema/table-name
// convention used by integration tests against this connector.
func (t Type) TestCatalog() string { return t.String() }
func (t Type) TestSchema() string  { return "default" }
func (t Type) TestTableName(base string) string {
	return fmt.Sprintf("%s_%s", base, t.String())
}

// SupportsNotNullConstraint reports whether CREATE TABLE columns may be declared NOT
// NULL. Only Iceberg supports this among the three testable connectors.
func (t Type) SupportsNotNullConstraint() bool {
	return t == Iceberg
}

// SupportsReplaceTable reports whether CREATE OR REPLACE TABLE is supported. Only Iceberg
// supports it.
func (t Type) SupportsReplaceTable() bool {
	return t == Iceberg
}

// SupportsMerge reports whether MERGE INTO is supported against this connector.
func (t Type) SupportsMerge() bool {
	return t == Hive || t == Iceberg
}

// TableOptionsForMerge returns the WITH(...) table-creation options required to make
// MERGE work, if any. Hive requires an explicit transactional ORC table; Iceberg needs
// nothing extra; Memory cannot MERGE at all.
func (t Type) TableOptionsForMerge() (string, error) {
	switch t {
	case Hive:
		return "WITH (format = 'ORC', transactional = true)", nil
	case Iceberg:
		return "", nil
	default:
		return "", fmt.Errorf("%s does not support MERGE", t)
	}
}

// SupportsAnonymousRowFields reports whether unnamed positional ROW fields are legal.
// Only Memory supports this; Hive and Iceberg require every ROW field to be named.
func (t Type) SupportsAnonymousRowFields() bool {
	return t == Memory
}
