// Package config provides configuration options for dbxform's library surface: planning a
// storage transform, encoding CSV to PostgreSQL binary, and generating property-test
// fixtures.
//
// This mirrors the teacher's plain-struct-plus-With* functions style rather than a config
// file / environment-variable loader: the library itself takes no dependency on viper or
// any other config-loading package, leaving that to cmd/dbxplan.
package config

import "github.com/stokaro/dbxform/gen"

// PlanOptions holds storage-transform planning options. transform.Plan does not take a
// PlanOptions, and no code in this module reads one.
type PlanOptions struct {
	// AllowNarrowingWithoutCast records whether the outer CAST of a narrowing store
	// transform (e.g. TIMESTAMP(9) -> TIMESTAMP(6)) may be left out. The planner does not consult it;
	// it always emits the outer CAST.
	AllowNarrowingWithoutCast bool
}

// DefaultPlanOptions returns PlanOptions with AllowNarrowingWithoutCast false: full
// casting, no shortcuts.
func DefaultPlanOptions() *PlanOptions {
	return &PlanOptions{AllowNarrowingWithoutCast: false}
}

// EncodeOptions holds a CSV null marker for CSV-to-binary encoding.
// csvbinary.CopyCSVToPGBinary does not take an EncodeOptions: it always treats an empty
// cell in a nullable column as SQL NULL, whatever NullMarker says.
type EncodeOptions struct {
	// NullMarker is the CSV cell value to treat as SQL NULL for nullable columns. The
	// empty string, PostgreSQL's own COPY TEXT default, is used unless overridden.
	NullMarker string
}

// DefaultEncodeOptions returns the default encode options: the empty string as the null
// marker, matching PostgreSQL COPY's own default.
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{NullMarker: ""}
}

// WithNullMarker returns a new EncodeOptions using marker as the CSV null sentinel instead
// of the default empty string.
func WithNullMarker(marker string) *EncodeOptions {
	return &EncodeOptions{NullMarker: marker}
}

// GeneratorOptions groups settings for the gen package's generators: which backend's
// narrower timestamp floor applies, and a varchar length bound. The generators do not take
// a GeneratorOptions; callers pass these fields to them as plain arguments.
type GeneratorOptions struct {
	// MinTimestampYear is the earliest year generated timestamps may fall in, the
	// argument to gen.Timestamp. Use gen.MinHiveYear when targeting Hive/Athena,
	// gen.MinYear otherwise.
	MinTimestampYear int

	// MaxVarcharLength is the length bound to pass to gen.VarcharOfLength.
	MaxVarcharLength int
}

// DefaultGeneratorOptions returns the options used when targeting Trino/Iceberg/Memory,
// which accept the full [1900, 3500] timestamp range.
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{MinTimestampYear: gen.MinYear, MaxVarcharLength: 255}
}

// WithHiveTimestampFloor returns a new GeneratorOptions derived from opts with
// MinTimestampYear raised to gen.MinHiveYear, for generators feeding a Hive/Athena-backed
// test.
func WithHiveTimestampFloor(opts *GeneratorOptions) *GeneratorOptions {
	clone := *opts
	clone.MinTimestampYear = gen.MinHiveYear
	return &clone
}
