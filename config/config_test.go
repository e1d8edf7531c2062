package config_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/config"
	"github.com/stokaro/dbxform/gen"
)

func TestDefaultPlanOptions(t *testing.T) {
	c := qt.New(t)

	opts := config.DefaultPlanOptions()

	c.Assert(opts, qt.IsNotNil)
	c.Assert(opts.AllowNarrowingWithoutCast, qt.IsFalse)
}

func TestDefaultEncodeOptions(t *testing.T) {
	c := qt.New(t)

	opts := config.DefaultEncodeOptions()

	c.Assert(opts, qt.IsNotNil)
	c.Assert(opts.NullMarker, qt.Equals, "")
}

func TestWithNullMarker(t *testing.T) {
	c := qt.New(t)

	opts := config.WithNullMarker("\\N")
	c.Assert(opts.NullMarker, qt.Equals, "\\N")
}

func TestDefaultGeneratorOptions(t *testing.T) {
	c := qt.New(t)

	opts := config.DefaultGeneratorOptions()

	c.Assert(opts.MinTimestampYear, qt.Equals, gen.MinYear)
	c.Assert(opts.MaxVarcharLength, qt.Equals, 255)
}

func TestWithHiveTimestampFloor(t *testing.T) {
	c := qt.New(t)

	base := config.DefaultGeneratorOptions()
	hive := config.WithHiveTimestampFloor(base)

	c.Assert(hive.MinTimestampYear, qt.Equals, gen.MinHiveYear)
	c.Assert(base.MinTimestampYear, qt.Equals, gen.MinYear, qt.Commentf("original options must not be mutated"))
}
