package gen_test

import (
	"testing"
	"time"

	"github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/stokaro/dbxform/gen"
	"github.com/stokaro/dbxform/portable"
)

func TestTimestampStaysInBounds(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.Timestamp(gen.MinYear).Sample()
		c.Assert(ok, quicktest.IsTrue)
		ts := v.(time.Time)
		c.Assert(ts.Year() >= gen.MinYear && ts.Year() <= gen.MaxYear, quicktest.IsTrue)
		c.Assert(ts.Nanosecond() < 1_000_000_000, quicktest.IsTrue)
	}
}

func TestHiveTimestampRespectsLaterFloor(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.Timestamp(gen.MinHiveYear).Sample()
		c.Assert(ok, quicktest.IsTrue)
		ts := v.(time.Time)
		c.Assert(ts.Year() >= gen.MinHiveYear, quicktest.IsTrue)
	}
}

func TestDecimalPrecisionAndScaleBounds(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.Decimal().Sample()
		c.Assert(ok, quicktest.IsTrue)
		d := v.(decimal.Decimal)
		digits := len(d.Coefficient().String())
		c.Assert(digits <= gen.MaxDecimalPrecision+1, quicktest.IsTrue) // +1 for sign digit slack
	}
}

func TestTimeZoneOffsetWithinBand(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.TimeZoneOffset().Sample()
		c.Assert(ok, quicktest.IsTrue)
		d := v.(time.Duration)
		c.Assert(d >= -14*time.Hour && d <= 14*time.Hour, quicktest.IsTrue)
	}
}

func TestVarcharOfLengthRespectsBound(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.VarcharOfLength(10).Sample()
		c.Assert(ok, quicktest.IsTrue)
		s := v.(string)
		c.Assert(len([]rune(s)) <= 10, quicktest.IsTrue)
	}
}

func TestGeographyPointWithinBounds(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.GeographyPoint().Sample()
		c.Assert(ok, quicktest.IsTrue)
		pt := v.([2]float64)
		c.Assert(pt[0] >= -180 && pt[0] <= 180, quicktest.IsTrue)
		c.Assert(pt[1] >= -90 && pt[1] <= 90, quicktest.IsTrue)
	}
}

func TestScalarTypeIsAlwaysScalar(t *testing.T) {
	c := quicktest.New(t)
	for i := 0; i < 200; i++ {
		v, ok := gen.ScalarType().Sample()
		c.Assert(ok, quicktest.IsTrue)
		pt := v.(portable.PortableType)
		c.Assert(pt.IsScalar(), quicktest.IsTrue)
	}
}
