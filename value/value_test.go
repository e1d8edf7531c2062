package value_test

import (
	"testing"
	"time"

	"github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"github.com/stokaro/dbxform/portable"
	"github.com/stokaro/dbxform/value"
)

func TestToLiteralScalars(t *testing.T) {
	c := quicktest.New(t)

	c.Assert(mustLit(c, value.NewBool(true)), quicktest.Equals, "TRUE")
	c.Assert(mustLit(c, value.NewInt64(42)), quicktest.Equals, "42")
	c.Assert(mustLit(c, value.NewText("hi 'there'")), quicktest.Equals, "'hi ''there'''")
	c.Assert(mustLit(c, value.NewNull()), quicktest.Equals, "NULL")

	d := decimal.RequireFromString("3.1400")
	c.Assert(mustLit(c, value.NewDecimal(d)), quicktest.Equals, "CAST('3.1400' AS DECIMAL)")

	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	c.Assert(mustLit(c, value.NewUuid(u)), quicktest.Equals, "CAST('550e8400-e29b-41d4-a716-446655440000' AS UUID)")
}

func TestToLiteralArray(t *testing.T) {
	c := quicktest.New(t)
	arr := value.NewArray(portable.NewInt64(), value.NewInt64(1), value.NewInt64(2), value.NewInt64(3))
	c.Assert(mustLit(c, arr), quicktest.Equals, "ARRAY[1, 2, 3]")
}

func TestToLiteralEmptyArrayRequiresCast(t *testing.T) {
	c := quicktest.New(t)
	arr := value.NewArray(portable.NewInt64())
	c.Assert(mustLit(c, arr), quicktest.Equals, "CAST(ARRAY[] AS ARRAY(BIGINT))")
}

func TestToLiteralArrayWithCastRequiringElementRequiresCast(t *testing.T) {
	c := quicktest.New(t)
	rowType := portable.NewStruct(portable.StructField{Name: "x", Type: portable.NewInt64()})
	nested := value.NewStruct(rowType, value.StructEntry{Name: "x", Value: value.NewInt64(1)})
	arr := value.NewArray(rowType, nested)
	c.Assert(mustLit(c, arr), quicktest.Equals, "CAST(ARRAY[ROW(1)] AS ARRAY(ROW(x BIGINT)))")
}

func TestToLiteralNamedFieldStructRequiresCast(t *testing.T) {
	c := quicktest.New(t)
	rowType := portable.NewStruct(portable.StructField{Name: "x", Type: portable.NewInt64()})
	row := value.NewStruct(rowType, value.StructEntry{Name: "x", Value: value.NewInt64(1)})
	c.Assert(mustLit(c, row), quicktest.Equals, "CAST(ROW(1) AS ROW(x BIGINT))")
}

func TestToLiteralAnonymousFieldStructNeedsNoCast(t *testing.T) {
	c := quicktest.New(t)
	rowType := portable.NewStruct(portable.StructField{Type: portable.NewInt64()})
	row := value.NewStruct(rowType, value.StructEntry{Value: value.NewInt64(1)})
	c.Assert(mustLit(c, row), quicktest.Equals, "ROW(1)")
}

func TestCloseEnoughToFloatTolerance(t *testing.T) {
	c := quicktest.New(t)
	a := value.NewFloat64(1.0 / 3.0)
	b := value.NewFloat64(0.3333333333333333)
	c.Assert(a.CloseEnoughTo(b), quicktest.IsTrue)

	different := value.NewFloat64(0.5)
	c.Assert(a.CloseEnoughTo(different), quicktest.IsFalse)
}

func TestCloseEnoughToTimestampTruncation(t *testing.T) {
	c := quicktest.New(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	a := value.NewTimestampTz(base)
	b := value.NewTimestampTz(base.Add(400 * time.Nanosecond))
	c.Assert(a.CloseEnoughTo(b), quicktest.IsTrue)
}

func TestCloseEnoughToJsonKeyOrder(t *testing.T) {
	c := quicktest.New(t)
	a := value.NewJson([]byte(`{"a":1,"b":2}`))
	b := value.NewJson([]byte(`{"b":2,"a":1}`))
	c.Assert(a.CloseEnoughTo(b), quicktest.IsTrue)
}

func TestCloseEnoughToGeometry(t *testing.T) {
	c := quicktest.New(t)
	pt := orb.Point{1.0, 2.0}
	a := value.NewGeoJson(pt, 4326)
	b := value.NewGeoJson(orb.Point{1.0, 2.0}, 4326)
	c.Assert(a.CloseEnoughTo(b), quicktest.IsTrue)

	other := value.NewGeoJson(orb.Point{3.0, 4.0}, 4326)
	c.Assert(a.CloseEnoughTo(other), quicktest.IsFalse)
}

func mustLit(c *quicktest.C, v value.Value) string {
	lit, err := v.ToLiteral("trino")
	c.Assert(err, quicktest.IsNil)
	return lit.String()
}
