package bigquery_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/dialect/bigquery"
	"github.com/stokaro/dbxform/portable"
)

func TestGeoJsonRoundTripPreservesNonWGS84Srid(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	original := portable.NewGeoJson(3857)

	native, err := bigquery.FromPortable(schema, original, bigquery.UsageFinalTable)
	c.Assert(err, quicktest.IsNil)

	back, err := bigquery.ToPortable(native)
	c.Assert(err, quicktest.IsNil)
	c.Assert(back, quicktest.DeepEquals, original)
}

func TestGeoJsonWGS84UsesNativeGeography(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	native, err := bigquery.FromPortable(schema, portable.NewGeoJson(4326), bigquery.UsageFinalTable)
	c.Assert(err, quicktest.IsNil)
	c.Assert(native, quicktest.DeepEquals, bigquery.NewNonArray(bigquery.NewGeography()))
}

func TestUuidAndJsonRoundTrip(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	for _, original := range []portable.PortableType{portable.NewUuid(), portable.NewJson()} {
		native, err := bigquery.FromPortable(schema, original, bigquery.UsageFinalTable)
		c.Assert(err, quicktest.IsNil)
		back, err := bigquery.ToPortable(native)
		c.Assert(err, quicktest.IsNil)
		c.Assert(back, quicktest.DeepEquals, original)
	}
}

func TestStructCollapsesToStringForCsvLoad(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	structType := portable.NewStruct(
		portable.StructField{Name: "x", Type: portable.NewInt64()},
	)

	native, err := bigquery.FromPortable(schema, structType, bigquery.UsageCsvLoad)
	c.Assert(err, quicktest.IsNil)
	c.Assert(native, quicktest.DeepEquals, bigquery.NewNonArray(bigquery.NewString()))
}

func TestStructKeepsShapeForFinalTable(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	structType := portable.NewStruct(
		portable.StructField{Name: "x", Type: portable.NewInt64()},
	)

	native, err := bigquery.FromPortable(schema, structType, bigquery.UsageFinalTable)
	c.Assert(err, quicktest.IsNil)
	c.Assert(native.Elem.Kind, quicktest.Equals, bigquery.StructKind)
	c.Assert(native.Elem.Fields, quicktest.HasLen, 1)
}

func TestArrayCollapsesToStringForCsvLoad(t *testing.T) {
	c := quicktest.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	arrType := portable.NewArray(portable.NewText())

	native, err := bigquery.FromPortable(schema, arrType, bigquery.UsageCsvLoad)
	c.Assert(err, quicktest.IsNil)
	c.Assert(native, quicktest.DeepEquals, bigquery.NewNonArray(bigquery.NewString()))
}
