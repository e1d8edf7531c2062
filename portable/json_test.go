package portable_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/portable"
)

func TestPortableTypeJSONRoundTrip(t *testing.T) {
	c := qt.New(t)
	cases := []portable.PortableType{
		portable.NewBool(),
		portable.NewText(),
		portable.NewTimestampTz(),
		portable.NewGeoJson(4326),
		portable.NewArray(portable.NewInt64()),
		portable.NewOneOf("red", "green", "blue"),
		portable.NewNamed("Color"),
		portable.NewStruct(
			portable.StructField{Name: "x", Nullable: false, Type: portable.NewFloat64()},
			portable.StructField{Name: "y", Nullable: true, Type: portable.NewFloat64()},
		),
	}
	for _, original := range cases {
		raw, err := json.Marshal(original)
		c.Assert(err, qt.IsNil)

		var roundTripped portable.PortableType
		c.Assert(json.Unmarshal(raw, &roundTripped), qt.IsNil)
		c.Assert(roundTripped, qt.DeepEquals, original)
	}
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Nullable: false, Type: portable.NewInt64()},
			{Name: "color", Nullable: true, Type: portable.NewNamed("Color"), Comment: "display color"},
		},
	})
	schema.AddNamedType("Color", portable.NewOneOf("red", "green", "blue"))

	raw, err := json.Marshal(schema)
	c.Assert(err, qt.IsNil)

	var roundTripped portable.Schema
	c.Assert(json.Unmarshal(raw, &roundTripped), qt.IsNil)
	c.Assert(roundTripped.Table.Name, qt.Equals, "widgets")
	c.Assert(roundTripped.Table.Columns, qt.HasLen, 2)
	c.Assert(roundTripped.Table.Columns[1].Comment, qt.Equals, "display color")
	c.Assert(roundTripped.Validate(), qt.IsNil)
}

func TestPortableTypeJSONRejectsUnknownScalar(t *testing.T) {
	c := qt.New(t)
	var t2 portable.PortableType
	err := json.Unmarshal([]byte(`"not_a_real_type"`), &t2)
	c.Assert(err, qt.Not(qt.IsNil))
}
