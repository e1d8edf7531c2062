package portable_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/portable"
)

func TestIsScalar(t *testing.T) {
	c := qt.New(t)
	c.Assert(portable.NewBool().IsScalar(), qt.IsTrue)
	c.Assert(portable.NewArray(portable.NewText()).IsScalar(), qt.IsFalse)
	c.Assert(portable.NewOneOf("a", "b").IsScalar(), qt.IsFalse)
	c.Assert(portable.NewNamed("X").IsScalar(), qt.IsFalse)
}

func TestStringRendersCompoundKinds(t *testing.T) {
	c := qt.New(t)
	c.Assert(portable.NewGeoJson(4326).String(), qt.Equals, "geo_json(4326)")
	c.Assert(portable.NewArray(portable.NewInt64()).String(), qt.Equals, "array(int64)")
	c.Assert(portable.NewNamed("Color").String(), qt.Equals, "named(Color)")
}
