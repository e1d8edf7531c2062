package portable_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/dbxerrors"
	"github.com/stokaro/dbxform/portable"
)

func TestValidateDetectsDuplicateColumn(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Type: portable.NewInt64()},
			{Name: "id", Type: portable.NewText()},
		},
	})
	err := schema.Validate()
	c.Assert(err, qt.Not(qt.IsNil))
	var schemaErr *dbxerrors.SchemaError
	c.Assert(err, qt.ErrorAs, &schemaErr)
	c.Assert(schemaErr.Kind, qt.Equals, dbxerrors.DuplicateColumn)
}

func TestValidateDetectsCyclicNamedType(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	schema.AddNamedType("A", portable.NewNamed("B"))
	schema.AddNamedType("B", portable.NewNamed("A"))
	schema.Table.Columns = []portable.Column{{Name: "c", Type: portable.NewNamed("A")}}

	err := schema.Validate()
	c.Assert(err, qt.Not(qt.IsNil))
	var schemaErr *dbxerrors.SchemaError
	c.Assert(err, qt.ErrorAs, &schemaErr)
	c.Assert(schemaErr.Kind, qt.Equals, dbxerrors.CyclicNamedType)
}

func TestValidateDetectsUnknownNamedType(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{
		Name:    "t",
		Columns: []portable.Column{{Name: "c", Type: portable.NewNamed("Missing")}},
	})
	err := schema.Validate()
	var schemaErr *dbxerrors.SchemaError
	c.Assert(err, qt.ErrorAs, &schemaErr)
	c.Assert(schemaErr.Kind, qt.Equals, dbxerrors.UnknownNamedType)
}

func TestValidateDetectsEmptyOneOf(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{
		Name:    "t",
		Columns: []portable.Column{{Name: "c", Type: portable.PortableType{Kind: portable.OneOf}}},
	})
	err := schema.Validate()
	var schemaErr *dbxerrors.SchemaError
	c.Assert(err, qt.ErrorAs, &schemaErr)
	c.Assert(schemaErr.Kind, qt.Equals, dbxerrors.EmptyOneOf)
}

func TestValidateDetectsDuplicateStructField(t *testing.T) {
	c := qt.New(t)
	dup := portable.NewStruct(
		portable.StructField{Name: "x", Type: portable.NewInt64()},
		portable.StructField{Name: "x", Type: portable.NewText()},
	)
	schema := portable.NewSchema(portable.Table{
		Name:    "t",
		Columns: []portable.Column{{Name: "c", Type: dup}},
	})
	err := schema.Validate()
	var schemaErr *dbxerrors.SchemaError
	c.Assert(err, qt.ErrorAs, &schemaErr)
	c.Assert(schemaErr.Kind, qt.Equals, dbxerrors.DuplicateField)
}

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{
		Name: "widgets",
		Columns: []portable.Column{
			{Name: "id", Type: portable.NewInt64()},
			{Name: "tags", Type: portable.NewArray(portable.NewText())},
			{Name: "color", Type: portable.NewNamed("Color")},
		},
	})
	schema.AddNamedType("Color", portable.NewOneOf("red", "green", "blue"))

	c.Assert(schema.Validate(), qt.IsNil)
}

func TestResolveUnknownName(t *testing.T) {
	c := qt.New(t)
	schema := portable.NewSchema(portable.Table{Name: "t"})
	_, err := schema.Resolve("Nope")
	c.Assert(err, qt.Not(qt.IsNil))
}
