package trino_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/dialect/trino"
)

func TestParsePrintRoundTrip(t *testing.T) {
	c := quicktest.New(t)
	cases := []trino.DataType{
		trino.NewBoolean(),
		trino.NewTinyInt(),
		trino.NewSmallInt(),
		trino.NewInt(),
		trino.NewBigInt(),
		trino.NewReal(),
		trino.NewDouble(),
		trino.NewDecimal(18, 2),
		trino.NewVarchar(),
		trino.VarcharN(255),
		trino.NewVarbinary(),
		trino.NewJson(),
		trino.NewDate(),
		trino.NewTime(6),
		trino.NewTimestamp(6),
		trino.NewTimestampWithTimeZone(3),
		trino.NewUuid(),
		trino.NewSphericalGeography(),
		trino.NewArray(trino.NewDecimal(18, 2)),
		trino.NewRow(trino.Field{Name: "x", Type: trino.NewBigInt()}, trino.Field{Name: "y", Type: trino.NewVarchar()}),
		trino.NewRow(trino.Field{Type: trino.NewBigInt()}, trino.Field{Type: trino.NewVarchar()}),
	}
	for _, want := range cases {
		printed := want.String()
		got, err := trino.Parse(printed)
		c.Assert(err, quicktest.IsNil, quicktest.Commentf("parsing %q", printed))
		c.Assert(got.Equal(want), quicktest.IsTrue, quicktest.Commentf("%q -> %s, want %s", printed, got, want))
	}
}

func TestParseRejectsUnsupportedSyntax(t *testing.T) {
	c := quicktest.New(t)
	for _, input := range []string{
		"CHAR(10)",
		"TIME(3) WITH TIME ZONE",
		"INTERVAL DAY TO SECOND",
		"INTERVAL YEAR TO MONTH",
		"MAP(VARCHAR, INTEGER)",
	} {
		_, err := trino.Parse(input)
		c.Assert(err, quicktest.IsNotNil, quicktest.Commentf("input %q", input))
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	c := quicktest.New(t)
	got, err := trino.Parse("array(decimal(18, 2))")
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Equal(trino.NewArray(trino.NewDecimal(18, 2))), quicktest.IsTrue)
}
