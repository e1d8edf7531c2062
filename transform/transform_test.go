package transform_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/connector"
	"github.com/stokaro/dbxform/dialect/trino"
	"github.com/stokaro/dbxform/sqlast"
	"github.com/stokaro/dbxform/transform"
)

// S1 — Trino/Iceberg precision normalization.
func TestIcebergTimestampPrecisionNormalization(t *testing.T) {
	c := quicktest.New(t)
	st, err := transform.Plan(connector.Iceberg, trino.NewTimestamp(9))
	c.Assert(err, quicktest.IsNil)
	c.Assert(st.StorageType.String(), quicktest.Equals, "TIMESTAMP(6)")

	x := sqlast.Var("x")
	c.Assert(st.StoreExpr(x).String(), quicktest.Equals, "CAST(x AS TIMESTAMP(6))")

	y := sqlast.Var("y")
	c.Assert(st.LoadExpr(y).String(), quicktest.Equals, "CAST(y AS TIMESTAMP(9))")
}

// S2 — Trino/Hive geography.
func TestHiveGeographyWkt(t *testing.T) {
	c := quicktest.New(t)
	st, err := transform.Plan(connector.Hive, trino.NewSphericalGeography())
	c.Assert(err, quicktest.IsNil)
	c.Assert(st.StorageType.String(), quicktest.Equals, "VARCHAR")

	x := sqlast.Var("x")
	c.Assert(st.StoreExpr(x).String(), quicktest.Equals, "ST_AsText(to_geometry(x))")

	y := sqlast.Var("y")
	c.Assert(st.LoadExpr(y).String(), quicktest.Equals, "to_spherical_geography(ST_GeometryFromText(y))")
}

// S3 — Trino/Hive anonymous row.
func TestHiveAnonymousRow(t *testing.T) {
	c := quicktest.New(t)
	original := trino.NewRow(
		trino.Field{Type: trino.VarcharN(1)},
		trino.Field{Type: trino.NewSmallInt()},
	)
	st, err := transform.Plan(connector.Hive, original)
	c.Assert(err, quicktest.IsNil)
	c.Assert(st.StorageType.String(), quicktest.Equals, "ROW(_1 VARCHAR(1), _2 INTEGER)")

	x := sqlast.Var("x")
	store := st.StoreExpr(x).String()
	c.Assert(store, quicktest.Equals,
		"CAST(TRANSFORM(ARRAY[x], z -> ROW(z[1], z[2]))[1] AS ROW(_1 VARCHAR(1), _2 INTEGER))")
}

// Trino/Hive timestamp-with-time-zone normalization: stored as a plain TIMESTAMP(3),
// dropping the zone after normalizing to UTC.
func TestHiveTimestampTzAsTimestamp(t *testing.T) {
	c := quicktest.New(t)
	st, err := transform.Plan(connector.Hive, trino.NewTimestampWithTimeZone(6))
	c.Assert(err, quicktest.IsNil)
	c.Assert(st.StorageType.String(), quicktest.Equals, "TIMESTAMP(3)")

	x := sqlast.Var("x")
	c.Assert(st.StoreExpr(x).String(), quicktest.Equals, "CAST((x AT TIME ZONE '+00:00') AS TIMESTAMP(3))")

	y := sqlast.Var("y")
	c.Assert(st.LoadExpr(y).String(), quicktest.Equals, "(y AT TIME ZONE '+00:00')")
}

func TestIdentitySimplification(t *testing.T) {
	c := quicktest.New(t)
	st, err := transform.Plan(connector.Memory, trino.NewBigInt())
	c.Assert(err, quicktest.IsNil)
	c.Assert(st.Transform.IsIdentity(), quicktest.IsTrue)

	st2, err := transform.Plan(connector.Memory, trino.NewArray(trino.NewBigInt()))
	c.Assert(err, quicktest.IsNil)
	c.Assert(st2.Transform.IsIdentity(), quicktest.IsTrue)
}
