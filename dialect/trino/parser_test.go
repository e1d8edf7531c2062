package trino_test

import (
	"testing"

	"github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/dialect/trino"
)

func TestParseTimestampWithoutTimeZone(t *testing.T) {
	c := quicktest.New(t)
	got, err := trino.Parse("TIMESTAMP(3) WITHOUT TIME ZONE")
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Equal(trino.NewTimestamp(3)), quicktest.IsTrue)
}

func TestParseTimestampRejectsMalformedWithout(t *testing.T) {
	c := quicktest.New(t)
	_, err := trino.Parse("TIMESTAMP(3) WITHOUT FOO")
	c.Assert(err, quicktest.Not(quicktest.IsNil))
}

func TestParseTimestampRejectsMalformedWith(t *testing.T) {
	c := quicktest.New(t)
	_, err := trino.Parse("TIMESTAMP(3) WITH FOO")
	c.Assert(err, quicktest.Not(quicktest.IsNil))
}

func TestParseRejectsTimeWithTimeZone(t *testing.T) {
	c := quicktest.New(t)
	_, err := trino.Parse("TIME(3) WITH TIME ZONE")
	c.Assert(err, quicktest.Not(quicktest.IsNil))
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	c := quicktest.New(t)
	_, err := trino.Parse("BIGINT garbage")
	c.Assert(err, quicktest.Not(quicktest.IsNil))
}

func TestParseIsCaseAndWhitespaceInsensitiveOnKeywords(t *testing.T) {
	c := quicktest.New(t)
	got, err := trino.Parse("  timestamp ( 6 )  with   time   zone ")
	c.Assert(err, quicktest.IsNil)
	c.Assert(got.Equal(trino.NewTimestampWithTimeZone(6)), quicktest.IsTrue)
}
