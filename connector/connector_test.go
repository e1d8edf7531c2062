package connector_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/connector"
)

func TestCapabilityMatrix(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		conn                       connector.Type
		notNull, replaceTable      bool
		merge, anonymousRowFields  bool
	}{
		{connector.Hive, false, false, true, false},
		{connector.Iceberg, true, true, true, false},
		{connector.Memory, false, false, false, true},
	}
	for _, tc := range cases {
		c.Assert(tc.conn.SupportsNotNullConstraint(), qt.Equals, tc.notNull, qt.Commentf("%s SupportsNotNullConstraint", tc.conn))
		c.Assert(tc.conn.SupportsReplaceTable(), qt.Equals, tc.replaceTable, qt.Commentf("%s SupportsReplaceTable", tc.conn))
		c.Assert(tc.conn.SupportsMerge(), qt.Equals, tc.merge, qt.Commentf("%s SupportsMerge", tc.conn))
		c.Assert(tc.conn.SupportsAnonymousRowFields(), qt.Equals, tc.anonymousRowFields, qt.Commentf("%s SupportsAnonymousRowFields", tc.conn))
	}
}

func TestTableOptionsForMerge(t *testing.T) {
	c := qt.New(t)

	opts, err := connector.Hive.TableOptionsForMerge()
	c.Assert(err, qt.IsNil)
	c.Assert(opts, qt.Equals, "WITH (format = 'ORC', transactional = true)")

	opts, err = connector.Iceberg.TableOptionsForMerge()
	c.Assert(err, qt.IsNil)
	c.Assert(opts, qt.Equals, "")

	_, err = connector.Memory.TableOptionsForMerge()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseRoundTrip(t *testing.T) {
	c := qt.New(t)
	for _, conn := range connector.AllTestable() {
		parsed, err := connector.Parse(conn.String())
		c.Assert(err, qt.IsNil)
		c.Assert(parsed, qt.Equals, conn)
	}

	_, err := connector.Parse("bogus")
	c.Assert(err, qt.Not(qt.IsNil))
}
