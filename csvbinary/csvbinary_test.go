package csvbinary_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/dbxform/csvbinary"
	"github.com/stokaro/dbxform/dbxerrors"
	"github.com/stokaro/dbxform/dialect/postgres"
)

var fixedHeader = []byte("PGCOPY\n\xff\r\n\x00\x00\x00\x00\x00\x00\x00\x00\x00")

func TestCopyCSVToPGBinarySingleIntRow(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{{Name: "n", Type: postgres.FromScalar(postgres.NewInt())}}
	var out bytes.Buffer

	rows, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("n\n42\n"), &out)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.Equals, 1)

	want := append([]byte{}, fixedHeader...)
	want = append(want, 0x00, 0x01) // one field
	want = append(want, 0x00, 0x00, 0x00, 0x04) // length 4
	want = append(want, 0x00, 0x00, 0x00, 0x2a) // 42
	c.Assert(out.Bytes(), qt.DeepEquals, want)
}

func TestCopyCSVToPGBinaryNullableTextEmptyCell(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{{Name: "s", Type: postgres.FromScalar(postgres.NewText()), Nullable: true}}
	var out bytes.Buffer

	rows, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("s\n\n"), &out)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.Equals, 1)

	want := append([]byte{}, fixedHeader...)
	want = append(want, 0x00, 0x01)
	want = append(want, 0xff, 0xff, 0xff, 0xff)
	c.Assert(out.Bytes(), qt.DeepEquals, want)
}

func TestCopyCSVToPGBinaryIntArrayWithNull(t *testing.T) {
	c := qt.New(t)
	arrType := postgres.DataType{DimensionCount: 1, Scalar: postgres.NewInt()}
	columns := []csvbinary.Column{{Name: "xs", Type: arrType}}
	var out bytes.Buffer

	rows, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("xs\n\"[1,null,3]\"\n"), &out)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.Equals, 1)

	body := out.Bytes()[len(fixedHeader):]
	c.Assert(binary.BigEndian.Uint16(body[0:2]), qt.Equals, uint16(1)) // field count

	fieldLen := binary.BigEndian.Uint32(body[2:6])
	field := body[6 : 6+fieldLen]

	c.Assert(binary.BigEndian.Uint32(field[0:4]), qt.Equals, uint32(1)) // dimension count
	c.Assert(binary.BigEndian.Uint32(field[4:8]), qt.Equals, uint32(1)) // has-null flag
	oid, err := postgres.NewInt().OID()
	c.Assert(err, qt.IsNil)
	c.Assert(int32(binary.BigEndian.Uint32(field[8:12])), qt.Equals, oid)
	c.Assert(binary.BigEndian.Uint32(field[12:16]), qt.Equals, uint32(3)) // size
	c.Assert(binary.BigEndian.Uint32(field[16:20]), qt.Equals, uint32(1)) // lower bound

	rest := field[20:]
	elemLen1 := binary.BigEndian.Uint32(rest[0:4])
	c.Assert(elemLen1, qt.Equals, uint32(4))
	c.Assert(int32(binary.BigEndian.Uint32(rest[4:8])), qt.Equals, int32(1))
	rest = rest[8:]

	c.Assert(int32(binary.BigEndian.Uint32(rest[0:4])), qt.Equals, int32(-1)) // null marker
	rest = rest[4:]

	elemLen3 := binary.BigEndian.Uint32(rest[0:4])
	c.Assert(elemLen3, qt.Equals, uint32(4))
	c.Assert(int32(binary.BigEndian.Uint32(rest[4:8])), qt.Equals, int32(3))
}

func TestCopyCSVToPGBinaryHeaderMismatch(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{{Name: "n", Type: postgres.FromScalar(postgres.NewInt())}}
	var out bytes.Buffer

	_, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("wrong\n1\n"), &out)
	var mismatch *dbxerrors.CsvSchemaMismatch
	c.Assert(err, qt.ErrorAs, &mismatch)
}

func TestCopyCSVToPGBinaryRowConversionErrorIncludesPosition(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{{Name: "n", Type: postgres.FromScalar(postgres.NewInt())}}
	var out bytes.Buffer

	_, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("n\nnotanumber\n"), &out)
	var rowErr *dbxerrors.RowConversionError
	c.Assert(err, qt.ErrorAs, &rowErr)
	c.Assert(rowErr.Row, qt.Equals, 1)
	c.Assert(rowErr.Column, qt.Equals, "n")
}

func TestCopyCSVToPGBinaryRejectsMultiDimensionalArray(t *testing.T) {
	c := qt.New(t)
	arrType := postgres.DataType{DimensionCount: 2, Scalar: postgres.NewInt()}
	columns := []csvbinary.Column{{Name: "xs", Type: arrType}}
	var out bytes.Buffer

	_, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("xs\n\"[[1]]\"\n"), &out)
	var unsupported *dbxerrors.UnsupportedType
	c.Assert(err, qt.ErrorAs, &unsupported)
}

func TestCopyCSVToPGBinaryRejectsNumeric(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{{Name: "n", Type: postgres.FromScalar(postgres.NewNumeric())}}
	var out bytes.Buffer

	_, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader("n\n1.5\n"), &out)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestCopyCSVToPGBinaryFixedWidthLengths(t *testing.T) {
	c := qt.New(t)
	columns := []csvbinary.Column{
		{Name: "b", Type: postgres.FromScalar(postgres.NewBoolean())},
		{Name: "i2", Type: postgres.FromScalar(postgres.NewSmallint())},
		{Name: "i4", Type: postgres.FromScalar(postgres.NewInt())},
		{Name: "i8", Type: postgres.FromScalar(postgres.NewBigint())},
		{Name: "f4", Type: postgres.FromScalar(postgres.NewReal())},
		{Name: "f8", Type: postgres.FromScalar(postgres.NewDoublePrecision())},
		{Name: "d", Type: postgres.FromScalar(postgres.NewDate())},
		{Name: "u", Type: postgres.FromScalar(postgres.NewUuid())},
		{Name: "ts", Type: postgres.FromScalar(postgres.NewTimestampNoTz())},
	}
	var out bytes.Buffer
	row := "true,1,2,3,1.5,2.5,2024-01-01,3fa85f64-5717-4562-b3fc-2c963f66afa6,2024-01-01 00:00:00\n"
	header := "b,i2,i4,i8,f4,f8,d,u,ts\n"

	rows, err := csvbinary.CopyCSVToPGBinary(columns, strings.NewReader(header+row), &out)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.Equals, 1)

	body := out.Bytes()[len(fixedHeader):]
	c.Assert(binary.BigEndian.Uint16(body[0:2]), qt.Equals, uint16(len(columns)))
	pos := 2
	wantLens := []uint32{1, 2, 4, 8, 4, 8, 4, 16, 8}
	for _, want := range wantLens {
		got := binary.BigEndian.Uint32(body[pos : pos+4])
		c.Assert(got, qt.Equals, want)
		pos += 4 + int(got)
	}
	c.Assert(pos, qt.Equals, len(body))
}
