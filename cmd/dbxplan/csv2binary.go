package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/dbxform/csvbinary"
	"github.com/stokaro/dbxform/dialect/postgres"
)

const (
	csv2binInFlag     = "in"
	csv2binOutFlag    = "out"
	csv2binSchemaFlag = "columns"
)

var csv2binFlags = map[string]cobraflags.Flag{
	csv2binInFlag: &cobraflags.StringFlag{
		Name:  csv2binInFlag,
		Value: "",
		Usage: "Path to the source CSV file (required)",
	},
	csv2binOutFlag: &cobraflags.StringFlag{
		Name:  csv2binOutFlag,
		Value: "",
		Usage: "Path to write the COPY BINARY output to (required)",
	},
	csv2binSchemaFlag: &cobraflags.StringFlag{
		Name:  csv2binSchemaFlag,
		Value: "",
		Usage: "Comma-separated name:type[:null] column list, e.g. \"id:bigint,name:text:null\" (required)",
	},
}

func newCsv2BinaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv2binary",
		Short: "Stream a CSV file into PostgreSQL COPY ... BINARY format",
		Long: `Reads --in as a CSV file (first row is the header) and writes the equivalent
COPY ... BINARY byte stream to --out, according to the column list in --columns.`,
		RunE: csv2BinaryCommand,
	}
	cobraflags.RegisterMap(cmd, csv2binFlags)
	return cmd
}

func csv2BinaryCommand(_ *cobra.Command, _ []string) error {
	inPath := csv2binFlags[csv2binInFlag].GetString()
	outPath := csv2binFlags[csv2binOutFlag].GetString()
	columnsSpec := csv2binFlags[csv2binSchemaFlag].GetString()
	if inPath == "" || outPath == "" || columnsSpec == "" {
		return fmt.Errorf("--in, --out, and --columns are all required")
	}

	columns, err := parseColumnsSpec(columnsSpec)
	if err != nil {
		return fmt.Errorf("parsing --columns: %w", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening --in: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating --out: %w", err)
	}
	defer out.Close()

	rows, err := csvbinary.CopyCSVToPGBinary(columns, in, out)
	if err != nil {
		return fmt.Errorf("encoding row %d: %w", rows+1, err)
	}

	fmt.Printf("wrote %d row(s) to %s\n", rows, outPath)
	return nil
}

// parseColumnsSpec parses "name:type[:null]" entries separated by commas into
// csvbinary.Column values. This is a CLI convenience format, not part of dbxform's public
// interface: real callers construct []csvbinary.Column programmatically or derive it from a
// portable.Schema via the dialect/postgres conversion.
func parseColumnsSpec(spec string) ([]csvbinary.Column, error) {
	parts := strings.Split(spec, ",")
	columns := make([]csvbinary.Column, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed column spec %q (want name:type[:null])", part)
		}
		pgType, err := postgres.Parse(fields[1])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", fields[0], err)
		}
		nullable := len(fields) == 3 && strings.EqualFold(fields[2], "null")
		columns = append(columns, csvbinary.Column{Name: fields[0], Type: pgType, Nullable: nullable})
	}
	return columns, nil
}
