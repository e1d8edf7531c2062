package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/dbxform/portable"
)

const schemaFileFlag = "file"

var schemaFlags = map[string]cobraflags.Flag{
	schemaFileFlag: &cobraflags.StringFlag{
		Name:  schemaFileFlag,
		Value: "",
		Usage: "Path to a portable schema JSON document (required)",
	},
}

func newSchemaCommand() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Validate a portable schema document",
	}
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a portable schema JSON document",
		Long: `Parses the JSON document at --file into a portable.Schema and runs Validate,
reporting the first unknown named type, cyclic reference, duplicate field/column, or empty
one_of it finds.`,
		RunE: schemaValidateCommand,
	}
	cobraflags.RegisterMap(validateCmd, schemaFlags)
	schemaCmd.AddCommand(validateCmd)
	return schemaCmd
}

func schemaValidateCommand(_ *cobra.Command, _ []string) error {
	path := schemaFlags[schemaFileFlag].GetString()
	if path == "" {
		return fmt.Errorf("--file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}

	var schema portable.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return fmt.Errorf("parsing schema document: %w", err)
	}

	if err := schema.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Printf("OK: table %q with %d column(s), %d named type(s)\n",
		schema.Table.Name, len(schema.Table.Columns), len(schema.NamedTypes))
	return nil
}
