// Command dbxplan is a demonstration CLI over dbxform's library surface: validating a
// portable schema, planning a storage transform for a single native Trino type against a
// connector, and streaming a CSV file into PostgreSQL COPY BINARY.
//
// Grounded on _examples/stokaro-ptah/cmd/packagemigrator/packagemigrator.go's root-command
// wiring (cobra + viper env-prefix binding) and cmd/generate/generate.go's
// cobraflags.RegisterMap subcommand-flag pattern.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "DBXPLAN"

var rootCmd = &cobra.Command{
	Use:   "dbxplan",
	Short: "Inspect and exercise dbxform's portable type algebra and storage-transform planner",
	Long: `dbxplan is a demonstration CLI over dbxform: it validates portable schema JSON
documents, plans the storage transform Trino would apply for a given connector and native
type, and streams a CSV file into PostgreSQL's COPY ... BINARY wire format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func main() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)

	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newTransformCommand())
	rootCmd.AddCommand(newCsv2BinaryCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1) //revive:disable-line:deep-exit
	}
}
