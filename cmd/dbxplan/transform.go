package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/dbxform/connector"
	"github.com/stokaro/dbxform/dialect/trino"
	"github.com/stokaro/dbxform/sqlast"
	"github.com/stokaro/dbxform/transform"
)

const (
	transformConnectorFlag = "connector"
	transformTypeFlag      = "type"
)

var transformFlags = map[string]cobraflags.Flag{
	transformConnectorFlag: &cobraflags.StringFlag{
		Name:  transformConnectorFlag,
		Value: "hive",
		Usage: "Trino connector to plan against (hive, iceberg, memory)",
	},
	transformTypeFlag: &cobraflags.StringFlag{
		Name:  transformTypeFlag,
		Value: "",
		Usage: "Native Trino type text form, e.g. \"TIMESTAMP(9)\" (required)",
	},
}

func newTransformCommand() *cobra.Command {
	transformCmd := &cobra.Command{
		Use:   "transform",
		Short: "Plan a storage transform",
	}
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the storage transform for a native Trino type against a connector",
		Long: `Parses --type as a Trino native type and plans the StorageTransform a table
backed by --connector would need: the actual stored type plus the SQL expressions used to
move a value between its original type and that stored type.`,
		RunE: transformPlanCommand,
	}
	cobraflags.RegisterMap(planCmd, transformFlags)
	transformCmd.AddCommand(planCmd)
	return transformCmd
}

func transformPlanCommand(_ *cobra.Command, _ []string) error {
	connName := transformFlags[transformConnectorFlag].GetString()
	typeText := transformFlags[transformTypeFlag].GetString()
	if typeText == "" {
		return fmt.Errorf("--type is required")
	}

	conn, err := connector.Parse(connName)
	if err != nil {
		return err
	}

	original, err := trino.Parse(typeText)
	if err != nil {
		return fmt.Errorf("parsing --type: %w", err)
	}

	st, err := transform.Plan(conn, original)
	if err != nil {
		return fmt.Errorf("planning transform: %w", err)
	}

	x := sqlast.Var("x")
	y := sqlast.Var("y")
	fmt.Printf("original type:  %s\n", st.OriginalType)
	fmt.Printf("storage type:   %s\n", st.StorageType)
	fmt.Printf("identity:       %t\n", st.Transform.IsIdentity())
	fmt.Printf("store(x):       %s\n", st.StoreExpr(x))
	fmt.Printf("load(y):        %s\n", st.LoadExpr(y))
	return nil
}
