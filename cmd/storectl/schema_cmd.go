package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/warren/pkg/store"
	"github.com/cuemby/warren/pkg/types"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect schema manifests",
}

var schemaApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Register a schema manifest and print the resulting store's table layout",
	Long: `apply loads a schema manifest, constructs a Store from it (proving the
manifest is well-formed and free of reserved field names), and prints
every table's field layout. It does not persist anything; it is a
validation and inspection step for a manifest you intend to hand to
"storectl serve" or "storectl demo".`,
	RunE: runSchemaApply,
}

func init() {
	schemaApplyCmd.Flags().StringP("file", "f", "", "Schema manifest file (required)")
	_ = schemaApplyCmd.MarkFlagRequired("file")
	schemaCmd.AddCommand(schemaApplyCmd)
}

func runSchemaApply(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	schemas, err := loadSchemas(path)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	s, err := store.New(store.Config{StoreID: 1, Schemas: schemas})
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	defer s.Close()

	fmt.Printf("Registered %d table(s) from %s:\n\n", len(schemas), path)
	for _, schema := range schemas {
		table, err := s.Table(schema.ID)
		if err != nil {
			return err
		}
		fmt.Printf("- %s (%d record(s))\n", schema.ID, table.Len())
		for _, name := range schema.FieldNames() {
			fs := schema.Fields[name]
			fmt.Printf("    %-12s %s", name, fs.Kind)
			if fs.Undoable {
				fmt.Print(" undoable")
			}
			if fs.Kind == types.FieldKindRegister && fs.Default != nil {
				fmt.Printf(" default=%v", fs.Default)
			}
			fmt.Println()
		}
	}
	return nil
}
