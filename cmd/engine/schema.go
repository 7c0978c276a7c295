package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-engine/internal/aiprofile"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the AI profile JSON schema",
	Long: `Emit the JSON schema describing the AI profile YAML format, for use by
profile authoring tools and CI validation.

Examples:
  engine schema
  engine schema --out profile.schema.json`,
	Run: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&flagSchemaOut, "out", "", "Write the schema to this file instead of stdout")
}

func runSchema(cmd *cobra.Command, args []string) {
	data, err := aiprofile.SchemaJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagSchemaOut == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(flagSchemaOut, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema written to %s\n", flagSchemaOut)
}
