// Package split exposes the composite-code Splitter as its own command, for
// inspecting the expanded record set before aggregation.
package split

import (
	"crs-report/cmd/root"
	"crs-report/internal/recordio"
	"crs-report/internal/splitter"

	"github.com/spf13/cobra"
)

// Cmd represents the split command
var Cmd = &cobra.Command{
	Use:   "split",
	Short: "Expand composite purpose codes into one record per code",
	Long: `Split reads the record CSV, expands every composite purpose code
("14030:50|15110:50") into one record per code with amounts scaled by the
percentage weights, and writes the expanded records back out.`,
	Run: splitFunc,
}

func splitFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Records == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("split requires --records and --output")
	}

	schema, err := root.LoadSchema()
	if err != nil {
		root.Log.Fatalf("Error loading schema: %v", err)
	}

	records, header, err := recordio.LoadRecords(root.SharedFlags.Records, schema.Amounts.Names())
	if err != nil {
		root.Log.Fatalf("Error loading records: %v", err)
	}

	expanded, warnings, err := splitter.Expand(records, schema.CompositeField, schema.Amounts.Names())
	if err != nil {
		root.Log.Fatalf("Error expanding composite codes: %v", err)
	}

	for _, w := range warnings {
		root.Log.WithField("field", w.Field).Warn(w.Reason)
	}

	if err := recordio.WriteRecords(root.SharedFlags.Output, expanded, header); err != nil {
		root.Log.Fatalf("Error writing expanded records: %v", err)
	}

	root.Log.Infof("Expanded %d records into %d", len(records), len(expanded))
}
