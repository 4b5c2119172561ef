// Package aggregate runs the full pipeline: load records and rules, expand
// composite purpose codes, evaluate every rule and write the bucket table.
package aggregate

import (
	"crs-report/cmd/root"
	"crs-report/internal/config"
	"crs-report/internal/engine"
	"crs-report/internal/logging"
	"crs-report/internal/models"
	"crs-report/internal/recordio"
	"crs-report/internal/ruleset"
	"crs-report/internal/splitter"

	"github.com/spf13/cobra"
)

var rulesFile string

// Cmd represents the aggregate command
var Cmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate disbursement records into reporting buckets",
	Long: `Aggregate loads the record CSV and the rule table, expands composite
purpose codes, evaluates every rule and writes one result row per bucket.`,
	Run: aggregateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Rule table file (.xlsx or .csv)")
}

func aggregateFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Records == "" || rulesFile == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("aggregate requires --records, --rules and --output")
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		root.Log.Fatalf("Error loading configuration: %v", err)
	}

	schema, err := root.LoadSchema()
	if err != nil {
		root.Log.Fatalf("Error loading schema: %v", err)
	}

	records, _, err := recordio.LoadRecords(root.SharedFlags.Records, schema.Amounts.Names())
	if err != nil {
		root.Log.Fatalf("Error loading records: %v", err)
	}

	rules, ruleWarnings, err := ruleset.Load(rulesFile, schema.RuleColumns, schema.Placeholder)
	if err != nil {
		root.Log.Fatalf("Error loading rule table: %v", err)
	}

	expanded, splitWarnings, err := splitter.Expand(records, schema.CompositeField, schema.Amounts.Names())
	if err != nil {
		root.Log.Fatalf("Error expanding composite codes: %v", err)
	}

	eng := engine.New(engine.Options{
		Mapping:      schema.Columns,
		FinanceField: schema.FinanceField,
		Amounts:      schema.Amounts,
		Workers:      cfg.Engine.Workers,
		Logger:       logging.NewLogrusAdapterFromLogger(root.Log),
	})

	results, evalWarnings, err := eng.EvaluateRules(rules, expanded)
	if err != nil {
		root.Log.Fatalf("Error evaluating rules: %v", err)
	}

	if err := recordio.WriteResults(root.SharedFlags.Output, results); err != nil {
		root.Log.Fatalf("Error writing results: %v", err)
	}

	reportWarnings(ruleWarnings, splitWarnings, evalWarnings)
	root.Log.Infof("Aggregated %d records into %d buckets", len(expanded), len(results))
}

// reportWarnings surfaces the accumulated data-quality warnings as a summary
// after the run completes.
func reportWarnings(groups ...[]models.Warning) {
	total := 0
	for _, group := range groups {
		for _, w := range group {
			entry := root.Log.WithField("reason", w.Reason)
			if w.Bucket != "" {
				entry = entry.WithField("bucket", w.Bucket)
			}
			if w.Field != "" {
				entry = entry.WithField("field", w.Field)
			}
			entry.Warn("Data-quality warning")
			total++
		}
	}
	if total > 0 {
		root.Log.Warnf("Run completed with %d data-quality warnings", total)
	}
}
