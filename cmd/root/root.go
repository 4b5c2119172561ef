// Package root contains the root command for the application
package root

import (
	"os"

	"crs-report/internal/config"
	"crs-report/internal/filter"
	"crs-report/internal/logging"
	"crs-report/internal/recordio"
	"crs-report/internal/ruleset"
	"crs-report/internal/splitter"
	"crs-report/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Records string
	Output  string
	Schema  string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "crs-report",
		Short: "A CLI tool to aggregate aid disbursement records into reporting buckets.",
		Long: `crs-report classifies granular aid disbursement records into reporting
buckets using a spreadsheet-authored rule table, expanding composite purpose
codes first and then summing matched amounts per bucket.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to crs-report!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Hand the configured logger to every internal package.
			adapted := logging.NewLogrusAdapterFromLogger(Log)
			logging.SetDefaultLogger(adapted)
			splitter.SetLogger(adapted)
			ruleset.SetLogger(adapted)
			recordio.SetLogger(adapted)
			store.SetLogger(adapted)

			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				recordio.SetDelimiter([]rune(delim)[0])
			}
		},
	}

	// SharedFlags holds common flag values accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Records, "records", "i", "", "Record CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Schema, "schema", "s", "", "Schema YAML file (defaults to schema.yaml lookup)")
}

// LoadSchema loads the schema named by the shared flag and applies its
// markers to the filter language.
func LoadSchema() (store.Schema, error) {
	schema, err := store.LoadSchema(SharedFlags.Schema)
	if err != nil {
		return store.Schema{}, err
	}
	filter.SetMarkers(schema.Markers.Exclusion, schema.Markers.Wildcard)
	return schema, nil
}
