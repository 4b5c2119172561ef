// Package store locates and loads the schema file that binds the rule table
// to the record data: column mappings, amount column names, markers and the
// skip placeholder.
package store

import (
	"os"
	"path/filepath"

	"crs-report/internal/enginerror"
	"crs-report/internal/logging"
	"crs-report/internal/models"
	"crs-report/internal/ruleset"

	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Markers configures the clause markers used by the rule spreadsheets.
type Markers struct {
	Exclusion string `yaml:"exclusion"`
	Wildcard  string `yaml:"wildcard"`
}

// Schema describes how one donor's rule table and record export fit together.
type Schema struct {
	// CompositeField is the record column carrying composite purpose codes.
	CompositeField string `yaml:"composite_field"`

	// FinanceField is the record column directive clauses filter on.
	FinanceField string `yaml:"finance_field"`

	// Placeholder is the directive value meaning "skip this sum".
	Placeholder string `yaml:"placeholder"`

	Markers Markers `yaml:"markers"`

	// Columns binds rule columns to record columns, in clause order.
	Columns models.ColumnMapping `yaml:"columns"`

	// Amounts names the record amount columns.
	Amounts models.AmountColumns `yaml:"amounts"`

	// RuleColumns names the bucket and directive columns of the rule table.
	RuleColumns ruleset.Columns `yaml:"rule_columns"`
}

// DefaultSchema returns the schema of the standard CRS record export.
func DefaultSchema() Schema {
	return Schema{
		CompositeField: "Purpose_code",
		FinanceField:   "Type_of_finance",
		Placeholder:    "n/a",
		Markers:        Markers{Exclusion: "<>", Wildcard: "x"},
		Columns: models.ColumnMapping{
			{RuleColumn: "Flow", RecordField: "Type_of_flow"},
			{RuleColumn: "Channel", RecordField: "Channel_code"},
			{RuleColumn: "Purpose", RecordField: "Purpose_code"},
			{RuleColumn: "PSI", RecordField: "PSI_flag"},
		},
		Amounts: models.AmountColumns{
			Extended:        "Amounts_extended",
			Commitments:     "Commitments",
			Received:        "Amounts_received",
			GrantEquivalent: "Grant_equivalent",
			Mobilised:       "Amounts_mobilised",
		},
		RuleColumns: ruleset.DefaultColumns(),
	}
}

// FindConfigFile looks for a configuration file in standard locations:
// the path itself, the working directory, ./config, and the user config dir.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "crs-report", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadSchema loads a schema YAML file. Fields left empty in the file fall
// back to the default schema, so a partial override file is enough.
func LoadSchema(filename string) (Schema, error) {
	if filename == "" {
		filename = "schema.yaml"
	}

	path, err := FindConfigFile(filename)
	if err != nil {
		log.WithField(logging.FieldFile, filename).Warn("Schema file not found, using defaults")
		return DefaultSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, &enginerror.LoadError{FilePath: path, Reason: "cannot read schema file", Err: err}
	}

	schema := DefaultSchema()
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Schema{}, &enginerror.LoadError{FilePath: path, Reason: "cannot parse schema YAML", Err: err}
	}

	log.WithField(logging.FieldFile, path).Info("Schema loaded")
	return schema, nil
}
