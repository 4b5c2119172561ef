// Package ruleset loads the bucket rule table. The table is authored as a
// spreadsheet, so the primary format is .xlsx; a CSV export of the same
// layout is accepted as well. The first row is the header; every following
// row becomes one rule.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crs-report/internal/enginerror"
	"crs-report/internal/logging"
	"crs-report/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Columns names the special columns of the rule table: the bucket identifier
// and the seven aggregation directives. Every other column is a filter clause
// column.
type Columns struct {
	Bucket    string `yaml:"bucket"`
	Grants    string `yaml:"grants"`
	NonGrants string `yaml:"non_grants"`
	Received  string `yaml:"received"`
	Positive  string `yaml:"positive"`
	Negative  string `yaml:"negative"`
	Net       string `yaml:"net"`
	Mobilised string `yaml:"mobilised"`
}

// DefaultColumns returns the column names used by the standard bucket sheets.
func DefaultColumns() Columns {
	return Columns{
		Bucket:    "Bucket",
		Grants:    "Grants",
		NonGrants: "Non_grants",
		Received:  "Received",
		Positive:  "Positive",
		Negative:  "Negative",
		Net:       "Net",
		Mobilised: "Mobilised",
	}
}

func (c Columns) directiveColumns() []string {
	return []string{c.Grants, c.NonGrants, c.Received, c.Positive, c.Negative, c.Net, c.Mobilised}
}

// Load reads the rule table at path, choosing the parser by file extension.
// Directive cells equal to placeholder resolve to skip markers; rows without
// a bucket identifier are skipped with a warning rather than failing the run.
func Load(path string, cols Columns, placeholder string) ([]models.Rule, []models.Warning, error) {
	var (
		rows []map[string]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = loadXLSX(path)
	default:
		rows, err = loadCSV(path)
	}
	if err != nil {
		return nil, nil, err
	}
	return buildRules(rows, cols, placeholder)
}

func loadCSV(path string) ([]map[string]string, error) {
	log.WithField(logging.FieldFile, path).Info("Reading rule table (CSV)")

	f, err := os.Open(path)
	if err != nil {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "cannot open rule table", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close rule table")
		}
	}()

	rows, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "cannot parse rule table CSV", Err: err}
	}
	return rows, nil
}

func loadXLSX(path string) ([]map[string]string, error) {
	log.WithField(logging.FieldFile, path).Info("Reading rule table (XLSX)")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "cannot open workbook", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "workbook has no sheets"}
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "cannot read sheet rows", Err: err}
	}
	if len(raw) == 0 {
		return nil, &enginerror.LoadError{FilePath: path, Reason: "sheet is empty"}
	}

	header := raw[0]
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			// GetRows drops trailing empty cells; missing cells are empty.
			if i < len(cells) {
				row[col] = strings.TrimSpace(cells[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRules(rows []map[string]string, cols Columns, placeholder string) ([]models.Rule, []models.Warning, error) {
	directiveSet := make(map[string]bool)
	for _, d := range cols.directiveColumns() {
		directiveSet[d] = true
	}

	rules := make([]models.Rule, 0, len(rows))
	var warnings []models.Warning

	for i, row := range rows {
		bucket := strings.TrimSpace(row[cols.Bucket])
		if bucket == "" {
			warnings = append(warnings, models.Warning{
				Field:  cols.Bucket,
				Reason: rowReason(i, "has no bucket identifier, skipping"),
			})
			continue
		}

		rule := models.Rule{
			Bucket:  bucket,
			Clauses: make(map[string]string),
			Directives: models.Directives{
				Grants:    models.ParseDirective(row[cols.Grants], placeholder),
				NonGrants: models.ParseDirective(row[cols.NonGrants], placeholder),
				Received:  models.ParseDirective(row[cols.Received], placeholder),
				Positive:  models.ParseDirective(row[cols.Positive], placeholder),
				Negative:  models.ParseDirective(row[cols.Negative], placeholder),
				Net:       models.ParseDirective(row[cols.Net], placeholder),
				Mobilised: models.ParseDirective(row[cols.Mobilised], placeholder),
			},
		}

		for col, val := range row {
			if col == cols.Bucket || directiveSet[col] {
				continue
			}
			rule.Clauses[col] = val
		}
		rules = append(rules, rule)
	}

	log.WithField(logging.FieldCount, len(rules)).Info("Rule table loaded")
	return rules, warnings, nil
}

func rowReason(index int, msg string) string {
	// +2: one for the header row, one for 1-based numbering.
	return fmt.Sprintf("rule table row %d %s", index+2, msg)
}
