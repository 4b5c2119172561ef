// Package recordio loads disbursement records from CSV and writes result and
// record tables back out. Record files have a dynamic column set, so they are
// read into maps; the fixed-schema result table goes through gocsv struct tags.
package recordio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"crs-report/internal/enginerror"
	"crs-report/internal/logging"
	"crs-report/internal/models"

	"github.com/gocarina/gocsv"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Delimiter used when writing CSV output.
var Delimiter rune = ','

// SetDelimiter configures the output delimiter for all CSV writing.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = delim
		return gocsv.NewSafeCSVWriter(w)
	})
}

// LoadRecords reads a record CSV into models. Columns named in amountColumns
// are parsed as decimals (empty cell = null); every other column stays a
// string, which is what clause matching requires. The header order is
// returned so writers can preserve the source layout.
func LoadRecords(filePath string, amountColumns []string) ([]models.Record, []string, error) {
	log.WithField(logging.FieldFile, filePath).Info("Reading record file")

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, &enginerror.LoadError{FilePath: filePath, Reason: "cannot read file", Err: err}
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, nil, &enginerror.LoadError{FilePath: filePath, Reason: "cannot read header row", Err: err}
	}

	rows, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &enginerror.LoadError{FilePath: filePath, Reason: "cannot parse CSV body", Err: err}
	}

	amountSet := make(map[string]bool, len(amountColumns))
	for _, c := range amountColumns {
		amountSet[c] = true
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rec := models.NewRecord()
		for col, raw := range row {
			if !amountSet[col] {
				rec.Fields[col] = raw
				continue
			}
			v, err := models.ParseAmount(raw)
			if err != nil {
				return nil, nil, &enginerror.ParseError{
					Component: "recordio",
					Field:     fmt.Sprintf("%s (row %d)", col, i+2),
					Value:     raw,
					Err:       err,
				}
			}
			rec.Amounts[col] = v
		}
		records = append(records, rec)
	}

	log.WithField(logging.FieldCount, len(records)).Info("Record file loaded")
	return records, header, nil
}

// WriteResults writes the bucket result table as CSV.
func WriteResults(filePath string, results []models.BucketResult) error {
	log.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(results)},
	).Info("Writing result table")

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close output file")
		}
	}()

	if err := gocsv.MarshalFile(&results, f); err != nil {
		return fmt.Errorf("error writing result CSV: %w", err)
	}
	return nil
}

// WriteRecords writes expanded records back out in the given column order.
// Record rows have a per-run column set, so this goes through encoding/csv
// directly rather than gocsv's struct-tag marshalling.
func WriteRecords(filePath string, records []models.Record, columns []string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close output file")
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = Delimiter

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			if v, ok := rec.Amount(col); ok {
				if v.Valid {
					row[i] = v.Decimal.String()
				} else {
					row[i] = ""
				}
				continue
			}
			row[i] = rec.Field(col)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
