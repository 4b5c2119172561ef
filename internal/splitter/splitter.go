// Package splitter expands records carrying a composite classification code
// into one record per code, scaling the amount columns by the encoded
// percentage weights. It runs before rule evaluation and is a pure transform.
package splitter

import (
	"strings"

	"crs-report/internal/enginerror"
	"crs-report/internal/logging"
	"crs-report/internal/models"

	"github.com/shopspring/decimal"
)

// PartDelimiter separates the (code, percentage) pairs of one composite value.
const PartDelimiter = "|"

// PercentSeparator separates a code from its percentage within one pair.
const PercentSeparator = ":"

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

var hundred = decimal.NewFromInt(100)

// Expand splits every record whose composite column encodes multiple codes
// ("14030:50|15110:50") into one record per code, with each column named in
// amountFields scaled by percentage/100. Records without a composite value
// pass through unchanged. Malformed percentages fall back to 100 and are
// reported as warnings; a record column named in amountFields that is not an
// amount column aborts with a configuration error.
func Expand(records []models.Record, compositeField string, amountFields []string) ([]models.Record, []models.Warning, error) {
	expanded := make([]models.Record, 0, len(records))
	var warnings []models.Warning

	for _, rec := range records {
		raw := strings.TrimSpace(rec.Field(compositeField))
		if raw == "" {
			expanded = append(expanded, rec)
			continue
		}

		parts := splitParts(raw)
		if len(parts) == 0 {
			// Delimiter-only value: nothing to parse, keep the record with
			// the code unset and full amounts.
			out := rec.Clone()
			out.Fields[compositeField] = ""
			expanded = append(expanded, out)
			warnings = append(warnings, models.Warning{
				Field:  compositeField,
				Reason: "composite value '" + raw + "' contains no codes",
			})
			continue
		}

		for _, part := range parts {
			code, pct, malformed := parsePart(part)
			if malformed {
				warnings = append(warnings, models.Warning{
					Field:  compositeField,
					Reason: "malformed percentage in '" + part + "', assuming 100",
				})
			}

			out := rec.Clone()
			out.Fields[compositeField] = code
			if err := scaleAmounts(out, amountFields, pct); err != nil {
				return nil, warnings, err
			}
			expanded = append(expanded, out)
		}
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(expanded)},
		logging.Field{Key: logging.FieldOperation, Value: "expand"},
	).Debug("Composite code expansion complete")

	return expanded, warnings, nil
}

func splitParts(raw string) []string {
	var parts []string
	for _, p := range strings.Split(raw, PartDelimiter) {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// parsePart extracts the code and percentage from one "code:percentage"
// fragment. The code is the longest leading digit run; fragments without any
// leading digits keep their literal code portion. A missing percentage is
// 100; a malformed one is 100 with malformed=true.
func parsePart(part string) (code string, pct decimal.Decimal, malformed bool) {
	codePart := part
	pctPart := ""
	if i := strings.Index(part, PercentSeparator); i >= 0 {
		codePart = part[:i]
		pctPart = strings.TrimSpace(part[i+1:])
	}
	codePart = strings.TrimSpace(codePart)

	code = leadingDigits(codePart)
	if code == "" {
		code = codePart
	}

	if pctPart == "" {
		return code, hundred, false
	}
	p, err := decimal.NewFromString(pctPart)
	if err != nil || p.IsNegative() {
		return code, hundred, true
	}
	return code, p, false
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

func scaleAmounts(rec models.Record, amountFields []string, pct decimal.Decimal) error {
	if pct.Equal(hundred) {
		// Still validate the column list so schema drift is caught even for
		// unweighted codes.
		for _, name := range amountFields {
			if _, ok := rec.Amounts[name]; !ok {
				return amountColumnError(rec, name)
			}
		}
		return nil
	}

	factor := pct.Div(hundred)
	for _, name := range amountFields {
		v, ok := rec.Amounts[name]
		if !ok {
			return amountColumnError(rec, name)
		}
		if v.Valid {
			rec.Amounts[name] = models.NullFrom(v.Decimal.Mul(factor))
		}
	}
	return nil
}

func amountColumnError(rec models.Record, name string) error {
	reason := "not present in the record schema"
	if rec.HasField(name) {
		reason = "is a categorical column, not an amount column"
	}
	return &enginerror.ConfigError{
		Component: "splitter",
		Field:     name,
		Reason:    reason,
	}
}
