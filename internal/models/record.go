// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record represents one disbursement line item. Categorical columns are kept
// as strings because rule matching is string-based; amount columns are kept
// as NullDecimal so that "not reported" stays distinct from "reported as zero".
type Record struct {
	Fields  map[string]string
	Amounts map[string]decimal.NullDecimal
}

// NewRecord creates an empty record with both column maps allocated.
func NewRecord() Record {
	return Record{
		Fields:  make(map[string]string),
		Amounts: make(map[string]decimal.NullDecimal),
	}
}

// Field returns the categorical value for name, or "" when absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// HasField reports whether the categorical column exists on this record,
// regardless of its value.
func (r Record) HasField(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Amount returns the amount column value for name. The second return value is
// false when the column does not exist at all (as opposed to existing as null).
func (r Record) Amount(name string) (decimal.NullDecimal, bool) {
	v, ok := r.Amounts[name]
	return v, ok
}

// Clone returns a deep copy of the record. The Splitter derives per-code
// records from the original without sharing map storage.
func (r Record) Clone() Record {
	out := Record{
		Fields:  make(map[string]string, len(r.Fields)),
		Amounts: make(map[string]decimal.NullDecimal, len(r.Amounts)),
	}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	for k, v := range r.Amounts {
		out.Amounts[k] = v
	}
	return out
}

// ParseAmount parses a raw cell into a NullDecimal. Empty cells are null.
// Thousand separators (apostrophe) and decimal commas are normalized the way
// donor exports commonly format them.
func ParseAmount(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
