package models

import "github.com/shopspring/decimal"

// BucketResult is the aggregate row produced for one rule. Null sums render
// as empty CSV cells, which downstream consumers read as "not applicable" or
// "not reported" rather than zero.
type BucketResult struct {
	Bucket               string              `csv:"Bucket"`
	GrantsExtended       decimal.NullDecimal `csv:"Grants_extended"`
	GrantsCommitments    decimal.NullDecimal `csv:"Grants_commitments"`
	NonGrantsExtended    decimal.NullDecimal `csv:"Non_grants_extended"`
	NonGrantsCommitments decimal.NullDecimal `csv:"Non_grants_commitments"`
	Received             decimal.NullDecimal `csv:"Amounts_received"`
	GrantEquivPositive   decimal.NullDecimal `csv:"Grant_equivalent_positive"`
	GrantEquivNegative   decimal.NullDecimal `csv:"Grant_equivalent_negative"`
	GrantEquivNet        decimal.NullDecimal `csv:"Grant_equivalent_net"`
	Mobilised            decimal.NullDecimal `csv:"Amounts_mobilised"`
}

// Warning is one accumulated data-quality finding. Warnings never abort the
// run; they are collected and reported as a summary after completion.
type Warning struct {
	Bucket string
	Field  string
	Reason string
}

// NullFrom wraps a plain decimal into a valid NullDecimal.
func NullFrom(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
