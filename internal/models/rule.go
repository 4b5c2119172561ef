package models

import "strings"

// Rule is one row of the bucket table: a bucket identifier, the raw filter
// clauses keyed by rule column name, and the seven aggregation directives.
// Clause and directive values are kept raw here; the filter package compiles
// them on demand.
type Rule struct {
	Bucket     string
	Clauses    map[string]string
	Directives Directives
}

// Directive is one resolved aggregation directive. The spreadsheet encodes
// "skip this sum" as a placeholder value; that sentinel is resolved here at
// load time so the engine never compares strings against it.
type Directive struct {
	// Skip marks the sum as not applicable for the bucket; it stays null.
	Skip bool

	// Expr is a filter clause applied to the finance-type column before
	// summing. Empty means sum unconditionally over the filtered set.
	Expr string
}

// ParseDirective resolves a raw directive cell against the placeholder.
func ParseDirective(raw, placeholder string) Directive {
	trimmed := strings.TrimSpace(raw)
	if placeholder != "" && trimmed == placeholder {
		return Directive{Skip: true}
	}
	return Directive{Expr: raw}
}

// Directives holds the seven aggregation directives of a rule.
type Directives struct {
	Grants    Directive
	NonGrants Directive
	Received  Directive
	Positive  Directive
	Negative  Directive
	Net       Directive
	Mobilised Directive
}

// Clause returns the raw clause value for a rule column. The second return
// value is false when the rule row did not carry that column at all, which
// callers surface as a data-quality warning.
func (r Rule) Clause(column string) (string, bool) {
	v, ok := r.Clauses[column]
	return v, ok
}

// FieldMapping binds one rule column to the record column its clause filters.
type FieldMapping struct {
	RuleColumn  string `yaml:"rule_column"`
	RecordField string `yaml:"record_field"`
}

// ColumnMapping is the ordered list of rule-to-record column bindings. Order
// matters: clauses are applied in mapping order.
type ColumnMapping []FieldMapping

// AmountColumns names the record amount columns each aggregate draws from.
type AmountColumns struct {
	Extended        string `yaml:"extended"`
	Commitments     string `yaml:"commitments"`
	Received        string `yaml:"received"`
	GrantEquivalent string `yaml:"grant_equivalent"`
	Mobilised       string `yaml:"mobilised"`
}

// Names returns the configured column names, skipping empty entries.
func (a AmountColumns) Names() []string {
	var out []string
	for _, n := range []string{a.Extended, a.Commitments, a.Received, a.GrantEquivalent, a.Mobilised} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
