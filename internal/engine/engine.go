// Package engine evaluates bucket rules against the expanded record set. One
// rule turns into one result row: the categorical clauses of the rule narrow
// the record set, then each aggregation directive computes a conditional sum
// over the survivors. Rule evaluations are pure and independent, which lets
// EvaluateRules fan them out across workers.
package engine

import (
	"crs-report/internal/enginerror"
	"crs-report/internal/filter"
	"crs-report/internal/logging"
	"crs-report/internal/models"

	"github.com/shopspring/decimal"
)

// signConstraint restricts which record values contribute to a sum.
type signConstraint int

const (
	signAny signConstraint = iota
	signPositive
	signNegative
)

// Options configures an Engine. Mapping order defines the order in which
// clauses narrow the candidate set.
type Options struct {
	// Mapping binds rule columns to the record columns their clauses filter.
	Mapping models.ColumnMapping

	// FinanceField is the record column that directive clauses filter on.
	FinanceField string

	// Amounts names the amount columns the nine sums draw from.
	Amounts models.AmountColumns

	// Workers bounds the parallel rule evaluations; 0 picks a default.
	Workers int

	Logger logging.Logger
}

// Engine evaluates rules. Safe for concurrent use: it holds no mutable state
// beyond its immutable options.
type Engine struct {
	opts   Options
	logger logging.Logger
}

// New creates an Engine from the given options.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{opts: opts, logger: logger}
}

// Evaluate computes the result row for one rule. Warnings report rule rows
// missing a mapped column; the error return is reserved for configuration
// errors, which must abort the whole run.
func (e *Engine) Evaluate(rule models.Rule, records []models.Record) (models.BucketResult, []models.Warning, error) {
	if err := e.validateSchema(records); err != nil {
		return models.BucketResult{}, nil, err
	}
	return e.evaluate(rule, records)
}

// evaluate assumes the schema has already been validated.
func (e *Engine) evaluate(rule models.Rule, records []models.Record) (models.BucketResult, []models.Warning, error) {
	candidates, warnings := e.applyClauses(rule, records)

	e.logger.WithFields(
		logging.Field{Key: logging.FieldBucket, Value: rule.Bucket},
		logging.Field{Key: logging.FieldCount, Value: len(candidates)},
	).Debug("Rule clauses applied")

	res := models.BucketResult{Bucket: rule.Bucket}
	d := rule.Directives
	amounts := e.opts.Amounts

	res.GrantsExtended = e.directiveSum(d.Grants, candidates, amounts.Extended, signAny)
	res.GrantsCommitments = e.directiveSum(d.Grants, candidates, amounts.Commitments, signAny)
	res.NonGrantsExtended = e.directiveSum(d.NonGrants, candidates, amounts.Extended, signAny)
	res.NonGrantsCommitments = e.directiveSum(d.NonGrants, candidates, amounts.Commitments, signAny)

	// Received amounts are reported outflow-negative in the bucket.
	if recv := e.directiveSum(d.Received, candidates, amounts.Received, signAny); recv.Valid {
		res.Received = models.NullFrom(recv.Decimal.Neg())
	}

	res.GrantEquivPositive = e.directiveSum(d.Positive, candidates, amounts.GrantEquivalent, signPositive)
	res.GrantEquivNegative = e.directiveSum(d.Negative, candidates, amounts.GrantEquivalent, signNegative)
	res.GrantEquivNet = e.directiveSum(d.Net, candidates, amounts.GrantEquivalent, signAny)
	res.Mobilised = e.directiveSum(d.Mobilised, candidates, amounts.Mobilised, signAny)

	return res, warnings, nil
}

// applyClauses narrows the record set clause by clause in mapping order.
// An empty clause is a no-op; a rule row missing the column altogether is a
// warning and then treated as empty.
func (e *Engine) applyClauses(rule models.Rule, records []models.Record) ([]models.Record, []models.Warning) {
	candidates := records
	var warnings []models.Warning

	for _, m := range e.opts.Mapping {
		raw, ok := rule.Clause(m.RuleColumn)
		if !ok {
			warnings = append(warnings, models.Warning{
				Bucket: rule.Bucket,
				Field:  m.RuleColumn,
				Reason: "rule row is missing this column, treating as empty",
			})
			continue
		}
		clause := filter.Compile(raw)
		if clause.Empty() {
			continue
		}

		next := make([]models.Record, 0, len(candidates))
		for _, rec := range candidates {
			if clause.Matches(rec.Field(m.RecordField)) {
				next = append(next, rec)
			}
		}
		candidates = next
	}

	return candidates, warnings
}

// directiveSum computes one conditional sum. A skipped directive stays null.
// A sum with zero non-null contributors is also null, not zero: "no data
// matched" and "matched data summed to zero" stay distinguishable downstream.
func (e *Engine) directiveSum(d models.Directive, records []models.Record, amountColumn string, sign signConstraint) decimal.NullDecimal {
	if d.Skip {
		return decimal.NullDecimal{}
	}

	clause := filter.Compile(d.Expr)
	sum := decimal.Zero
	contributed := false

	for _, rec := range records {
		if !clause.Matches(rec.Field(e.opts.FinanceField)) {
			continue
		}
		v, ok := rec.Amount(amountColumn)
		if !ok || !v.Valid {
			continue
		}
		switch sign {
		case signPositive:
			if !v.Decimal.IsPositive() {
				continue
			}
		case signNegative:
			if !v.Decimal.IsNegative() {
				continue
			}
		}
		sum = sum.Add(v.Decimal)
		contributed = true
	}

	if !contributed {
		return decimal.NullDecimal{}
	}
	return models.NullFrom(sum)
}

// validateSchema checks that every mapped record column and every configured
// amount column exists in the loaded data. A mismatch means the bucket table
// and the record schema are out of sync, which is fatal for the whole run.
func (e *Engine) validateSchema(records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	probe := records[0]

	for _, m := range e.opts.Mapping {
		if !probe.HasField(m.RecordField) {
			return &enginerror.ConfigError{
				Component: "engine",
				Field:     m.RecordField,
				Reason:    "mapped from rule column '" + m.RuleColumn + "' but absent from the record schema",
			}
		}
	}

	if !probe.HasField(e.opts.FinanceField) {
		return &enginerror.ConfigError{
			Component: "engine",
			Field:     e.opts.FinanceField,
			Reason:    "finance-type column absent from the record schema",
		}
	}

	for _, name := range e.opts.Amounts.Names() {
		if _, ok := probe.Amount(name); !ok {
			return &enginerror.ConfigError{
				Component: "engine",
				Field:     name,
				Reason:    "amount column absent from the record schema",
			}
		}
	}
	return nil
}
