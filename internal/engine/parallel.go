package engine

import (
	"runtime"
	"sort"
	"strconv"
	"sync"

	"crs-report/internal/logging"
	"crs-report/internal/models"
)

// sequentialThreshold is the rule count below which fan-out is not worth the
// scheduling overhead.
const sequentialThreshold = 16

type indexedResult struct {
	index    int
	result   models.BucketResult
	warnings []models.Warning
	err      error
}

// EvaluateRules evaluates every rule against the shared record set and
// returns the result rows ordered by bucket identifier. Rule evaluations are
// independent, so large rule tables run on a bounded worker pool. Warnings
// from all rules are accumulated in rule order; the first configuration error
// aborts the run.
func (e *Engine) EvaluateRules(rules []models.Rule, records []models.Record) ([]models.BucketResult, []models.Warning, error) {
	if err := e.validateSchema(records); err != nil {
		return nil, nil, err
	}

	var collected []indexedResult
	if len(rules) < sequentialThreshold {
		collected = e.evaluateSequential(rules, records)
	} else {
		collected = e.evaluateConcurrent(rules, records)
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	results := make([]models.BucketResult, 0, len(rules))
	var warnings []models.Warning
	for _, r := range collected {
		if r.err != nil {
			return nil, warnings, r.err
		}
		results = append(results, r.result)
		warnings = append(warnings, r.warnings...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return bucketLess(results[i].Bucket, results[j].Bucket)
	})

	e.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(results)},
		logging.Field{Key: logging.FieldOperation, Value: "evaluate_rules"},
	).Info("Rule evaluation complete")

	return results, warnings, nil
}

func (e *Engine) evaluateSequential(rules []models.Rule, records []models.Record) []indexedResult {
	out := make([]indexedResult, 0, len(rules))
	for i, rule := range rules {
		res, warns, err := e.evaluate(rule, records)
		out = append(out, indexedResult{index: i, result: res, warnings: warns, err: err})
	}
	return out
}

func (e *Engine) evaluateConcurrent(rules []models.Rule, records []models.Record) []indexedResult {
	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int, workers)
	resultChan := make(chan indexedResult, len(rules))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, warns, err := e.evaluate(rules[i], records)
				resultChan <- indexedResult{index: i, result: res, warnings: warns, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range rules {
			jobs <- i
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	out := make([]indexedResult, 0, len(rules))
	for r := range resultChan {
		out = append(out, r)
	}
	return out
}

// bucketLess orders bucket identifiers numerically when both sides are
// numeric ("240" before "1130"), falling back to lexicographic order.
func bucketLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
