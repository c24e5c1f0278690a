package engine

import (
	"log/slog"
	"sync"
	"time"

	"meridian-data/ceres/pkg/quality"
	"meridian-data/ceres/pkg/quality/compiler"
	"meridian-data/ceres/pkg/quality/report"
)

// Rule is a compiled quality rule ready for evaluation. Construction
// never fails: an expression that does not compile produces a disabled
// rule that passes everything, logged once at construction so the
// degradation is visible without aborting the run.
type Rule struct {
	def        *RuleDefinition
	pred       *compiler.Predicate
	compileErr error
	cfg        Config
	logger     *slog.Logger
	metrics    Metrics
}

// NewRule compiles the definition's expression into a predicate. On
// compile failure the rule is returned disabled rather than dropped.
func NewRule(def *RuleDefinition, cfg Config, logger *slog.Logger, metrics Metrics) *Rule {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	r := &Rule{def: def, cfg: cfg, logger: logger, metrics: metrics}

	pred, err := compiler.Compile(def.Expression)
	if err != nil {
		r.compileErr = err
		logger.Warn("quality rule disabled, expression did not compile",
			"rule_id", def.ID,
			"expression", def.Expression,
			"error", err,
		)
		metrics.RuleCompiled("failed")
		return r
	}

	r.pred = pred
	metrics.RuleCompiled("ok")
	return r
}

// ID returns the rule's configured identifier.
func (r *Rule) ID() string { return r.def.ID }

// Level returns the rule's severity.
func (r *Rule) Level() quality.Level { return r.def.Level }

// Expression returns the rule's source expression.
func (r *Rule) Expression() string { return r.def.Expression }

// Definition returns the declarative form the rule was built from.
func (r *Rule) Definition() *RuleDefinition { return r.def }

// Disabled reports whether the expression failed to compile.
func (r *Rule) Disabled() bool { return r.compileErr != nil }

// Evaluate applies the rule to one record. A disabled rule passes
// everything; an evaluation error is returned for the caller to count.
func (r *Rule) Evaluate(record compiler.Record) (bool, error) {
	if r.pred == nil {
		return true, nil
	}
	return r.pred.Eval(record)
}

// EvaluateBatch applies the rule to every record, returning per-record
// verdicts in input order plus the count of records whose evaluation
// errored. Erroring records count as passed. Large batches are sharded
// across workers when the config allows; each worker writes only its own
// slice positions so order is preserved without reassembly.
func (r *Rule) EvaluateBatch(records []compiler.Record) ([]bool, int) {
	outcomes := make([]bool, len(records))

	if r.pred == nil {
		for i := range outcomes {
			outcomes[i] = true
		}
		return outcomes, 0
	}

	if r.cfg.Parallelism > 1 && len(records) >= r.cfg.ParallelThreshold {
		return outcomes, r.evalParallel(records, outcomes)
	}

	errCount := 0
	for i, rec := range records {
		pass, err := r.pred.Eval(rec)
		if err != nil {
			errCount++
			r.metrics.EvaluationError(r.def.ID)
			pass = true
		}
		outcomes[i] = pass
	}
	return outcomes, errCount
}

// evalParallel shards the batch into contiguous chunks, one worker per
// chunk. Predicates are read-only after compile so sharing one across
// goroutines is safe, and each worker writes disjoint positions of the
// outcome slice.
func (r *Rule) evalParallel(records []compiler.Record, outcomes []bool) int {
	workers := r.cfg.Parallelism
	if workers > len(records) {
		workers = len(records)
	}

	chunk := (len(records) + workers - 1) / workers
	errCounts := make([]int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(records) {
			hi = len(records)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				pass, err := r.pred.Eval(records[i])
				if err != nil {
					errCounts[w]++
					r.metrics.EvaluationError(r.def.ID)
					pass = true
				}
				outcomes[i] = pass
			}
		}(w, lo, hi)
	}
	wg.Wait()

	total := 0
	for _, n := range errCounts {
		total += n
	}
	return total
}

// EvaluateDataset applies the rule to the full dataset and assembles its
// RuleResult: counts, bounded failing indices and the outcome status.
func (r *Rule) EvaluateDataset(records []compiler.Record) *report.RuleResult {
	start := time.Now()
	outcomes, errCount := r.EvaluateBatch(records)
	r.metrics.BatchDuration(r.def.ID, time.Since(start).Seconds())

	result := &report.RuleResult{
		RuleID:      r.def.ID,
		Level:       r.def.Level,
		Expression:  r.def.Expression,
		TotalCount:  len(records),
		Description: r.def.Description,
		ErrorCount:  errCount,
		Status:      report.StatusOK,
	}

	for i, pass := range outcomes {
		if pass {
			result.PassedCount++
			continue
		}
		result.FailedCount++
		if len(result.FailedIndices) < r.cfg.MaxFailedIndices {
			result.FailedIndices = append(result.FailedIndices, i)
		}
	}
	result.Passed = result.FailedCount == 0

	switch {
	case r.compileErr != nil:
		result.Status = report.StatusDisabled
		result.ErrorMessage = r.compileErr.Error()
	case errCount > 0:
		result.Status = report.StatusDegraded
	}

	r.metrics.RuleEvaluated(r.def.ID, outcomeLabel(result))
	return result
}

func outcomeLabel(result *report.RuleResult) string {
	switch {
	case result.Status == report.StatusDisabled:
		return "disabled"
	case result.Status == report.StatusDegraded:
		return "degraded"
	case result.Passed:
		return "passed"
	default:
		return "failed"
	}
}
