package engine

// Metrics receives counters from compilation and evaluation.
// Implementations must be safe for concurrent use; parallel batch
// evaluation reports errors from multiple goroutines. The telemetry
// package provides a Prometheus-backed implementation; a nil Metrics on
// the engine falls back to a no-op.
type Metrics interface {
	// RuleCompiled records one compile attempt with status "ok" or
	// "failed".
	RuleCompiled(status string)

	// RuleEvaluated records one finished dataset evaluation for a rule
	// with outcome "passed", "failed", "disabled" or "degraded".
	RuleEvaluated(ruleID, outcome string)

	// EvaluationError records one record-level evaluation error.
	EvaluationError(ruleID string)

	// BatchDuration records the wall time of one batch evaluation.
	BatchDuration(ruleID string, seconds float64)

	// ReportCompleted records one assembled report with status "passed",
	// "warnings" or "failed".
	ReportCompleted(status string)
}

type nopMetrics struct{}

func (nopMetrics) RuleCompiled(string)           {}
func (nopMetrics) RuleEvaluated(string, string)  {}
func (nopMetrics) EvaluationError(string)        {}
func (nopMetrics) BatchDuration(string, float64) {}
func (nopMetrics) ReportCompleted(string)        {}
