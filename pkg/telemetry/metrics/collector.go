package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config names the metric namespace and subsystem.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns the metric naming defaults.
func DefaultConfig() *Config {
	return &Config{Namespace: "ceres", Subsystem: "quality"}
}

// Collector tracks rule engine metrics. It satisfies the engine's Metrics
// interface.
//
// Metrics:
//   - ceres_quality_rule_compilations_total: compile attempts by status
//   - ceres_quality_rule_evaluations_total: dataset evaluations by rule and outcome
//   - ceres_quality_evaluation_errors_total: record-level evaluation errors by rule
//   - ceres_quality_batch_duration_seconds: batch evaluation duration by rule
//   - ceres_quality_reports_total: assembled reports by status
type Collector struct {
	registry *prometheus.Registry

	compilationsTotal *prometheus.CounterVec
	evaluationsTotal  *prometheus.CounterVec
	evalErrorsTotal   *prometheus.CounterVec
	batchDuration     *prometheus.HistogramVec
	reportsTotal      *prometheus.CounterVec
}

// NewCollector creates and registers the rule engine metrics with the
// provided registry. A nil registry gets a fresh one.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		compilationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_compilations_total",
				Help:      "Total number of rule expression compilations",
			},
			[]string{"status"},
		),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_evaluations_total",
				Help:      "Total number of dataset evaluations per rule",
			},
			[]string{"rule_id", "outcome"},
		),

		evalErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_errors_total",
				Help:      "Total number of record-level evaluation errors",
			},
			[]string{"rule_id"},
		),

		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_duration_seconds",
				Help:      "Duration of one batch evaluation in seconds",
				// Per-record evaluation is microseconds; batches span
				// from tiny test sets to millions of records.
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"rule_id"},
		),

		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reports_total",
				Help:      "Total number of assembled quality reports",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.compilationsTotal,
		c.evaluationsTotal,
		c.evalErrorsTotal,
		c.batchDuration,
		c.reportsTotal,
	)

	return c
}

// RuleCompiled records one compile attempt with status "ok" or "failed".
func (c *Collector) RuleCompiled(status string) {
	c.compilationsTotal.WithLabelValues(status).Inc()
}

// RuleEvaluated records one finished dataset evaluation for a rule.
func (c *Collector) RuleEvaluated(ruleID, outcome string) {
	c.evaluationsTotal.WithLabelValues(ruleID, outcome).Inc()
}

// EvaluationError records one record-level evaluation error.
func (c *Collector) EvaluationError(ruleID string) {
	c.evalErrorsTotal.WithLabelValues(ruleID).Inc()
}

// BatchDuration records the wall time of one batch evaluation.
func (c *Collector) BatchDuration(ruleID string, seconds float64) {
	c.batchDuration.WithLabelValues(ruleID).Observe(seconds)
}

// ReportCompleted records one assembled report with status "passed",
// "warnings" or "failed".
func (c *Collector) ReportCompleted(status string) {
	c.reportsTotal.WithLabelValues(status).Inc()
}
