// Package metrics exposes the rule engine's Prometheus metrics:
// compilations, per-rule evaluations and errors, batch durations and
// report outcomes.
package metrics
