// Package telemetry groups the observability subpackages.
//
//   - logging: structured slog logging in JSON or text
//   - metrics: Prometheus counters and histograms for rule evaluation
//   - tracing: OpenTelemetry spans for quality checks
//   - health: liveness and readiness probes for the watch server
package telemetry
