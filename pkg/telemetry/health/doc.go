// Package health provides liveness and readiness probes for the watch
// server. Readiness aggregates registered component checks, such as the
// rule source and the report archive, each run under a timeout.
package health
