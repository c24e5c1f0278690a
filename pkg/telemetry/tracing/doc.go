// Package tracing exports evaluation spans over OTLP gRPC.
//
// Each quality check is one span carrying the dataset shape and the
// aggregate verdict as ceres.* attributes. Sampling is configurable
// (always, never, or trace-ID ratio) and a disabled tracer is a noop.
package tracing
