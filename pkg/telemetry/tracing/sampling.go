package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies. "always" records every evaluation, "never" records
// none, "ratio" records the configured fraction keyed on the trace ID so
// the decision is stable across services.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// createSampler builds the configured sampler. Every sampler is wrapped
// in ParentBased so a parent span's sampling decision carries through.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var base sdktrace.Sampler

	switch strategy {
	case SamplerAlways:
		base = sdktrace.AlwaysSample()

	case SamplerNever:
		base = sdktrace.NeverSample()

	case SamplerRatio:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		base = sdktrace.TraceIDRatioBased(ratio)

	default:
		return nil, fmt.Errorf("unsupported sampler strategy: %q", strategy)
	}

	return sdktrace.ParentBased(base), nil
}
