package config

import (
	"fmt"
	"strings"
)

// FieldError reports a validation failure for one configuration field.
type FieldError struct {
	Field   string
	Value   any
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (value: %v): %s", e.Field, e.Value, e.Message)
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"json", "text"}
	validBackends   = []string{"sqlite", "memory"}
	validSamplers   = []string{"always", "never", "ratio"}
)

// Validate checks the configuration for values that would break the
// engine at runtime. It assumes defaults have been applied.
func Validate(cfg *Config) error {
	if cfg.Rules.DebounceMS < 0 {
		return &FieldError{Field: "rules.debounce_ms", Value: cfg.Rules.DebounceMS, Message: "must be >= 0"}
	}

	if cfg.Engine.MaxFailedIndices < 0 {
		return &FieldError{Field: "engine.max_failed_indices", Value: cfg.Engine.MaxFailedIndices, Message: "must be >= 0"}
	}
	if cfg.Engine.Parallelism < 0 {
		return &FieldError{Field: "engine.parallelism", Value: cfg.Engine.Parallelism, Message: "must be >= 0"}
	}
	if cfg.Engine.ParallelThreshold < 0 {
		return &FieldError{Field: "engine.parallel_threshold", Value: cfg.Engine.ParallelThreshold, Message: "must be >= 0"}
	}

	if !contains(validLogLevels, strings.ToLower(cfg.Telemetry.Logging.Level)) {
		return &FieldError{
			Field: "telemetry.logging.level", Value: cfg.Telemetry.Logging.Level,
			Message: fmt.Sprintf("must be one of %v", validLogLevels),
		}
	}
	if !contains(validLogFormats, strings.ToLower(cfg.Telemetry.Logging.Format)) {
		return &FieldError{
			Field: "telemetry.logging.format", Value: cfg.Telemetry.Logging.Format,
			Message: fmt.Sprintf("must be one of %v", validLogFormats),
		}
	}

	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress == "" {
		return &FieldError{
			Field: "telemetry.metrics.listen_address", Value: "",
			Message: "required when metrics are enabled",
		}
	}

	if !contains(validSamplers, cfg.Telemetry.Tracing.Sampler) {
		return &FieldError{
			Field: "telemetry.tracing.sampler", Value: cfg.Telemetry.Tracing.Sampler,
			Message: fmt.Sprintf("must be one of %v", validSamplers),
		}
	}
	if r := cfg.Telemetry.Tracing.SampleRatio; r < 0 || r > 1 {
		return &FieldError{
			Field: "telemetry.tracing.sample_ratio", Value: r,
			Message: "must be between 0.0 and 1.0",
		}
	}
	if cfg.Telemetry.Tracing.Enabled && cfg.Telemetry.Tracing.Endpoint == "" {
		return &FieldError{
			Field: "telemetry.tracing.endpoint", Value: "",
			Message: "required when tracing is enabled",
		}
	}

	if !contains(validBackends, cfg.History.Backend) {
		return &FieldError{
			Field: "history.backend", Value: cfg.History.Backend,
			Message: fmt.Sprintf("must be one of %v", validBackends),
		}
	}
	if cfg.History.Enabled && cfg.History.Backend == "sqlite" && cfg.History.SQLite.Path == "" {
		return &FieldError{
			Field: "history.sqlite.path", Value: "",
			Message: "required for the sqlite backend",
		}
	}
	if cfg.History.Retention.Days < 0 {
		return &FieldError{Field: "history.retention.days", Value: cfg.History.Retention.Days, Message: "must be >= 0"}
	}
	if cfg.History.Retention.MaxReports < 0 {
		return &FieldError{Field: "history.retention.max_reports", Value: cfg.History.Retention.MaxReports, Message: "must be >= 0"}
	}

	return nil
}

func contains(valid []string, s string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}
