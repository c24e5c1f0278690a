package config

// Config is the root configuration for ceres. It covers rule loading, the
// evaluation engine, telemetry and the report archive.
type Config struct {
	// Rules configures where rule definitions are loaded from.
	Rules RulesConfig `yaml:"rules"`

	// Engine tunes batch evaluation.
	Engine EngineConfig `yaml:"engine"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// History configures the report archive.
	History HistoryConfig `yaml:"history"`
}

// RulesConfig locates and watches the rule set.
type RulesConfig struct {
	// Path is the rule file or a directory of rule files.
	Path string `yaml:"path"`

	// Watch reloads the rule set when files under Path change.
	Watch bool `yaml:"watch"`

	// DebounceMS is the quiet period after the last file event before a
	// reload fires.
	DebounceMS int `yaml:"debounce_ms"`
}

// EngineConfig tunes batch evaluation.
type EngineConfig struct {
	// MaxFailedIndices caps the failing record positions kept per rule.
	MaxFailedIndices int `yaml:"max_failed_indices"`

	// Parallelism is the worker count for large batches; zero or one
	// keeps evaluation single-goroutine.
	Parallelism int `yaml:"parallelism"`

	// ParallelThreshold is the minimum record count before a batch is
	// sharded.
	ParallelThreshold int `yaml:"parallel_threshold"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics server binds to.
	ListenAddress string `yaml:"listen_address"`

	// Path is the scrape path.
	Path string `yaml:"path"`

	// Namespace and Subsystem prefix every metric name.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig configures OpenTelemetry span export over OTLP gRPC.
type TracingConfig struct {
	// Enabled turns span export on. When off a noop tracer is used.
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in exported traces.
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector address, host:port.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the collector connection.
	Insecure bool `yaml:"insecure"`

	// Sampler is the sampling strategy: "always", "never" or "ratio".
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampled fraction for the "ratio" strategy.
	SampleRatio float64 `yaml:"sample_ratio"`

	// TimeoutMS bounds each export call.
	TimeoutMS int `yaml:"timeout_ms"`
}

// HistoryConfig configures report archiving.
type HistoryConfig struct {
	// Enabled turns archiving on.
	Enabled bool `yaml:"enabled"`

	// Backend selects the store: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention bounds the archive.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the sqlite archive backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// MaxOpenConns caps open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns caps idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeoutMS is how long a statement waits on a locked database.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// RetentionConfig bounds the report archive.
type RetentionConfig struct {
	// Days deletes reports older than this many days; zero disables.
	Days int `yaml:"days"`

	// MaxReports keeps at most this many reports; zero disables.
	MaxReports int `yaml:"max_reports"`

	// PruneSchedule is a standard cron expression; empty disables the
	// scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}
