package config

// Default values for configuration fields.
const (
	DefaultRulesDebounceMS = 100

	DefaultMaxFailedIndices  = 1000
	DefaultParallelism       = 1
	DefaultParallelThreshold = 10000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "ceres"
	DefaultMetricsSubsystem     = "quality"

	DefaultTracingServiceName = "ceres"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingTimeoutMS   = 10000

	DefaultHistoryBackend     = "sqlite"
	DefaultSQLitePath         = "data/quality_history.db"
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteBusyTimeout  = 5000

	DefaultRetentionDays = 30
)

// ApplyDefaults fills unset fields with their defaults. Booleans keep
// their zero value; only empty strings and zero numbers are defaulted.
func ApplyDefaults(cfg *Config) {
	if cfg.Rules.DebounceMS == 0 {
		cfg.Rules.DebounceMS = DefaultRulesDebounceMS
	}

	if cfg.Engine.MaxFailedIndices == 0 {
		cfg.Engine.MaxFailedIndices = DefaultMaxFailedIndices
	}
	if cfg.Engine.Parallelism == 0 {
		cfg.Engine.Parallelism = DefaultParallelism
	}
	if cfg.Engine.ParallelThreshold == 0 {
		cfg.Engine.ParallelThreshold = DefaultParallelThreshold
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.TimeoutMS == 0 {
		cfg.Telemetry.Tracing.TimeoutMS = DefaultTracingTimeoutMS
	}

	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultSQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.History.SQLite.BusyTimeoutMS == 0 {
		cfg.History.SQLite.BusyTimeoutMS = DefaultSQLiteBusyTimeout
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultRetentionDays
	}
}
