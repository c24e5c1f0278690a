package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention CERES_SECTION_FIELD (e.g. CERES_RULES_PATH) and always take
// precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies CERES_SECTION_FIELD environment overrides.
func applyEnvOverrides(cfg *Config) {
	// Rules overrides
	if val := os.Getenv("CERES_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("CERES_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}
	if val := os.Getenv("CERES_RULES_DEBOUNCE_MS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Rules.DebounceMS = i
		}
	}

	// Engine overrides
	if val := os.Getenv("CERES_ENGINE_MAX_FAILED_INDICES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Engine.MaxFailedIndices = i
		}
	}
	if val := os.Getenv("CERES_ENGINE_PARALLELISM"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Engine.Parallelism = i
		}
	}
	if val := os.Getenv("CERES_ENGINE_PARALLEL_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Engine.ParallelThreshold = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("CERES_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CERES_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CERES_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CERES_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("CERES_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	if val := os.Getenv("CERES_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("CERES_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("CERES_TELEMETRY_TRACING_SAMPLER"); val != "" {
		cfg.Telemetry.Tracing.Sampler = val
	}

	// History overrides
	if val := os.Getenv("CERES_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CERES_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("CERES_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("CERES_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("CERES_HISTORY_MAX_REPORTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.MaxReports = i
		}
	}
	if val := os.Getenv("CERES_HISTORY_PRUNE_SCHEDULE"); val != "" {
		cfg.History.Retention.PruneSchedule = val
	}
}
