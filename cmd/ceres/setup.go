package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"meridian-data/ceres/pkg/config"
	"meridian-data/ceres/pkg/quality/engine"
	"meridian-data/ceres/pkg/quality/history"
	"meridian-data/ceres/pkg/quality/source"
	"meridian-data/ceres/pkg/telemetry/logging"
	"meridian-data/ceres/pkg/telemetry/metrics"
	"meridian-data/ceres/pkg/telemetry/tracing"
)

// app bundles the wired components every command starts from.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	tracer    *tracing.Tracer
	engine    *engine.Engine
	source    *source.FileSource
}

// newApp loads configuration and wires the logger, metrics, engine and
// rule source. rulesPath, when non-empty, overrides the configured rule
// location.
func newApp(rulesPath string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}
	if cfg.Rules.Path == "" {
		return nil, fmt.Errorf("no rule path configured; set rules.path or pass --rules")
	}

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(&metrics.Config{
		Namespace: cfg.Telemetry.Metrics.Namespace,
		Subsystem: cfg.Telemetry.Metrics.Subsystem,
	}, prometheus.NewRegistry())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, err
	}

	engCfg := engine.Config{
		MaxFailedIndices:  cfg.Engine.MaxFailedIndices,
		Parallelism:       cfg.Engine.Parallelism,
		ParallelThreshold: cfg.Engine.ParallelThreshold,
	}
	if err := engCfg.Validate(); err != nil {
		return nil, err
	}

	srcCfg := source.DefaultFileSourceConfig()
	srcCfg.Path = cfg.Rules.Path

	return &app{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		tracer:    tracer,
		engine:    engine.New(engCfg, logger, collector),
		source:    source.NewFileSource(srcCfg, logger),
	}, nil
}

// loadConfig reads the configured file, falling back to pure defaults
// when the default config file is absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}

	// A missing default config file is not an error; explicit paths are.
	if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
		return cfg, nil
	}
	return nil, err
}

// openStore builds the configured report archive, or nil when archiving
// is disabled.
func (a *app) openStore() (history.ReportStore, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}

	switch a.cfg.History.Backend {
	case "memory":
		return history.NewMemoryStore(), nil
	default:
		return history.NewSQLiteStore(&history.SQLiteConfig{
			Path:         a.cfg.History.SQLite.Path,
			MaxOpenConns: a.cfg.History.SQLite.MaxOpenConns,
			MaxIdleConns: a.cfg.History.SQLite.MaxIdleConns,
			WALMode:      true,
			BusyTimeout:  time.Duration(a.cfg.History.SQLite.BusyTimeoutMS) * time.Millisecond,
		}, a.logger)
	}
}
