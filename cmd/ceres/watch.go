package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"meridian-data/ceres/pkg/cli"
	"meridian-data/ceres/pkg/quality/history"
	"meridian-data/ceres/pkg/quality/source"
	"meridian-data/ceres/pkg/telemetry/health"
	"meridian-data/ceres/pkg/telemetry/tracing"
)

var watchFlags struct {
	rules string
	data  string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch rule files and re-evaluate on change",
	Long: `Watch the configured rule files and re-evaluate the dataset whenever
they change. A rule file that fails to load keeps the previous rule set
active. Runs until interrupted.

Examples:
  # Re-check records.json on every rule edit
  ceres watch --rules rules/ --data records.json`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.rules, "rules", "r", "", "rule file or directory (overrides config)")
	watchCmd.Flags().StringVar(&watchFlags.data, "data", "", "dataset file to re-evaluate on change")

	watchCmd.MarkFlagRequired("data")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(watchFlags.rules)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()
	defer a.tracer.Shutdown(context.Background())

	store, err := a.openStore()
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if store != nil {
		defer store.Close()
	}

	evaluate := func() error {
		evalCtx, span := a.tracer.Start(ctx, "quality.watch.evaluate")
		defer span.End()

		defs, err := a.source.Load(evalCtx)
		if err != nil {
			tracing.SetSpanError(span, err)
			return err
		}
		a.engine.Load(defs)

		records, err := loadRecords(watchFlags.data)
		if err != nil {
			tracing.SetSpanError(span, err)
			return err
		}
		tracing.SetEvaluationAttributes(span, a.cfg.Rules.Path, watchFlags.data, len(records))

		rep := a.engine.EvaluateAll(records)
		rep.Log(a.logger)
		fmt.Println(rep.Format())
		tracing.SetReportAttributes(span, rep.ReportID, rep.StatusLine(),
			rep.RuleCount(), rep.PassedCount(), rep.FailedCount(), rep.ErrorCount())

		if store != nil {
			if err := store.Save(evalCtx, rep); err != nil {
				a.logger.Error("failed to archive report", "error", err)
			}
		}
		return nil
	}

	if err := evaluate(); err != nil {
		return cli.NewCommandError("watch", err)
	}

	if a.cfg.Telemetry.Metrics.Enabled {
		startMetricsServer(ctx, a, store)
	}
	if store != nil {
		stopScheduler := startRetention(ctx, a, store)
		defer stopScheduler()
	}

	watcherCfg := source.DefaultWatcherConfig()
	watcherCfg.Path = a.cfg.Rules.Path
	watcherCfg.DebounceInterval = time.Duration(a.cfg.Rules.DebounceMS) * time.Millisecond

	fw, err := source.NewFileWatcher(watcherCfg, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	if err := fw.Watch(ctx, evaluate); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// startMetricsServer serves the Prometheus endpoint plus liveness and
// readiness probes until the context is cancelled. Serve errors are
// logged, not fatal; watching continues.
func startMetricsServer(ctx context.Context, a *app, store history.ReportStore) {
	checker := health.New(0)
	checker.RegisterCheck("rules", func(ctx context.Context) error {
		_, err := a.source.Load(ctx)
		return err
	})
	if store != nil {
		checker.RegisterCheck("history", func(ctx context.Context) error {
			_, err := store.Count(ctx, history.Query{})
			return err
		})
	}

	mux := http.NewServeMux()
	mux.Handle(a.cfg.Telemetry.Metrics.Path, a.collector.Handler())
	mux.HandleFunc("/healthz", checker.LivenessHandler())
	mux.HandleFunc("/readyz", checker.ReadinessHandler())

	srv := &http.Server{
		Addr:              a.cfg.Telemetry.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("metrics server started",
			"address", srv.Addr,
			"path", a.cfg.Telemetry.Metrics.Path,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}

// startRetention starts the cron-based pruning scheduler when one is
// configured, returning a stop function.
func startRetention(ctx context.Context, a *app, store history.ReportStore) func() {
	retCfg := history.RetentionConfig{
		RetentionDays: a.cfg.History.Retention.Days,
		MaxReports:    a.cfg.History.Retention.MaxReports,
		PruneSchedule: a.cfg.History.Retention.PruneSchedule,
	}
	if retCfg.PruneSchedule == "" {
		return func() {}
	}

	sched := history.NewScheduler(history.NewPruner(store, retCfg, a.logger))
	if err := sched.Start(ctx); err != nil {
		a.logger.Error("failed to start retention scheduler", "error", err)
		return func() {}
	}
	return sched.Stop
}
