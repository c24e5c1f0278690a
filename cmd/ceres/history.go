package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"meridian-data/ceres/pkg/cli"
	"meridian-data/ceres/pkg/config"
	"meridian-data/ceres/pkg/quality/history"
	"meridian-data/ceres/pkg/telemetry/logging"
)

var historyFlags struct {
	limit  int
	failed bool
	since  string
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived quality reports",
	Long: `Inspect quality reports archived by previous runs.

Examples:
  # List the most recent reports
  ceres history list

  # List only reports with failed rules
  ceres history list --failed --limit 20

  # Show one report in full
  ceres history show 3f9c1a7e-...

  # Apply the configured retention policy now
  ceres history prune`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show one archived report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports per the retention policy",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum reports to list")
	historyListCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only reports with failed rules")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only reports after this time (RFC 3339)")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
	historyShowCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

// openHistory wires the archive store from configuration. History
// commands do not need a rule set, so they bypass the full app setup.
func openHistory() (history.ReportStore, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil, nil, fmt.Errorf("history archiving is disabled; set history.enabled in the config")
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	store, err := a.openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	return store, cfg, logger, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, _, _, err := openHistory()
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	defer store.Close()

	q := history.Query{
		OnlyFailed: historyFlags.failed,
		Limit:      historyFlags.limit,
	}
	if historyFlags.since != "" {
		since, err := time.Parse(time.RFC3339, historyFlags.since)
		if err != nil {
			return cli.NewCommandError("history list", fmt.Errorf("invalid --since value: %w", err))
		}
		q.Since = &since
	}

	reports, err := store.List(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	if historyFlags.format == "json" {
		entries := make([]map[string]any, 0, len(reports))
		for _, rep := range reports {
			entries = append(entries, rep.ToMap())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(reports) == 0 {
		fmt.Println("No archived reports found")
		return nil
	}
	for _, rep := range reports {
		fmt.Printf("%s  %s  records=%d  rules=%d  passed=%d  failed=%d  %s\n",
			rep.ReportID,
			rep.EvaluatedAt.Format(time.RFC3339),
			rep.TotalRecords,
			rep.RuleCount(),
			rep.PassedCount(),
			rep.FailedCount(),
			rep.StatusLine(),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, _, _, err := openHistory()
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	defer store.Close()

	rep, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	return printReport(rep, historyFlags.format)
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, cfg, logger, err := openHistory()
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	pruner := history.NewPruner(store, history.RetentionConfig{
		RetentionDays: cfg.History.Retention.Days,
		MaxReports:    cfg.History.Retention.MaxReports,
	}, logger)

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Printf("Pruned %d reports\n", deleted)
	return nil
}
