package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meridian-data/ceres/pkg/cli"
	"meridian-data/ceres/pkg/quality/report"
	"meridian-data/ceres/pkg/telemetry/tracing"
)

var checkFlags struct {
	rules  string
	data   string
	format string
	noSave bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a dataset against quality rules",
	Long: `Evaluate a dataset against the configured quality rules.

The dataset is a JSON array of records or an NDJSON file with one record
per line; pass "-" to read from standard input. The exit code is non-zero
when any error-level rule fails.

Examples:
  # Check a JSON array dataset
  ceres check --rules rules.yaml --data records.json

  # Check an NDJSON stream from stdin
  cat records.ndjson | ceres check --data -

  # Machine-readable report
  ceres check --data records.json --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.rules, "rules", "r", "", "rule file or directory (overrides config)")
	checkCmd.Flags().StringVar(&checkFlags.data, "data", "", "dataset file, or - for stdin")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.noSave, "no-save", false, "skip archiving the report")

	checkCmd.MarkFlagRequired("data")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(checkFlags.rules)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	ctx := cmd.Context()
	defer a.tracer.Shutdown(ctx)

	ctx, span := a.tracer.Start(ctx, "quality.check")
	defer span.End()

	defs, err := a.source.Load(ctx)
	if err != nil {
		tracing.SetSpanError(span, err)
		return cli.NewCommandError("check", err)
	}
	a.engine.Load(defs)

	records, err := loadRecords(checkFlags.data)
	if err != nil {
		tracing.SetSpanError(span, err)
		return cli.NewCommandError("check", err)
	}
	tracing.SetEvaluationAttributes(span, a.cfg.Rules.Path, checkFlags.data, len(records))

	rep := a.engine.EvaluateAll(records)
	rep.Log(a.logger)
	tracing.SetReportAttributes(span, rep.ReportID, rep.StatusLine(),
		rep.RuleCount(), rep.PassedCount(), rep.FailedCount(), rep.ErrorCount())

	if err := printReport(rep, checkFlags.format); err != nil {
		return cli.NewCommandError("check", err)
	}

	if !checkFlags.noSave {
		if err := archiveReport(cmd, a, rep); err != nil {
			// Archiving is best effort; the evaluation result stands.
			a.logger.Error("failed to archive report", "error", err)
		}
	}

	if rep.HasErrors() {
		return cli.NewCommandError("check", fmt.Errorf("quality check failed: %d of %d rules failed",
			rep.FailedCount(), rep.RuleCount()))
	}
	return nil
}

func printReport(rep *report.QualityReport, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep.ToMap())
	}
	fmt.Println(rep.Format())
	return nil
}

func archiveReport(cmd *cobra.Command, a *app, rep *report.QualityReport) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), rep); err != nil {
		return err
	}
	a.logger.Debug("report archived",
		"report_id", rep.ReportID,
		"backend", a.cfg.History.Backend,
	)
	return nil
}
