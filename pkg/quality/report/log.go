package report

import "log/slog"

// Log emits the report through the given logger: one INFO line when every
// rule passed, otherwise one ERROR line per failed error rule and one WARN
// line per failed warn rule. Disabled rules are surfaced at WARN so a
// compile failure never passes silently. A nil logger falls back to
// slog.Default.
func (q *QualityReport) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	if q.AllPassed() {
		logger.Info("data quality check passed",
			"report_id", q.ReportID,
			"rule_count", q.RuleCount(),
			"total_records", q.TotalRecords,
		)
		q.logDisabled(logger)
		return
	}

	logger.Info("data quality check completed",
		"report_id", q.ReportID,
		"rule_count", q.RuleCount(),
		"failed_count", q.FailedCount(),
		"error_count", q.ErrorCount(),
		"warn_count", q.WarnCount(),
		"total_records", q.TotalRecords,
	)

	for _, r := range q.ErrorResults() {
		logger.Error("quality rule failed", ruleAttrs(q.ReportID, r)...)
	}
	for _, r := range q.WarnResults() {
		logger.Warn("quality rule failed", ruleAttrs(q.ReportID, r)...)
	}

	q.logDisabled(logger)
}

func (q *QualityReport) logDisabled(logger *slog.Logger) {
	for _, r := range q.DisabledResults() {
		logger.Warn("quality rule disabled, expression did not compile",
			"report_id", q.ReportID,
			"rule_id", r.RuleID,
			"expression", r.Expression,
			"error", r.ErrorMessage,
		)
	}
}

// ruleAttrs builds the shared key/value pairs for a per-rule log line.
func ruleAttrs(reportID string, r *RuleResult) []any {
	attrs := []any{
		"report_id", reportID,
		"rule_id", r.RuleID,
		"level", string(r.Level),
		"expression", r.Expression,
		"failed_count", r.FailedCount,
		"total_count", r.TotalCount,
		"pass_rate", r.PassRate(),
	}
	if r.ErrorCount > 0 {
		attrs = append(attrs, "eval_errors", r.ErrorCount, "status", string(r.Status))
	}
	return attrs
}
