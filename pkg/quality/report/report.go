package report

import (
	"time"

	"github.com/google/uuid"

	"meridian-data/ceres/pkg/quality"
)

// QualityReport is the aggregate verdict over all rules for one dataset.
// The result list preserves the caller-declared rule order for
// reproducible output.
type QualityReport struct {
	ReportID     string         `json:"report_id"`
	TotalRecords int            `json:"total_records"`
	Results      []*RuleResult  `json:"results"`
	EvaluatedAt  time.Time      `json:"evaluated_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewQualityReport assembles a report from the full result list. The
// report ID and evaluation timestamp are set at construction.
func NewQualityReport(totalRecords int, results []*RuleResult) *QualityReport {
	return &QualityReport{
		ReportID:     uuid.NewString(),
		TotalRecords: totalRecords,
		Results:      results,
		EvaluatedAt:  time.Now().UTC(),
	}
}

// RuleCount returns the number of evaluated rules.
func (q *QualityReport) RuleCount() int {
	return len(q.Results)
}

// PassedCount returns the number of rules that passed (over rules, not
// records).
func (q *QualityReport) PassedCount() int {
	n := 0
	for _, r := range q.Results {
		if r.Passed {
			n++
		}
	}
	return n
}

// FailedCount returns the number of rules that failed.
func (q *QualityReport) FailedCount() int {
	return len(q.Results) - q.PassedCount()
}

// ErrorCount returns the number of failed ERROR-level rules.
func (q *QualityReport) ErrorCount() int {
	return len(q.failedAt(quality.LevelError))
}

// WarnCount returns the number of failed WARN-level rules.
func (q *QualityReport) WarnCount() int {
	return len(q.failedAt(quality.LevelWarn))
}

// AllPassed returns true when every rule passed.
func (q *QualityReport) AllPassed() bool {
	return q.FailedCount() == 0
}

// HasErrors returns true when any ERROR-level rule failed. The
// orchestrator treats this as grounds to fail the run.
func (q *QualityReport) HasErrors() bool {
	return q.ErrorCount() > 0
}

// HasWarnings returns true when any WARN-level rule failed. Warnings
// never block the run.
func (q *QualityReport) HasWarnings() bool {
	return q.WarnCount() > 0
}

// ErrorResults returns the failed ERROR-level rules in original order.
func (q *QualityReport) ErrorResults() []*RuleResult {
	return q.failedAt(quality.LevelError)
}

// WarnResults returns the failed WARN-level rules in original order.
func (q *QualityReport) WarnResults() []*RuleResult {
	return q.failedAt(quality.LevelWarn)
}

// DisabledResults returns rules whose expressions failed to compile and
// therefore enforced nothing.
func (q *QualityReport) DisabledResults() []*RuleResult {
	var out []*RuleResult
	for _, r := range q.Results {
		if r.Status == StatusDisabled {
			out = append(out, r)
		}
	}
	return out
}

// FailedRecordCount approximates how many records failed at least one
// rule. It is the maximum FailedCount across rules, which undercounts
// when different rules fail on disjoint record sets. The true distinct
// count would require per-record bookkeeping across every rule; the
// approximation is a documented limitation, not a bug.
func (q *QualityReport) FailedRecordCount() int {
	max := 0
	for _, r := range q.Results {
		if r.FailedCount > max {
			max = r.FailedCount
		}
	}
	return max
}

// failedAt returns failed rules at a level, preserving original order.
func (q *QualityReport) failedAt(level quality.Level) []*RuleResult {
	var out []*RuleResult
	for _, r := range q.Results {
		if !r.Passed && r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ToMap returns the full audit form of the report: timestamps, counts and
// per-rule detail.
func (q *QualityReport) ToMap() map[string]any {
	results := make([]map[string]any, 0, len(q.Results))
	for _, r := range q.Results {
		results = append(results, r.toAuditEntry())
	}

	out := map[string]any{
		"report_id":           q.ReportID,
		"evaluated_at":        q.EvaluatedAt.Format(time.RFC3339),
		"total_records":       q.TotalRecords,
		"rule_count":          q.RuleCount(),
		"passed_count":        q.PassedCount(),
		"failed_count":        q.FailedCount(),
		"error_count":         q.ErrorCount(),
		"warn_count":          q.WarnCount(),
		"all_passed":          q.AllPassed(),
		"failed_record_count": q.FailedRecordCount(),
		"results":             results,
	}
	if len(q.Metadata) > 0 {
		out["metadata"] = q.Metadata
	}
	return out
}

// ToMetadataMap returns the compact form embedded into the surrounding
// run-metadata record.
func (q *QualityReport) ToMetadataMap() map[string]any {
	results := make([]map[string]any, 0, len(q.Results))
	for _, r := range q.Results {
		results = append(results, r.toMetadataEntry())
	}

	return map[string]any{
		"quality_check_passed": q.AllPassed(),
		"error_count":          q.ErrorCount(),
		"warn_count":           q.WarnCount(),
		"rule_results":         results,
	}
}
