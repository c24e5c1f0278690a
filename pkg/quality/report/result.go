package report

import (
	"meridian-data/ceres/pkg/quality"
)

// RuleStatus distinguishes how a rule's verdict was produced.
type RuleStatus string

const (
	// StatusOK means the rule compiled and every record evaluated cleanly.
	StatusOK RuleStatus = "ok"

	// StatusDisabled means the expression failed to compile and the rule
	// degraded to an always-pass stub. The verdict enforces nothing.
	StatusDisabled RuleStatus = "disabled"

	// StatusDegraded means some records hit evaluation errors and were
	// counted as passed (fail-open at the record level).
	StatusDegraded RuleStatus = "degraded"
)

// RuleResult is the verdict of one rule against one dataset. The rule's
// identity, level and expression are copied in so the record is
// self-contained. Results are immutable once produced.
type RuleResult struct {
	RuleID     string        `json:"rule_id"`
	Level      quality.Level `json:"level"`
	Expression string        `json:"expression"`

	// Passed is the dataset-level verdict: true iff FailedCount == 0.
	Passed bool `json:"passed"`

	TotalCount  int `json:"total_count"`
	PassedCount int `json:"passed_count"`
	FailedCount int `json:"failed_count"`

	// FailedIndices holds the positions of failing records, truncated to
	// the engine's configured bound for memory safety on huge datasets.
	FailedIndices []int `json:"failed_indices,omitempty"`

	// ErrorCount is the number of records whose evaluation errored and
	// was counted as a pass.
	ErrorCount int `json:"error_count,omitempty"`

	Status       RuleStatus `json:"status"`
	Description  string     `json:"description,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// PassRate returns the percentage of records that satisfied the rule.
// A rule with zero evaluated records passes vacuously at exactly 100.0.
func (r *RuleResult) PassRate() float64 {
	if r.TotalCount == 0 {
		return 100.0
	}
	return float64(r.PassedCount) / float64(r.TotalCount) * 100.0
}

// toMetadataEntry returns the compact per-rule form embedded into run
// metadata.
func (r *RuleResult) toMetadataEntry() map[string]any {
	return map[string]any{
		"rule_id":      r.RuleID,
		"level":        string(r.Level),
		"expression":   r.Expression,
		"passed":       r.Passed,
		"failed_count": r.FailedCount,
		"total_count":  r.TotalCount,
	}
}

// toAuditEntry returns the full per-rule form for the audit report.
func (r *RuleResult) toAuditEntry() map[string]any {
	entry := map[string]any{
		"rule_id":      r.RuleID,
		"level":        string(r.Level),
		"expression":   r.Expression,
		"passed":       r.Passed,
		"total_count":  r.TotalCount,
		"passed_count": r.PassedCount,
		"failed_count": r.FailedCount,
		"pass_rate":    r.PassRate(),
		"status":       string(r.Status),
	}
	if len(r.FailedIndices) > 0 {
		entry["failed_indices"] = r.FailedIndices
	}
	if r.ErrorCount > 0 {
		entry["error_count"] = r.ErrorCount
	}
	if r.Description != "" {
		entry["description"] = r.Description
	}
	if r.ErrorMessage != "" {
		entry["error_message"] = r.ErrorMessage
	}
	return entry
}
