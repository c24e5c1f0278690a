package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	banner    = "============================================================"
	separator = "------------------------------------------------------------"
)

// Overall status lines.
const (
	StatusLineAllPassed    = "ALL RULES PASSED"
	StatusLineFailed       = "FAILED (errors detected)"
	StatusLineWarningsOnly = "PASSED WITH WARNINGS"
)

// StatusLine returns the terminal status line for the report.
func (q *QualityReport) StatusLine() string {
	switch {
	case q.AllPassed():
		return StatusLineAllPassed
	case q.HasErrors():
		return StatusLineFailed
	default:
		return StatusLineWarningsOnly
	}
}

// Format renders the report as deterministic human-readable text: a fixed
// banner, the evaluation timestamp and counts, the failed ERROR rules
// followed by the failed WARN rules, and a terminal status line.
func (q *QualityReport) Format() string {
	var sb strings.Builder

	sb.WriteString(banner + "\n")
	sb.WriteString("DATA QUALITY REPORT\n")
	sb.WriteString(banner + "\n")
	fmt.Fprintf(&sb, "Evaluated at:  %s\n", q.EvaluatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Total records: %d\n", q.TotalRecords)
	fmt.Fprintf(&sb, "Rules:         %d total, %d passed, %d failed\n",
		q.RuleCount(), q.PassedCount(), q.FailedCount())

	writeFailedSection(&sb, "Failed ERROR rules:", q.ErrorResults())
	writeFailedSection(&sb, "Failed WARN rules:", q.WarnResults())

	if disabled := q.DisabledResults(); len(disabled) > 0 {
		sb.WriteString("\nDisabled rules (compile failure, not enforced):\n")
		for _, r := range disabled {
			fmt.Fprintf(&sb, "  [%s] %s\n", r.RuleID, r.Expression)
			if r.ErrorMessage != "" {
				fmt.Fprintf(&sb, "        %s\n", r.ErrorMessage)
			}
		}
	}

	sb.WriteString("\n" + separator + "\n")
	fmt.Fprintf(&sb, "Status: %s\n", q.StatusLine())

	return sb.String()
}

// writeFailedSection renders one severity section of failed rules.
func writeFailedSection(sb *strings.Builder, title string, results []*RuleResult) {
	if len(results) == 0 {
		return
	}

	sb.WriteString("\n" + title + "\n")
	for _, r := range results {
		fmt.Fprintf(sb, "  [%s] %s\n", r.RuleID, r.Expression)
		fmt.Fprintf(sb, "        failed %d/%d (%.1f%%)\n",
			r.FailedCount, r.TotalCount, failurePct(r))
		if r.Description != "" {
			fmt.Fprintf(sb, "        %s\n", r.Description)
		}
	}
}

// failurePct returns the failing percentage for display.
func failurePct(r *RuleResult) float64 {
	if r.TotalCount == 0 {
		return 0.0
	}
	return float64(r.FailedCount) / float64(r.TotalCount) * 100.0
}
