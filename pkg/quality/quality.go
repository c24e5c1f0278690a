// Package quality holds the types shared across the data-quality rule
// engine: severity levels and their parsing rules.
//
// The engine itself lives in the subpackages: compiler translates rule
// expressions into safe predicates, engine compiles and evaluates rules,
// report aggregates outcomes, source loads rule sets from configuration,
// and history archives finished reports.
package quality

import "strings"

// Level is the severity of a quality rule. A failed ERROR-level rule is
// grounds for the orchestrator to fail the run; WARN-level failures are
// logged and never block.
type Level string

const (
	// LevelError blocks the run on failure.
	LevelError Level = "error"
	// LevelWarn logs on failure without blocking.
	LevelWarn Level = "warn"
)

// ParseLevel parses a severity string case-insensitively. The second
// return value is false for unknown tokens; callers normalize those to
// LevelError with a logged warning rather than rejecting the rule.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, true
	case "warn", "warning":
		return LevelWarn, true
	default:
		return LevelError, false
	}
}

// String returns the level token used in configuration and output.
func (l Level) String() string {
	return string(l)
}
