package engine

import "log/slog"

// ParseDefinitions decodes a list of raw configuration entries into rule
// definitions. Malformed entries are logged and skipped so one bad rule
// never takes down the rest of the set. The second return is the number
// of entries skipped.
func ParseDefinitions(raw []map[string]any, logger *slog.Logger) ([]*RuleDefinition, int) {
	if logger == nil {
		logger = slog.Default()
	}

	defs := make([]*RuleDefinition, 0, len(raw))
	skipped := 0
	for i, entry := range raw {
		def, err := ParseDefinition(entry, logger)
		if err != nil {
			skipped++
			logger.Warn("skipping malformed quality rule",
				"index", i,
				"error", err,
			)
			continue
		}
		defs = append(defs, def)
	}

	if skipped > 0 {
		logger.Warn("some quality rules were skipped",
			"loaded", len(defs),
			"skipped", skipped,
		)
	}
	return defs, skipped
}

// CompileDefinitions builds rules from definitions. Compilation is
// fail-open, so the returned slice always has one rule per definition in
// the same order.
func CompileDefinitions(defs []*RuleDefinition, cfg Config, logger *slog.Logger, metrics Metrics) []*Rule {
	rules := make([]*Rule, 0, len(defs))
	for _, def := range defs {
		rules = append(rules, NewRule(def, cfg, logger, metrics))
	}
	return rules
}
