package engine

import "fmt"

// ConfigError reports a malformed rule definition. The offending field and
// rule identity (when known) are carried so loaders can log precisely and
// keep going.
type ConfigError struct {
	RuleID string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("rule %q: invalid %s: %s", e.RuleID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid rule definition: %s: %s", e.Field, e.Reason)
}
