package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"meridian-data/ceres/pkg/quality"
)

// RuleDefinition is the declarative form of one quality rule, as it
// appears in configuration. Definitions are inert until compiled into a
// Rule.
type RuleDefinition struct {
	ID          string        `yaml:"id" json:"id"`
	Level       quality.Level `yaml:"level" json:"level"`
	Expression  string        `yaml:"expression" json:"expression"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`

	// Column names the primary column the rule guards. It is advisory
	// metadata for reporting; the expression alone decides what is read.
	Column string `yaml:"column,omitempty" json:"column,omitempty"`

	// Params carries extra rule-type parameters verbatim for forward
	// compatibility with richer rule kinds.
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Validate checks the definition for the fields a rule cannot exist
// without.
func (d *RuleDefinition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return &ConfigError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(d.Expression) == "" {
		return &ConfigError{RuleID: d.ID, Field: "expression", Reason: "must not be empty"}
	}
	return nil
}

// ParseDefinition builds a definition from one decoded configuration
// entry. Missing id or expression is an error; an unknown severity token
// normalizes to error level with a logged warning so a typo tightens the
// rule rather than loosening it.
func ParseDefinition(raw map[string]any, logger *slog.Logger) (*RuleDefinition, error) {
	if logger == nil {
		logger = slog.Default()
	}

	def := &RuleDefinition{
		ID:          stringField(raw, "id"),
		Expression:  stringField(raw, "expression"),
		Description: stringField(raw, "description"),
		Column:      stringField(raw, "column"),
	}

	levelRaw := stringField(raw, "level")
	level, known := quality.ParseLevel(levelRaw)
	if !known && levelRaw != "" {
		logger.Warn("unknown rule level, defaulting to error",
			"rule_id", def.ID,
			"level", levelRaw,
		)
	}
	def.Level = level

	if params, ok := raw["params"].(map[string]any); ok {
		def.Params = params
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// stringField reads a string-typed key from a decoded map, tolerating
// absent keys and non-string junk.
func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
