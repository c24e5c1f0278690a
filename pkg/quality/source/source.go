package source

import (
	"context"

	"meridian-data/ceres/pkg/quality/engine"
)

// Source supplies rule definitions. Implementations decide where the
// definitions live; the engine does not care.
type Source interface {
	// Load returns the current rule definitions. Malformed entries are
	// skipped, not fatal; Load fails only when the source itself is
	// unreadable.
	Load(ctx context.Context) ([]*engine.RuleDefinition, error)
}
