package source

import (
	"context"
	"sync"

	"meridian-data/ceres/pkg/quality/engine"
)

// MemorySource serves a fixed in-memory rule set. It is the natural
// source for embedding and for tests; Replace allows a caller to swap the
// set at runtime.
type MemorySource struct {
	mu   sync.RWMutex
	defs []*engine.RuleDefinition
}

// NewMemorySource builds a source over the given definitions.
func NewMemorySource(defs []*engine.RuleDefinition) *MemorySource {
	return &MemorySource{defs: defs}
}

// Load returns a copy of the current definition list.
func (s *MemorySource) Load(ctx context.Context) ([]*engine.RuleDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*engine.RuleDefinition, len(s.defs))
	copy(out, s.defs)
	return out, nil
}

// Replace swaps the definition set.
func (s *MemorySource) Replace(defs []*engine.RuleDefinition) {
	s.mu.Lock()
	s.defs = defs
	s.mu.Unlock()
}
