package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"meridian-data/ceres/pkg/quality/report"
)

// MemoryStore keeps reports in memory. It serves tests and runs that do
// not need durability; contents vanish with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*report.QualityReport
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*report.QualityReport)}
}

// Save archives one report, overwriting any previous report with the
// same ID.
func (s *MemoryStore) Save(ctx context.Context, rep *report.QualityReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.reports[rep.ReportID] = rep
	s.mu.Unlock()
	return nil
}

// Get returns the report with the given ID, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, reportID string) (*report.QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reports[reportID]
	if !ok {
		return nil, ErrNotFound
	}
	return rep, nil
}

// List returns matching reports, newest first.
func (s *MemoryStore) List(ctx context.Context, q Query) ([]*report.QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.matching(q)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of matching reports.
func (s *MemoryStore) Count(ctx context.Context, q Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.matching(q))), nil
}

// DeleteBefore removes reports evaluated before the cutoff.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, rep := range s.reports {
		if rep.EvaluatedAt.Before(cutoff) {
			delete(s.reports, id)
			deleted++
		}
	}
	return deleted, nil
}

// TrimToCount removes the oldest reports beyond max.
func (s *MemoryStore) TrimToCount(ctx context.Context, max int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	all := s.matching(Query{})

	s.mu.Lock()
	defer s.mu.Unlock()

	if max < 0 || len(all) <= max {
		return 0, nil
	}

	var deleted int64
	for _, rep := range all[max:] {
		delete(s.reports, rep.ReportID)
		deleted++
	}
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// matching returns filtered reports sorted newest first.
func (s *MemoryStore) matching(q Query) []*report.QualityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*report.QualityReport
	for _, rep := range s.reports {
		if q.Since != nil && rep.EvaluatedAt.Before(*q.Since) {
			continue
		}
		if q.Until != nil && rep.EvaluatedAt.After(*q.Until) {
			continue
		}
		if q.OnlyFailed && rep.AllPassed() {
			continue
		}
		out = append(out, rep)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EvaluatedAt.After(out[j].EvaluatedAt)
	})
	return out
}
