package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig bounds the report archive.
type RetentionConfig struct {
	// RetentionDays deletes reports older than this many days. Zero
	// disables age-based pruning.
	RetentionDays int `yaml:"retention_days" json:"retention_days"`

	// MaxReports keeps at most this many reports, deleting the oldest
	// first. Zero disables count-based pruning.
	MaxReports int `yaml:"max_reports" json:"max_reports"`

	// PruneSchedule is a standard cron expression, for example
	// "0 3 * * *" for daily at 3 AM. Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule" json:"prune_schedule"`
}

// Pruner deletes archived reports per the retention configuration.
type Pruner struct {
	store  ReportStore
	config RetentionConfig
	logger *slog.Logger
}

// NewPruner builds a pruner over the given store.
func NewPruner(store ReportStore, config RetentionConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		config: config,
		logger: logger.With("component", "history.pruner"),
	}
}

// Prune applies age-based then count-based retention and returns the
// total number of reports deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based prune: %w", err)
		}
		total += deleted
	}

	if p.config.MaxReports > 0 {
		deleted, err := p.store.TrimToCount(ctx, p.config.MaxReports)
		if err != nil {
			return total, fmt.Errorf("count-based prune: %w", err)
		}
		total += deleted
	}

	return total, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler builds a scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: pruner.logger.With("component", "history.scheduler"),
	}
}

// Start schedules pruning per the configured cron expression and returns
// immediately. An empty schedule is a no-op. The scheduler stops itself
// when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
		"max_reports", s.pruner.config.MaxReports,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled pruning completed, nothing to delete")
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil when nothing
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
