package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"meridian-data/ceres/pkg/quality"
	"meridian-data/ceres/pkg/quality/report"
)

func storedReport(id string, evaluatedAt time.Time, allPassed bool) *report.QualityReport {
	result := &report.RuleResult{
		RuleID:      "r1",
		Level:       quality.LevelError,
		Expression:  "id IS NOT NULL",
		Passed:      allPassed,
		TotalCount:  10,
		PassedCount: 10,
		Status:      report.StatusOK,
	}
	if !allPassed {
		result.PassedCount = 9
		result.FailedCount = 1
	}

	return &report.QualityReport{
		ReportID:     id,
		TotalRecords: 10,
		Results:      []*report.RuleResult{result},
		EvaluatedAt:  evaluatedAt,
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rep := storedReport("rep-1", time.Now().UTC(), true)
	if err := store.Save(ctx, rep); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Get(ctx, "rep-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ReportID != "rep-1" || got.TotalRecords != 10 {
		t.Errorf("Get() = %+v, want saved report", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		id     string
		age    time.Duration
		passed bool
	}{
		{"rep-old", 0, true},
		{"rep-mid", 24 * time.Hour, false},
		{"rep-new", 48 * time.Hour, true},
	} {
		rep := storedReport(spec.id, base.Add(spec.age), spec.passed)
		if err := store.Save(ctx, rep); err != nil {
			t.Fatalf("Save(%d) error: %v", i, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		reports, err := store.List(ctx, Query{})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		want := []string{"rep-new", "rep-mid", "rep-old"}
		for i, rep := range reports {
			if rep.ReportID != want[i] {
				t.Errorf("List()[%d] = %s, want %s", i, rep.ReportID, want[i])
			}
		}
	})

	t.Run("only failed", func(t *testing.T) {
		reports, err := store.List(ctx, Query{OnlyFailed: true})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(reports) != 1 || reports[0].ReportID != "rep-mid" {
			t.Errorf("List(OnlyFailed) = %v, want [rep-mid]", reportIDs(reports))
		}
	})

	t.Run("time bounds", func(t *testing.T) {
		since := base.Add(12 * time.Hour)
		reports, err := store.List(ctx, Query{Since: &since})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(reports) != 2 {
			t.Errorf("List(Since) = %v, want 2 reports", reportIDs(reports))
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		reports, err := store.List(ctx, Query{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(reports) != 1 || reports[0].ReportID != "rep-mid" {
			t.Errorf("List(Limit:1, Offset:1) = %v, want [rep-mid]", reportIDs(reports))
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.Count(ctx, Query{OnlyFailed: true})
		if err != nil || n != 1 {
			t.Errorf("Count(OnlyFailed) = (%d, %v), want (1, nil)", n, err)
		}
	})
}

func reportIDs(reports []*report.QualityReport) []string {
	out := make([]string, len(reports))
	for i, rep := range reports {
		out[i] = rep.ReportID
	}
	return out
}

func TestMemoryStore_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store.Save(ctx, storedReport("rep-old", base, true))
	store.Save(ctx, storedReport("rep-new", base.Add(72*time.Hour), true))

	deleted, err := store.DeleteBefore(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := store.Get(ctx, "rep-old"); !errors.Is(err, ErrNotFound) {
		t.Error("rep-old still present after DeleteBefore")
	}
	if _, err := store.Get(ctx, "rep-new"); err != nil {
		t.Errorf("rep-new missing after DeleteBefore: %v", err)
	}
}

func TestMemoryStore_TrimToCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Save(ctx, storedReport(
			"rep-"+string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Hour),
			true,
		))
	}

	deleted, err := store.TrimToCount(ctx, 2)
	if err != nil {
		t.Fatalf("TrimToCount() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	// The two newest survive.
	for _, id := range []string{"rep-e", "rep-d"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("%s missing after trim: %v", id, err)
		}
	}
	if _, err := store.Get(ctx, "rep-a"); !errors.Is(err, ErrNotFound) {
		t.Error("rep-a survived trim, want deleted")
	}
}

func TestPruner_Prune(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Now().UTC()
	store.Save(ctx, storedReport("rep-ancient", now.AddDate(0, 0, -60), true))
	store.Save(ctx, storedReport("rep-recent-1", now.Add(-2*time.Hour), true))
	store.Save(ctx, storedReport("rep-recent-2", now.Add(-1*time.Hour), true))
	store.Save(ctx, storedReport("rep-recent-3", now, true))

	pruner := NewPruner(store, RetentionConfig{
		RetentionDays: 30,
		MaxReports:    2,
	}, nil)

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	// One by age, one more by count.
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.Count(ctx, Query{})
	if err != nil || remaining != 2 {
		t.Errorf("remaining = (%d, %v), want (2, nil)", remaining, err)
	}
	if _, err := store.Get(ctx, "rep-recent-3"); err != nil {
		t.Errorf("newest report missing after prune: %v", err)
	}
}

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	store := NewMemoryStore()
	pruner := NewPruner(store, RetentionConfig{}, nil)
	sched := NewScheduler(pruner)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if sched.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
}

func TestScheduler_RejectsInvalidCron(t *testing.T) {
	store := NewMemoryStore()
	pruner := NewPruner(store, RetentionConfig{PruneSchedule: "not a cron"}, nil)
	sched := NewScheduler(pruner)

	if err := sched.Start(context.Background()); err == nil {
		t.Fatal("Start() accepted an invalid cron expression")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	store := NewMemoryStore()
	pruner := NewPruner(store, RetentionConfig{PruneSchedule: "0 3 * * *"}, nil)
	sched := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !sched.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if sched.NextRun() == nil {
		t.Error("NextRun() = nil for an active schedule")
	}

	sched.Stop()
	if sched.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
