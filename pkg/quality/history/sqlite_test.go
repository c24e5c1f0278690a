package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(cfg, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	rep := storedReport("rep-1", time.Now().UTC(), false)
	rep.Metadata = map[string]any{"quality_check_passed": false}

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
	if len(got.Results) != 1 || got.Results[0].RuleID != "r1" {
		t.Errorf("Results = %+v, want the saved rule result", got.Results)
	}
	if got.Results[0].FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", got.Results[0].FailedCount)
	}
	if passed, ok := got.Metadata["quality_check_passed"].(bool); !ok || passed {
		t.Errorf("Metadata = %+v, want quality_check_passed=false", got.Metadata)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store.Save(ctx, storedReport("rep-old", base, true))
	store.Save(ctx, storedReport("rep-mid", base.Add(24*time.Hour), false))
	store.Save(ctx, storedReport("rep-new", base.Add(48*time.Hour), true))

	reports, err := store.List(ctx, Query{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"rep-new", "rep-mid", "rep-old"}
	if len(reports) != len(want) {
		t.Fatalf("List() returned %d reports, want %d", len(reports), len(want))
	}
	for i, rep := range reports {
		if rep.ReportID != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, rep.ReportID, want[i])
		}
	}

	failed, err := store.List(ctx, Query{OnlyFailed: true})
	if err != nil {
		t.Fatalf("List(OnlyFailed) error: %v", err)
	}
	if len(failed) != 1 || failed[0].ReportID != "rep-mid" {
		t.Errorf("List(OnlyFailed) = %v, want [rep-mid]", reportIDs(failed))
	}

	since := base.Add(12 * time.Hour)
	bounded, err := store.List(ctx, Query{Since: &since, Limit: 1})
	if err != nil {
		t.Fatalf("List(Since, Limit) error: %v", err)
	}
	if len(bounded) != 1 || bounded[0].ReportID != "rep-new" {
		t.Errorf("List(Since, Limit:1) = %v, want [rep-new]", reportIDs(bounded))
	}

	n, err := store.Count(ctx, Query{OnlyFailed: true})
	if err != nil || n != 1 {
		t.Errorf("Count(OnlyFailed) = (%d, %v), want (1, nil)", n, err)
	}
}

func TestSQLiteStore_DeleteBeforeAndTrim(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Save(ctx, storedReport(
			"rep-"+string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Hour),
			true,
		))
	}

	deleted, err := store.DeleteBefore(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteBefore deleted = %d, want 1", deleted)
	}

	deleted, err = store.TrimToCount(ctx, 2)
	if err != nil {
		t.Fatalf("TrimToCount() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("TrimToCount deleted = %d, want 2", deleted)
	}

	// The two newest survive.
	for _, id := range []string{"rep-e", "rep-d"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("%s missing after trim: %v", id, err)
		}
	}
	if _, err := store.Get(ctx, "rep-b"); !errors.Is(err, ErrNotFound) {
		t.Error("rep-b survived trim, want deleted")
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(cfg, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	if err := store.Save(ctx, storedReport("rep-1", time.Now().UTC(), true)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := NewSQLiteStore(cfg, nil)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Get(ctx, "rep-1"); err != nil {
		t.Errorf("Get() after reopen error: %v", err)
	}
}
