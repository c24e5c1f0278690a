package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"meridian-data/ceres/pkg/quality/engine"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const rulesYAML = `
quality_rules:
  - id: r1_id_not_null
    level: error
    expression: "id IS NOT NULL"
    description: "primary key must be present"
  - id: r2_amount_positive
    level: error
    expression: "amount > 0"
  - id: r3_region_known
    level: warn
    expression: "region IN ('emea', 'apac', 'amer')"
`

func TestFileSource_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", rulesYAML)

	cfg := DefaultFileSourceConfig()
	cfg.Path = path
	src := NewFileSource(cfg, testLogger())

	defs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("len(defs) = %d, want 3", len(defs))
	}
	if defs[0].ID != "r1_id_not_null" || defs[2].ID != "r3_region_known" {
		t.Errorf("definition order = [%s ... %s], want declaration order", defs[0].ID, defs[2].ID)
	}
	if defs[0].Description != "primary key must be present" {
		t.Errorf("Description = %q", defs[0].Description)
	}
	if defs[2].Level != "warn" {
		t.Errorf("r3 level = %q, want warn", defs[2].Level)
	}
}

func TestFileSource_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20_more.yaml", `
quality_rules:
  - id: r_later
    level: warn
    expression: "b = 2"
`)
	writeFile(t, dir, "10_base.yml", `
quality_rules:
  - id: r_earlier
    level: error
    expression: "a = 1"
`)
	writeFile(t, dir, "notes.txt", "not a rule file")
	writeFile(t, dir, ".hidden.yaml", `
quality_rules:
  - id: r_hidden
    level: error
    expression: "c = 3"
`)

	cfg := DefaultFileSourceConfig()
	cfg.Path = dir
	src := NewFileSource(cfg, testLogger())

	defs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}
	// Lexical file order decides rule order across files.
	if defs[0].ID != "r_earlier" || defs[1].ID != "r_later" {
		t.Errorf("order = [%s %s], want [r_earlier r_later]", defs[0].ID, defs[1].ID)
	}
}

func TestFileSource_SkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", `
quality_rules:
  - id: r_good
    level: error
    expression: "id IS NOT NULL"
  - level: error
    expression: "missing id"
  - id: r_no_expr
    level: warn
`)

	cfg := DefaultFileSourceConfig()
	cfg.Path = path
	src := NewFileSource(cfg, testLogger())

	defs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "r_good" {
		t.Errorf("defs = %v, want only r_good", defs)
	}
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing path", func(t *testing.T) {
		cfg := DefaultFileSourceConfig()
		cfg.Path = filepath.Join(dir, "nope.yaml")
		_, err := NewFileSource(cfg, testLogger()).Load(context.Background())

		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("error = %v (%T), want *LoadError", err, err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, dir, "broken.yaml", "quality_rules: [unclosed")
		cfg := DefaultFileSourceConfig()
		cfg.Path = path
		_, err := NewFileSource(cfg, testLogger()).Load(context.Background())

		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("error = %v (%T), want *LoadError", err, err)
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		path := writeFile(t, dir, "big.yaml", rulesYAML)
		cfg := DefaultFileSourceConfig()
		cfg.Path = path
		cfg.MaxFileSize = 10
		_, err := NewFileSource(cfg, testLogger()).Load(context.Background())
		if err == nil {
			t.Fatal("expected size error, got nil")
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		empty := t.TempDir()
		cfg := DefaultFileSourceConfig()
		cfg.Path = empty
		_, err := NewFileSource(cfg, testLogger()).Load(context.Background())
		if err == nil {
			t.Fatal("expected error for directory without rule files")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeFile(t, dir, "ok.yaml", rulesYAML)
		cfg := DefaultFileSourceConfig()
		cfg.Path = path

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileSource(cfg, testLogger()).Load(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource(nil)

	defs, err := src.Load(context.Background())
	if err != nil || len(defs) != 0 {
		t.Fatalf("empty Load() = (%v, %v), want ([], nil)", defs, err)
	}

	src.Replace(loadedDefs(t, rulesYAML))
	defs, err = src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(defs) != 3 {
		t.Errorf("len(defs) = %d, want 3", len(defs))
	}
}

// loadedDefs parses the YAML fixture through a temp file so memory and
// file sources agree on the shape.
func loadedDefs(t *testing.T, content string) []*engine.RuleDefinition {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultFileSourceConfig()
	cfg.Path = writeFile(t, dir, "rules.yaml", content)
	defs, err := NewFileSource(cfg, testLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("fixture load: %v", err)
	}
	return defs
}
