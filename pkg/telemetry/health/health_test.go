package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckLiveness(t *testing.T) {
	c := New(0)
	status := c.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("Status = %q, want %q", status.Status, "ok")
	}
	if status.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestCheckReadiness_NoChecks(t *testing.T) {
	c := New(0)
	status := c.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Status = %q, want %q", status.Status, "ready")
	}
}

func TestCheckReadiness_AllHealthy(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("rules", func(ctx context.Context) error { return nil })
	c.RegisterCheck("history", func(ctx context.Context) error { return nil })

	status := c.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Status = %q, want %q", status.Status, "ready")
	}
	if len(status.Checks) != 2 {
		t.Fatalf("Checks count = %d, want 2", len(status.Checks))
	}
	if status.Checks["rules"].Status != "ok" {
		t.Errorf("rules check = %q, want %q", status.Checks["rules"].Status, "ok")
	}
}

func TestCheckReadiness_UnhealthyComponent(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("rules", func(ctx context.Context) error { return nil })
	c.RegisterCheck("history", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	status := c.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want %q", status.Status, "degraded")
	}
	hist := status.Checks["history"]
	if hist.Status != "unhealthy" {
		t.Errorf("history check = %q, want %q", hist.Status, "unhealthy")
	}
	if hist.Message != "database locked" {
		t.Errorf("history message = %q, want %q", hist.Message, "database locked")
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := c.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want %q", status.Status, "degraded")
	}
}

func TestLivenessHandler(t *testing.T) {
	c := New(0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	c.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("Status = %q, want %q", status.Status, "ok")
	}
}

func TestLivenessHandler_MethodNotAllowed(t *testing.T) {
	c := New(0)
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()

	c.LivenessHandler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("history", func(ctx context.Context) error {
		return errors.New("unreachable")
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	c.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want %q", status.Status, "degraded")
	}
}
