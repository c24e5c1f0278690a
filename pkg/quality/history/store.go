package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meridian-data/ceres/pkg/quality/report"
)

// ErrNotFound is returned when a report ID does not exist in the store.
var ErrNotFound = errors.New("report not found")

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %s: %v", e.Backend, e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}

// Query filters report listings. The zero value matches everything.
type Query struct {
	// Since and Until bound EvaluatedAt, inclusive.
	Since *time.Time
	Until *time.Time

	// OnlyFailed restricts to reports where at least one rule failed.
	OnlyFailed bool

	// Limit caps the result count; zero means the backend default.
	Limit int

	// Offset skips that many newest reports first.
	Offset int
}

// ReportStore persists quality reports. Listings return newest first.
type ReportStore interface {
	// Save archives one report.
	Save(ctx context.Context, rep *report.QualityReport) error

	// Get returns the report with the given ID, or ErrNotFound.
	Get(ctx context.Context, reportID string) (*report.QualityReport, error)

	// List returns reports matching the query, newest first.
	List(ctx context.Context, q Query) ([]*report.QualityReport, error)

	// Count returns the number of reports matching the query.
	Count(ctx context.Context, q Query) (int64, error)

	// DeleteBefore removes reports evaluated before the cutoff and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToCount removes the oldest reports beyond max and returns how
	// many were removed.
	TrimToCount(ctx context.Context, max int) (int64, error)

	// Close releases backend resources.
	Close() error
}
