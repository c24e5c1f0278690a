package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"meridian-data/ceres/pkg/quality/report"
)

// SQLiteConfig tunes the SQLite archive backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns caps open connections. Default 10.
	MaxOpenConns int

	// MaxIdleConns caps idle connections. Default 5.
	MaxIdleConns int

	// WALMode enables write-ahead logging for better concurrency.
	// Default true.
	WALMode bool

	// BusyTimeout is how long a statement waits on a locked database.
	// Default 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the archive defaults.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/quality_history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS reports (
	report_id     TEXT PRIMARY KEY,
	evaluated_at  TIMESTAMP NOT NULL,
	total_records INTEGER NOT NULL,
	rule_count    INTEGER NOT NULL,
	passed_count  INTEGER NOT NULL,
	failed_count  INTEGER NOT NULL,
	error_count   INTEGER NOT NULL,
	warn_count    INTEGER NOT NULL,
	all_passed    BOOLEAN NOT NULL,
	results       TEXT NOT NULL,
	metadata      TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_evaluated_at ON reports(evaluated_at);
CREATE INDEX IF NOT EXISTS idx_reports_all_passed ON reports(all_passed);
`

// SQLiteStore archives reports in a SQLite database. Per-rule results and
// metadata are stored as JSON columns; the aggregate counters are real
// columns so listings filter without decoding.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database, applies pragmas and creates the
// schema.
func NewSQLiteStore(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("report archive opened",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("sqlite", "enable_wal", err)
		}
	}

	busyMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyMs)); err != nil {
		return newStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion,
	); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != schemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version))
	}
	return nil
}

// Save archives one report.
func (s *SQLiteStore) Save(ctx context.Context, rep *report.QualityReport) error {
	results, err := json.Marshal(rep.Results)
	if err != nil {
		return newStorageError("sqlite", "marshal_results", err)
	}

	var metadata any
	if len(rep.Metadata) > 0 {
		data, err := json.Marshal(rep.Metadata)
		if err != nil {
			return newStorageError("sqlite", "marshal_metadata", err)
		}
		metadata = string(data)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (
			report_id, evaluated_at, total_records,
			rule_count, passed_count, failed_count, error_count, warn_count,
			all_passed, results, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ReportID, rep.EvaluatedAt.UTC(), rep.TotalRecords,
		rep.RuleCount(), rep.PassedCount(), rep.FailedCount(), rep.ErrorCount(), rep.WarnCount(),
		rep.AllPassed(), string(results), metadata,
	)
	if err != nil {
		return newStorageError("sqlite", "save", err)
	}
	return nil
}

// Get returns the report with the given ID, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, reportID string) (*report.QualityReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report_id, evaluated_at, total_records, results, metadata
		FROM reports WHERE report_id = ?`, reportID)

	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, newStorageError("sqlite", "get", err)
	}
	return rep, nil
}

// List returns matching reports, newest first.
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]*report.QualityReport, error) {
	where, args := buildWhere(q)

	sqlQuery := "SELECT report_id, evaluated_at, total_records, results, metadata FROM reports"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY evaluated_at DESC"

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var reports []*report.QualityReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	return reports, nil
}

// Count returns the number of matching reports.
func (s *SQLiteStore) Count(ctx context.Context, q Query) (int64, error) {
	where, args := buildWhere(q)

	sqlQuery := "SELECT COUNT(*) FROM reports"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes reports evaluated before the cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM reports WHERE evaluated_at < ?", cutoff.UTC())
	if err != nil {
		return 0, newStorageError("sqlite", "delete_before", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "delete_before", err)
	}
	return deleted, nil
}

// TrimToCount removes the oldest reports beyond max.
func (s *SQLiteStore) TrimToCount(ctx context.Context, max int) (int64, error) {
	if max < 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM reports WHERE report_id IN (
			SELECT report_id FROM reports
			ORDER BY evaluated_at DESC
			LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, newStorageError("sqlite", "trim", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "trim", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return newStorageError("sqlite", "close", err)
	}
	s.logger.Info("report archive closed")
	return nil
}

func buildWhere(q Query) (string, []any) {
	var conditions []string
	var args []any

	if q.Since != nil {
		conditions = append(conditions, "evaluated_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if q.Until != nil {
		conditions = append(conditions, "evaluated_at <= ?")
		args = append(args, q.Until.UTC())
	}
	if q.OnlyFailed {
		conditions = append(conditions, "all_passed = 0")
	}

	where := ""
	for i, cond := range conditions {
		if i > 0 {
			where += " AND "
		}
		where += cond
	}
	return where, args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*report.QualityReport, error) {
	var rep report.QualityReport
	var results string
	var metadata sql.NullString

	err := row.Scan(&rep.ReportID, &rep.EvaluatedAt, &rep.TotalRecords, &results, &metadata)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(results), &rep.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &rep.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &rep, nil
}
