/*
Package sqlite provides a SQLite-backed implementation of the run store.

PURPOSE:
  Persists assessment runs and their alerts using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  assessment_runs: One row per calculation run, with the request and
                   response documents stored as JSON alongside headline
                   figures for cheap listing
  run_alerts:      The alerts a run raised, in their deterministic order

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  runs, err := sqlite.New("./data/liability.db")
  if err != nil {
      log.Fatal(err)
  }
  defer runs.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/liability-engine/store"
)

// Store implements store.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite run store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessment_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		reporting_currency TEXT NOT NULL,
		request_json TEXT NOT NULL,
		response_json TEXT NOT NULL,
		total_liability TEXT NOT NULL,
		employee_count INTEGER NOT NULL,
		skipped_count INTEGER NOT NULL,
		alert_count INTEGER NOT NULL,
		high_risk_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON assessment_runs(created_at DESC);

	CREATE TABLE IF NOT EXISTS run_alerts (
		run_id TEXT NOT NULL REFERENCES assessment_runs(id),
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		value TEXT NOT NULL,
		threshold TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_run_alerts_run
		ON run_alerts(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE (store.RunStore interface)
// =============================================================================

// SaveRun persists a run and its alerts in one transaction.
func (s *Store) SaveRun(ctx context.Context, run store.AssessmentRun, alerts []store.RunAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assessment_runs
		(id, created_at, reporting_currency, request_json, response_json,
		 total_liability, employee_count, skipped_count, alert_count, high_risk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.ReportingCurrency,
		string(run.RequestJSON),
		string(run.ResponseJSON),
		run.TotalLiability,
		run.EmployeeCount,
		run.SkippedCount,
		run.AlertCount,
		run.HighRiskCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, a := range alerts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_alerts
			(run_id, position, kind, severity, entity_id, value, threshold, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, a.Kind, a.Severity, a.EntityID, a.Value, a.Threshold, a.Message)
		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*store.AssessmentRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, reporting_currency, request_json, response_json,
		       total_liability, employee_count, skipped_count, alert_count, high_risk_count
		FROM assessment_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns runs newest-first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.AssessmentRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, reporting_currency, request_json, response_json,
		       total_liability, employee_count, skipped_count, alert_count, high_risk_count
		FROM assessment_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []store.AssessmentRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetAlerts returns one run's alerts in stored order.
func (s *Store) GetAlerts(ctx context.Context, runID string) ([]store.RunAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assessment_runs WHERE id = ?", runID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, store.ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, kind, severity, entity_id, value, threshold, message
		FROM run_alerts
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []store.RunAlert
	for rows.Next() {
		var a store.RunAlert
		if err := rows.Scan(&a.RunID, &a.Kind, &a.Severity, &a.EntityID, &a.Value, &a.Threshold, &a.Message); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"run_alerts", "assessment_runs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*store.AssessmentRun, error) {
	var (
		run       store.AssessmentRun
		createdAt string
		reqJSON   string
		respJSON  string
	)
	err := row.Scan(
		&run.ID, &createdAt, &run.ReportingCurrency, &reqJSON, &respJSON,
		&run.TotalLiability, &run.EmployeeCount, &run.SkippedCount,
		&run.AlertCount, &run.HighRiskCount,
	)
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	run.RequestJSON = []byte(reqJSON)
	run.ResponseJSON = []byte(respJSON)
	return &run, nil
}
