/*
Package store defines persistence for assessment runs.

PURPOSE:
  Every calculation run can be persisted for audit: the input payload, the
  full result document, headline figures, and the alerts it raised. The
  engine itself stays stateless; persistence is an edge concern owned by
  the API layer.

INTERFACES:
  RunStore: Save/load assessment runs and their alerts

IMPLEMENTATIONS:
  store.Memory:  In-memory, for tests and ephemeral deployments
  store/sqlite:  SQLite-backed, for single-node production use

SEE ALSO:
  - api/: Persists a run after each POST /api/assessments
  - store/sqlite/sqlite.go
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("assessment run not found")

// AssessmentRun is one persisted calculation run. Request and response
// documents are stored as JSON so the audit trail survives schema drift in
// the engine types.
type AssessmentRun struct {
	ID                string
	CreatedAt         time.Time
	ReportingCurrency string

	RequestJSON  []byte
	ResponseJSON []byte

	// Headline figures, denormalized for listing without decoding documents.
	TotalLiability string
	EmployeeCount  int
	SkippedCount   int
	AlertCount     int
	HighRiskCount  int
}

// RunAlert is one alert raised by a persisted run.
type RunAlert struct {
	RunID     string
	Kind      string
	Severity  string
	EntityID  string
	Value     string
	Threshold string
	Message   string
}

// RunStore persists assessment runs and their alerts.
type RunStore interface {
	// SaveRun persists a run and its alerts atomically.
	SaveRun(ctx context.Context, run AssessmentRun, alerts []RunAlert) error

	// GetRun loads one run by ID, failing with ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*AssessmentRun, error)

	// ListRuns returns runs newest-first, at most limit entries.
	ListRuns(ctx context.Context, limit int) ([]AssessmentRun, error)

	// GetAlerts returns the alerts raised by one run, in stored order.
	GetAlerts(ctx context.Context, runID string) ([]RunAlert, error)
}
