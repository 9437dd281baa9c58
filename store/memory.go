package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory RunStore for tests and ephemeral deployments.
type Memory struct {
	mu     sync.RWMutex
	runs   map[string]AssessmentRun
	alerts map[string][]RunAlert
	order  []string // insertion order, oldest first
}

func NewMemory() *Memory {
	return &Memory{
		runs:   make(map[string]AssessmentRun),
		alerts: make(map[string][]RunAlert),
	}
}

func (m *Memory) SaveRun(_ context.Context, run AssessmentRun, alerts []RunAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; !exists {
		m.order = append(m.order, run.ID)
	}
	m.runs[run.ID] = run
	m.alerts[run.ID] = append([]RunAlert(nil), alerts...)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*AssessmentRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return &run, nil
}

func (m *Memory) ListRuns(_ context.Context, limit int) ([]AssessmentRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AssessmentRun, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.runs[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) GetAlerts(_ context.Context, runID string) ([]RunAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.runs[runID]; !ok {
		return nil, ErrRunNotFound
	}
	return append([]RunAlert(nil), m.alerts[runID]...), nil
}
