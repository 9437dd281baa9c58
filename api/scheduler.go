/*
scheduler.go - Periodic portfolio revaluation

PURPOSE:
  Re-values the most recent persisted assessment on a schedule. Rule presets
  and reference FX rates change over time; a run persisted last week may no
  longer reflect the current exposure. The scheduler recomputes the latest
  run's portfolio with current rules and logs the drift against the stored
  total so operators notice stale books.

DESIGN:
  - Runs in a background goroutine with a ticker
  - First pass fires immediately on Start
  - Revaluation is read-only: it never overwrites the persisted run
  - Stop() blocks until the loop exits

USAGE:
  sched := api.NewRevaluationScheduler(handler, log)
  sched.Start()
  defer sched.Stop()

SEE ALSO:
  - handlers.go: The request-building path revaluation reuses
  - store/store.go: Run persistence
*/
package api

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/liability-engine/engine"
)

// RevaluationScheduler periodically recomputes the latest persisted run.
type RevaluationScheduler struct {
	Handler       *Handler
	Log           zerolog.Logger
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRevaluationScheduler creates a scheduler with a 1 hour interval.
func NewRevaluationScheduler(h *Handler, log zerolog.Logger) *RevaluationScheduler {
	return &RevaluationScheduler{
		Handler:       h,
		Log:           log,
		CheckInterval: time.Hour,
	}
}

// Start begins the background revaluation loop.
func (s *RevaluationScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return // already running
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	// The loop gets its own references: Stop nils the field under the
	// mutex, which the goroutine must never read.
	go s.run(s.ticker, s.stop)

	s.Log.Info().Dur("interval", s.CheckInterval).Msg("revaluation scheduler started")
}

// Stop halts the loop and waits for it to exit.
func (s *RevaluationScheduler) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.Log.Info().Msg("revaluation scheduler stopped")
}

func (s *RevaluationScheduler) run(ticker *time.Ticker, stop chan struct{}) {
	defer s.wg.Done()

	s.RevalueLatest(context.Background())

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.RevalueLatest(context.Background())
		}
	}
}

// RevalueLatest recomputes the most recent run with current rules and logs
// the drift against its stored total. Exported for manual triggering.
func (s *RevaluationScheduler) RevalueLatest(ctx context.Context) {
	runs, err := s.Handler.Runs.ListRuns(ctx, 1)
	if err != nil {
		s.Log.Error().Err(err).Msg("revaluation: failed to list runs")
		return
	}
	if len(runs) == 0 {
		return // nothing persisted yet
	}
	latest := runs[0]

	var req AssessmentRequest
	if err := json.Unmarshal(latest.RequestJSON, &req); err != nil {
		s.Log.Error().Err(err).Str("run_id", latest.ID).Msg("revaluation: bad stored request")
		return
	}
	// Anchor proration to today, not the original run date.
	req.AsOf = time.Now().UTC().Format("2006-01-02")

	engineReq, _, err := s.Handler.buildEngineRequest(req)
	if err != nil {
		s.Log.Error().Err(err).Str("run_id", latest.ID).Msg("revaluation: request no longer valid")
		return
	}
	resp, err := engine.Run(engineReq)
	if err != nil {
		s.Log.Error().Err(err).Str("run_id", latest.ID).Msg("revaluation: engine run failed")
		return
	}

	stored, err := decimal.NewFromString(latest.TotalLiability)
	if err != nil {
		s.Log.Error().Str("run_id", latest.ID).Str("total", latest.TotalLiability).
			Msg("revaluation: unparseable stored total")
		return
	}
	current := resp.Summary.TotalLiability.Value
	drift := current.Sub(stored)

	evt := s.Log.Info()
	if !drift.IsZero() {
		evt = s.Log.Warn()
	}
	evt.
		Str("run_id", latest.ID).
		Str("stored_total", stored.StringFixed(2)).
		Str("current_total", current.StringFixed(2)).
		Str("drift", drift.StringFixed(2)).
		Int("alerts", len(resp.Alerts)).
		Msg("portfolio revaluation")
}
