package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/warp/liability-engine/api"
	"github.com/warp/liability-engine/store"
)

func TestRevaluationScheduler_EmptyStore(t *testing.T) {
	h := api.NewHandler(store.NewMemory(), zerolog.Nop())
	sched := api.NewRevaluationScheduler(h, zerolog.Nop())

	// Nothing persisted yet: the pass is a no-op, not an error
	sched.RevalueLatest(context.Background())
}

func TestRevaluationScheduler_RevaluesLatestRun(t *testing.T) {
	srv, runs := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/assessments", assessBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	h := api.NewHandler(runs, zerolog.Nop())
	sched := api.NewRevaluationScheduler(h, zerolog.Nop())

	// The stored request replays cleanly against current rules
	sched.RevalueLatest(context.Background())
}

func TestRevaluationScheduler_RapidRestart(t *testing.T) {
	srv, runs := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/assessments", assessBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	h := api.NewHandler(runs, zerolog.Nop())
	sched := api.NewRevaluationScheduler(h, zerolog.Nop())

	// Stop frequently lands while the immediate first pass is still
	// running; the loop must survive that without touching shared state.
	for i := 0; i < 200; i++ {
		sched.Start()
		sched.Stop()
	}
}

func TestRevaluationScheduler_StartStop(t *testing.T) {
	h := api.NewHandler(store.NewMemory(), zerolog.Nop())
	sched := api.NewRevaluationScheduler(h, zerolog.Nop())
	sched.CheckInterval = 50 * time.Millisecond

	sched.Start()
	sched.Start() // idempotent
	time.Sleep(120 * time.Millisecond)
	sched.Stop()
	sched.Stop() // idempotent
}
