/*
handlers.go - HTTP API handlers for the liability assessment service

PURPOSE:
  Exposes the liability engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Assessments:
    POST   /api/assessments             Run a calculation and persist it
    GET    /api/assessments             List persisted runs
    GET    /api/assessments/{id}        Full result document for one run
    GET    /api/assessments/{id}/alerts Alerts raised by one run

  Countries:
    GET    /api/countries               List built-in jurisdictions
    GET    /api/countries/{code}        One jurisdiction's rule summary

  Scenarios:
    GET    /api/scenarios               List demo portfolios
    POST   /api/scenarios/{id}/run      Assess a demo portfolio

REQUEST FLOW:
  1. Parse HTTP request
  2. Build the engine request (rules, FX, thresholds, employees)
  3. Run the engine
  4. Persist the run
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed payloads and configuration errors
  - 404: Unknown run or country
  - 500: Persistence failures
  Per-employee failures are NOT errors: they come back inside the result
  document as skipped entries.

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo portfolio definitions
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/liability-engine/countries"
	"github.com/warp/liability-engine/engine"
	"github.com/warp/liability-engine/factory"
	"github.com/warp/liability-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Runs    store.RunStore
	Factory *factory.RuleFactory
	Log     zerolog.Logger
}

// NewHandler creates a handler backed by the given run store.
func NewHandler(runs store.RunStore, log zerolog.Logger) *Handler {
	return &Handler{
		Runs:    runs,
		Factory: factory.NewRuleFactory(),
		Log:     log,
	}
}

// =============================================================================
// ASSESSMENT HANDLERS
// =============================================================================

// RunAssessment executes one calculation run and persists it.
// POST /api/assessments
func (h *Handler) RunAssessment(w http.ResponseWriter, r *http.Request) {
	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.assess(w, r, req)
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request, req AssessmentRequest) {
	engineReq, wireSkips, err := h.buildEngineRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		return
	}

	resp, err := engine.Run(engineReq)
	if err != nil {
		// Only configuration errors surface here; employee errors are
		// reported inside the result document.
		writeError(w, http.StatusBadRequest, "Assessment failed", err)
		return
	}

	runID := uuid.NewString()
	createdAt := time.Now().UTC()
	doc := h.buildResponse(runID, createdAt, resp, wireSkips)

	if err := h.persistRun(r, req, doc, resp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist run", err)
		return
	}

	h.Log.Info().
		Str("run_id", runID).
		Int("employees", doc.Summary.EmployeeCount).
		Int("skipped", doc.Summary.SkippedCount).
		Int("alerts", len(doc.Alerts)).
		Str("total", doc.Summary.TotalLiability).
		Msg("assessment completed")

	writeJSON(w, http.StatusCreated, doc)
}

// buildEngineRequest turns the wire payload into an engine request.
// Employees whose wire fields cannot be parsed are returned as skips, not
// failures, matching the engine's own partial-batch policy.
func (h *Handler) buildEngineRequest(req AssessmentRequest) (engine.Request, []SkippedDTO, error) {
	asOf, err := time.Parse("2006-01-02", req.AsOf)
	if err != nil {
		return engine.Request{}, nil, &engine.ConfigurationError{
			Component: "request", Message: "as_of must be YYYY-MM-DD",
		}
	}

	out := engine.Request{
		ReportingCurrency: engine.CurrencyCode("USD"),
		Scoring:           engine.DefaultScoringConfig(),
		Conventions:       engine.DefaultConventions(),
		AsOf:              asOf,
	}

	if req.Config != nil {
		table, rates, thresholds, scoring, err := h.Factory.FromJSON(*req.Config)
		if err != nil {
			return engine.Request{}, nil, err
		}
		out.Rules = table
		out.FXRates = rates
		out.Thresholds = thresholds
		out.Scoring = scoring
		if req.Config.ReportingCurrency != "" {
			out.ReportingCurrency = engine.CurrencyCode(req.Config.ReportingCurrency)
		}
	} else {
		table, err := countries.DefaultTable()
		if err != nil {
			return engine.Request{}, nil, err
		}
		out.Rules = table
		out.FXRates = countries.DefaultFXRates()
	}

	if req.ReportingCurrency != "" {
		out.ReportingCurrency = engine.CurrencyCode(req.ReportingCurrency)
	}

	// Top-level thresholds override whatever the config carried.
	if req.Thresholds != nil {
		thresholds, err := h.Factory.ParseThresholds(req.Thresholds)
		if err != nil {
			return engine.Request{}, nil, err
		}
		out.Thresholds = thresholds
	}

	if req.Conventions != nil {
		conv, err := parseConventions(*req.Conventions)
		if err != nil {
			return engine.Request{}, nil, err
		}
		out.Conventions = conv
	}

	var wireSkips []SkippedDTO
	for _, dto := range req.Employees {
		rec, err := toEmployeeRecord(dto)
		if err != nil {
			wireSkips = append(wireSkips, SkippedDTO{
				EmployeeID: dto.ID,
				Country:    dto.Country,
				Error:      err.Error(),
			})
			continue
		}
		out.Employees = append(out.Employees, rec)
	}
	return out, wireSkips, nil
}

func (h *Handler) buildResponse(runID string, createdAt time.Time, resp *engine.Response, wireSkips []SkippedDTO) AssessmentResponse {
	doc := AssessmentResponse{
		RunID:             runID,
		CreatedAt:         createdAt.Format(time.RFC3339),
		ReportingCurrency: string(resp.Summary.ReportingCurrency),
		Results:           make([]ResultDTO, len(resp.Results)),
		Skipped:           toSkippedDTOs(resp.Skipped),
		Summary:           toSummaryDTO(resp.Summary),
		Alerts:            toAlertDTOs(resp.Alerts),
	}
	for i, res := range resp.Results {
		doc.Results[i] = toResultDTO(res)
	}
	// Wire-level skips (unparseable fields) join the engine's skip list.
	doc.Skipped = append(doc.Skipped, wireSkips...)
	doc.Summary.SkippedCount += len(wireSkips)
	return doc
}

func (h *Handler) persistRun(r *http.Request, req AssessmentRequest, doc AssessmentResponse, resp *engine.Response) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return err
	}
	respJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	createdAt, _ := time.Parse(time.RFC3339, doc.CreatedAt)
	run := store.AssessmentRun{
		ID:                doc.RunID,
		CreatedAt:         createdAt,
		ReportingCurrency: doc.ReportingCurrency,
		RequestJSON:       reqJSON,
		ResponseJSON:      respJSON,
		TotalLiability:    doc.Summary.TotalLiability,
		EmployeeCount:     doc.Summary.EmployeeCount,
		SkippedCount:      doc.Summary.SkippedCount,
		AlertCount:        len(doc.Alerts),
		HighRiskCount:     doc.Summary.HighRiskCount,
	}

	alerts := make([]store.RunAlert, len(resp.Alerts))
	for i, a := range resp.Alerts {
		alerts[i] = store.RunAlert{
			RunID:     doc.RunID,
			Kind:      string(a.Kind),
			Severity:  string(a.Severity),
			EntityID:  a.EntityID,
			Value:     a.Value.String(),
			Threshold: a.Threshold.String(),
			Message:   a.Message,
		}
	}
	return h.Runs.SaveRun(r.Context(), run, alerts)
}

// ListAssessments returns persisted runs, newest first.
// GET /api/assessments?limit=N
func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunListItemDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunListItemDTO(run)
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

// GetAssessment returns the persisted result document for one run.
// GET /api/assessments/{id}
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load run", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(run.ResponseJSON)
}

// GetAssessmentAlerts returns one run's alerts.
// GET /api/assessments/{id}/alerts
func (h *Handler) GetAssessmentAlerts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	alerts, err := h.Runs.GetAlerts(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load alerts", err)
		return
	}

	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = AlertDTO{
			Kind:      a.Kind,
			Severity:  a.Severity,
			EntityID:  a.EntityID,
			Value:     a.Value,
			Threshold: a.Threshold,
			Message:   a.Message,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": dtos})
}

// =============================================================================
// COUNTRY HANDLERS
// =============================================================================

// ListCountries returns the built-in jurisdictions.
// GET /api/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	dtos := make([]CountryDTO, 0)
	for _, rule := range countries.All() {
		dtos = append(dtos, toCountryDTO(rule))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCountry returns one jurisdiction's rule summary.
// GET /api/countries/{code}
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	code := engine.CountryCode(chi.URLParam(r, "code"))

	table, err := countries.DefaultTable()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build rule table", err)
		return
	}
	rule, err := table.Lookup(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "Country not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCountryDTO(rule))
}

// =============================================================================
// HELPERS
// =============================================================================

func parseConventions(dto ConventionsDTO) (engine.Conventions, error) {
	conv := engine.DefaultConventions()
	if dto.DaysPerMonth != "" {
		d, err := decimal.NewFromString(dto.DaysPerMonth)
		if err != nil {
			return conv, &engine.ConfigurationError{Component: "conventions", Message: "days_per_month is not a decimal"}
		}
		conv.DaysPerMonth = d
	}
	if dto.WeeksPerMonth != "" {
		d, err := decimal.NewFromString(dto.WeeksPerMonth)
		if err != nil {
			return conv, &engine.ConfigurationError{Component: "conventions", Message: "weeks_per_month is not a decimal"}
		}
		conv.WeeksPerMonth = d
	}
	return conv, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
