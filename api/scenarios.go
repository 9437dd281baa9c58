/*
scenarios.go - Demo portfolio scenarios

PURPOSE:
  Provides canned employee portfolios for demos and manual testing. Each
  scenario is a ready-made assessment request that exercises a different
  slice of the rule table: a single high-exposure jurisdiction, a balanced
  global book, and a concentration-heavy book that trips alerts.

USAGE:
  GET  /api/scenarios           List scenarios
  POST /api/scenarios/{id}/run  Assess one scenario with built-in rules

SEE ALSO:
  - handlers.go: The assessment path scenarios run through
  - countries/countries.go: The rule presets scenarios rely on
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ID          string
	Name        string
	Description string
	Employees   []EmployeeDTO
}

func intPtr(n int) *int { return &n }

var scenarios = []scenario{
	{
		ID:          "brazil-heavy",
		Name:        "Brazil-heavy book",
		Description: "High FX volatility and FGTS exposure concentrated in one jurisdiction",
		Employees: []EmployeeDTO{
			{ID: "br-001", Name: "Ana Souza", Country: "BR", BaseMonthlySalary: "18000", TenureMonths: intPtr(48), FGTSBalance: "86400"},
			{ID: "br-002", Name: "Carlos Lima", Country: "BR", BaseMonthlySalary: "9500", TenureMonths: intPtr(14), FGTSBalance: "15960"},
			{ID: "br-003", Name: "Beatriz Rocha", Country: "BR", BaseMonthlySalary: "26000", TenureMonths: intPtr(80), FGTSBalance: "166400", JobLevel: "director"},
			{ID: "de-001", Name: "Jonas Weber", Country: "DE", BaseMonthlySalary: "7200", TenureMonths: intPtr(30)},
		},
	},
	{
		ID:          "global-mix",
		Name:        "Global mix",
		Description: "One employee in each supported jurisdiction, mid-tenure",
		Employees: []EmployeeDTO{
			{ID: "au-001", Country: "AU", BaseMonthlySalary: "9000", TenureMonths: intPtr(40)},
			{ID: "br-010", Country: "BR", BaseMonthlySalary: "12000", TenureMonths: intPtr(36), FGTSBalance: "34560"},
			{ID: "de-010", Country: "DE", BaseMonthlySalary: "6800", TenureMonths: intPtr(50)},
			{ID: "fr-010", Country: "FR", BaseMonthlySalary: "5600", TenureMonths: intPtr(44)},
			{ID: "gb-010", Country: "GB", BaseMonthlySalary: "5200", TenureMonths: intPtr(60)},
			{ID: "in-010", Country: "IN", BaseMonthlySalary: "160000", TenureMonths: intPtr(72)},
			{ID: "mx-010", Country: "MX", BaseMonthlySalary: "42000", TenureMonths: intPtr(36)},
			{ID: "nl-010", Country: "NL", BaseMonthlySalary: "6100", TenureMonths: intPtr(48)},
			{ID: "ph-010", Country: "PH", BaseMonthlySalary: "55000", TenureMonths: intPtr(24)},
			{ID: "sg-010", Country: "SG", BaseMonthlySalary: "8400", TenureMonths: intPtr(36)},
		},
	},
	{
		ID:          "long-tenure",
		Name:        "Long-tenure senior staff",
		Description: "Decade-plus tenures and senior levels where caps and extensions bite",
		Employees: []EmployeeDTO{
			{ID: "in-100", Country: "IN", BaseMonthlySalary: "450000", TenureMonths: intPtr(150), JobLevel: "head"},
			{ID: "gb-100", Country: "GB", BaseMonthlySalary: "11000", TenureMonths: intPtr(300)},
			{ID: "de-100", Country: "DE", BaseMonthlySalary: "12500", TenureMonths: intPtr(240)},
			{ID: "nl-100", Country: "NL", BaseMonthlySalary: "14000", TenureMonths: intPtr(200)},
			{ID: "au-100", Country: "AU", BaseMonthlySalary: "13000", TenureMonths: intPtr(360)},
		},
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo portfolios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Employees:   len(s.Employees),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunScenario assesses one demo portfolio with the built-in rule presets.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, s := range scenarios {
		if s.ID == id {
			req := AssessmentRequest{
				AsOf:      time.Now().UTC().Format("2006-01-02"),
				Employees: s.Employees,
			}
			h.assess(w, r, req)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Scenario not found", nil)
}
