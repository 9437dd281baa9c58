/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Sets up the chi router with all API routes and middleware.

MIDDLEWARE STACK (applied in order):
  1. RequestID - Tags each request for log correlation
  2. Logger    - Request logging
  3. Recoverer - Panic recovery (500 instead of crash)
  4. CORS      - Cross-origin support for browser clients

ROUTE STRUCTURE:
  /api/assessments - Calculation runs
  /api/countries   - Built-in jurisdiction rules
  /api/scenarios   - Demo portfolios
  /                - Minimal index page listing the endpoints

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/assessments", func(r chi.Router) {
			r.Post("/", h.RunAssessment)
			r.Get("/", h.ListAssessments)
			r.Get("/{id}", h.GetAssessment)
			r.Get("/{id}/alerts", h.GetAssessmentAlerts)
		})

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", h.ListCountries)
			r.Get("/{code}", h.GetCountry)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/{id}/run", h.RunScenario)
		})
	})

	r.Get("/", indexPage)

	return r
}

func indexPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Liability Engine</title></head>
<body>
<h1>Termination Liability Engine</h1>
<p>REST API for termination liability calculation and risk scoring.</p>
<ul>
  <li>POST /api/assessments - run a calculation</li>
  <li>GET /api/assessments - list persisted runs</li>
  <li>GET /api/assessments/{id} - one run's result document</li>
  <li>GET /api/assessments/{id}/alerts - one run's alerts</li>
  <li>GET /api/countries - built-in jurisdictions</li>
  <li>GET /api/countries/{code} - one jurisdiction's rules</li>
  <li>GET /api/scenarios - demo portfolios</li>
  <li>POST /api/scenarios/{id}/run - assess a demo portfolio</li>
</ul>
</body>
</html>`))
}
