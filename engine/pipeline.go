/*
pipeline.go - Batch orchestration for one calculation run

PURPOSE:
  Runs the full pipeline for one request: configuration validation,
  per-employee liability computation, risk scoring, portfolio aggregation,
  and alert evaluation.

ERROR POLICY:
  Configuration errors (rule table, FX coverage, thresholds, scoring)
  abort the run before any employee is processed. Per-employee errors
  (unknown country, missing field, validation) exclude only that employee;
  the rest of the batch proceeds and the skipped employee is reported with
  its error. Nothing is ever silently dropped.

CONCURRENCY:
  Run is pure and synchronous. Requests are self-contained, so hosting
  systems may invoke Run concurrently from independent goroutines with no
  coordination.

SEE ALSO:
  - calculator.go, scorer.go, portfolio.go, alerts.go
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Run executes one calculation request. The returned error is non-nil only
// for configuration-level failures; per-employee failures land in
// Response.Skipped.
func Run(req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	calc := NewCalculator(req.Conventions)
	scorer := NewScorer(req.Scoring)
	fraction := yearFraction(req.AsOf)

	resp := &Response{}
	for _, emp := range req.Employees {
		result, err := runEmployee(emp, req, calc, scorer, fraction)
		if err != nil {
			if IsSkippable(err) {
				resp.Skipped = append(resp.Skipped, SkippedEmployee{
					EmployeeID:  emp.ID,
					CountryCode: emp.CountryCode,
					Err:         err,
				})
				continue
			}
			return nil, err
		}
		resp.Results = append(resp.Results, result)
	}

	resp.Summary = Aggregate(resp.Results, len(resp.Skipped), req.ReportingCurrency, req.Scoring)
	resp.Alerts = EvaluateAlerts(resp.Summary, resp.Results, req.Thresholds)
	return resp, nil
}

func runEmployee(emp EmployeeRecord, req Request, calc *Calculator, scorer *Scorer, fraction decimal.Decimal) (LiabilityResult, error) {
	rule, err := req.Rules.Lookup(emp.CountryCode)
	if err != nil {
		return LiabilityResult{}, err
	}

	tenure, err := ResolveTenure(emp, req.AsOf)
	if err != nil {
		return LiabilityResult{}, err
	}

	breakdown, err := calc.Compute(emp, rule, tenure, fraction)
	if err != nil {
		return LiabilityResult{}, err
	}

	// FX coverage was checked up front; the rate is present.
	rate := req.FXRates[rule.Currency]
	converted := breakdown.Total.Convert(rate, req.ReportingCurrency)

	score, tier := scorer.Score(converted, rule)

	return LiabilityResult{
		EmployeeID:     emp.ID,
		Name:           emp.Name,
		CountryCode:    emp.CountryCode,
		Currency:       rule.Currency,
		TenureMonths:   tenure,
		Breakdown:      breakdown,
		TotalConverted: converted,
		RiskScore:      score,
		RiskTier:       tier,
		FXVolatility:   rule.FXVolatility,
		LegalRisk:      rule.LegalRisk,
	}, nil
}

// validateRequest checks every configuration surface before touching any
// employee, so a run either starts clean or not at all.
func validateRequest(req Request) error {
	if req.Rules == nil || req.Rules.Len() == 0 {
		return &ConfigurationError{Component: "rule_table", Message: "no rule table supplied"}
	}
	if req.ReportingCurrency == "" {
		return &ConfigurationError{Component: "fx_rates", Message: "missing reporting currency"}
	}
	if req.Conventions.DaysPerMonth.LessThanOrEqual(decimal.Zero) || req.Conventions.WeeksPerMonth.LessThanOrEqual(decimal.Zero) {
		return &ConfigurationError{Component: "conventions", Message: "day/week divisors must be positive"}
	}
	if req.AsOf.IsZero() {
		return &ConfigurationError{Component: "request", Message: "missing as-of date"}
	}
	if err := req.Scoring.Validate(); err != nil {
		return err
	}
	if err := req.Thresholds.Validate(); err != nil {
		return err
	}

	// Every currency in the rule table must have a positive FX multiplier:
	// without full coverage no portfolio total can be trusted.
	for _, cur := range req.Rules.Currencies() {
		rate, ok := req.FXRates[cur]
		if !ok {
			return &ConfigurationError{Component: "fx_rates", Message: fmt.Sprintf("missing rate for currency %s", cur)}
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return &ConfigurationError{Component: "fx_rates", Message: fmt.Sprintf("non-positive rate for currency %s", cur)}
		}
	}
	return nil
}
