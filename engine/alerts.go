/*
alerts.go - Threshold evaluation

PURPOSE:
  Stateless rule evaluator over aggregated and per-employee results. Each
  configured threshold emits one Alert per breach; an entity breaching
  several thresholds appears in several alerts.

ORDERING:
  Output order is deterministic so identical inputs produce identical alert
  sequences: alert kind rank, then severity descending, then entity ID
  ascending.

THRESHOLDS:
  employee liability ceiling   per-employee converted total
  country concentration        top-country share of portfolio total
  portfolio total ceiling      portfolio converted total
  fx volatility floor          employees paid in currencies rated at or
                               above a volatility band

SEE ALSO:
  - portfolio.go: Produces the summary evaluated here
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Threshold pairs a numeric ceiling with the severity of its breach.
type Threshold struct {
	Value    decimal.Decimal
	Severity Severity
}

// Thresholds is the alerting configuration for one run. Nil entries disable
// that rule.
type Thresholds struct {
	EmployeeLiability    *Threshold // converted currency amount
	CountryConcentration *Threshold // share in (0,1]
	PortfolioTotal       *Threshold // converted currency amount
	// FXVolatilityAtLeast alerts on employees paid in a currency whose
	// volatility rating is at or above this band. Empty disables.
	FXVolatilityAtLeast Rating
	FXSeverity          Severity
}

// Validate rejects malformed thresholds before any employee is processed.
func (t Thresholds) Validate() error {
	if t.EmployeeLiability != nil && t.EmployeeLiability.Value.IsNegative() {
		return &ConfigurationError{Component: "thresholds", Message: "employee liability ceiling is negative"}
	}
	if t.PortfolioTotal != nil && t.PortfolioTotal.Value.IsNegative() {
		return &ConfigurationError{Component: "thresholds", Message: "portfolio total ceiling is negative"}
	}
	if c := t.CountryConcentration; c != nil {
		if c.Value.LessThanOrEqual(decimal.Zero) || c.Value.GreaterThan(decimal.NewFromInt(1)) {
			return &ConfigurationError{Component: "thresholds", Message: "country concentration ceiling must be in (0,1]"}
		}
	}
	if t.FXVolatilityAtLeast != "" && !t.FXVolatilityAtLeast.Valid() {
		return &ConfigurationError{Component: "thresholds", Message: fmt.Sprintf("invalid fx volatility band %q", t.FXVolatilityAtLeast)}
	}
	return nil
}

// EvaluateAlerts scans the summary and per-employee results for breaches.
func EvaluateAlerts(summary PortfolioSummary, results []LiabilityResult, t Thresholds) []Alert {
	var alerts []Alert

	if th := t.EmployeeLiability; th != nil {
		for _, r := range results {
			if r.TotalConverted.Value.GreaterThan(th.Value) {
				alerts = append(alerts, Alert{
					Kind:      AlertEmployeeThreshold,
					Severity:  th.Severity,
					EntityID:  string(r.EmployeeID),
					Value:     r.TotalConverted.Value,
					Threshold: th.Value,
					Message: fmt.Sprintf("employee %s liability %s %s exceeds ceiling %s",
						r.EmployeeID, r.TotalConverted.Value.StringFixed(2), summary.ReportingCurrency, th.Value.StringFixed(2)),
				})
			}
		}
	}

	if th := t.CountryConcentration; th != nil {
		for _, g := range summary.ByCountry {
			if g.Share.GreaterThan(th.Value) {
				alerts = append(alerts, Alert{
					Kind:      AlertCountryConcentration,
					Severity:  th.Severity,
					EntityID:  g.Key,
					Value:     g.Share,
					Threshold: th.Value,
					Message: fmt.Sprintf("country %s holds %s%% of portfolio liability (ceiling %s%%)",
						g.Key, g.Share.Mul(hundred).StringFixed(1), th.Value.Mul(hundred).StringFixed(1)),
				})
			}
		}
	}

	if th := t.PortfolioTotal; th != nil {
		if summary.TotalLiability.Value.GreaterThan(th.Value) {
			alerts = append(alerts, Alert{
				Kind:      AlertPortfolioTotal,
				Severity:  th.Severity,
				EntityID:  "portfolio",
				Value:     summary.TotalLiability.Value,
				Threshold: th.Value,
				Message: fmt.Sprintf("portfolio liability %s %s exceeds ceiling %s",
					summary.TotalLiability.Value.StringFixed(2), summary.ReportingCurrency, th.Value.StringFixed(2)),
			})
		}
	}

	if t.FXVolatilityAtLeast != "" {
		for _, r := range results {
			if r.FXVolatility.AtLeast(t.FXVolatilityAtLeast) {
				alerts = append(alerts, Alert{
					Kind:      AlertFXVolatilityExposure,
					Severity:  t.FXSeverity,
					EntityID:  string(r.EmployeeID),
					Value:     decimal.NewFromInt(int64(r.FXVolatility.rank())),
					Threshold: decimal.NewFromInt(int64(t.FXVolatilityAtLeast.rank())),
					Message: fmt.Sprintf("employee %s exposed to %s-volatility currency %s",
						r.EmployeeID, r.FXVolatility, r.Currency),
				})
			}
		}
	}

	sortAlerts(alerts)
	return alerts
}

var kindRank = map[AlertKind]int{
	AlertEmployeeThreshold:    0,
	AlertCountryConcentration: 1,
	AlertPortfolioTotal:       2,
	AlertFXVolatilityExposure: 3,
}

var severityRank = map[Severity]int{
	SeverityCritical: 3,
	SeverityWarning:  2,
	SeverityInfo:     1,
}

// sortAlerts: kind rank ascending, severity descending, entity ID ascending.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if kindRank[alerts[i].Kind] != kindRank[alerts[j].Kind] {
			return kindRank[alerts[i].Kind] < kindRank[alerts[j].Kind]
		}
		if severityRank[alerts[i].Severity] != severityRank[alerts[j].Severity] {
			return severityRank[alerts[i].Severity] > severityRank[alerts[j].Severity]
		}
		return alerts[i].EntityID < alerts[j].EntityID
	})
}
