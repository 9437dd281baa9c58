/*
Package engine provides the core liability calculation and risk scoring engine.

PURPOSE:
  This package contains the domain types and algorithms for computing
  employer-of-record termination liability across jurisdictions: notice pay,
  severance, statutory bonus accruals, currency conversion, composite risk
  scoring, portfolio aggregation, and threshold alerting.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount with a currency (decimal-backed, never float)
  - EmployeeRecord: One employee's input to a calculation run
  - LiabilityBreakdown / LiabilityResult: Per-employee output
  - PortfolioSummary: Aggregated output for a whole run
  - Alert: A threshold breach record
  - Conventions: Day/week rate conventions, passed in rather than hardcoded

DESIGN PRINCIPLES:
  1. Value objects: Every output is freshly allocated per run, never mutated
  2. Precision: Uses decimal.Decimal to avoid floating-point errors in money
  3. Type Safety: Strong typing for country/currency codes and employee IDs
  4. Explicit configuration: Rule tables, thresholds, and conventions are
     passed into each run; the engine holds no ambient state

USAGE:
  resp, err := engine.Run(engine.Request{
      Rules:     table,
      FXRates:   rates,
      Employees: employees,
      ...
  })

SEE ALSO:
  - rules.go: Country rule definitions and the rule table
  - calculator.go: Per-employee liability computation
  - scorer.go: Composite risk scoring
  - portfolio.go: Portfolio aggregation
  - alerts.go: Threshold evaluation
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount with currency
// =============================================================================

type Money struct {
	Value    decimal.Decimal
	Currency CurrencyCode
}

func NewMoney(value decimal.Decimal, currency CurrencyCode) Money {
	return Money{Value: value, Currency: currency}
}

func MoneyFromFloat(value float64, currency CurrencyCode) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func (m Money) Zero() Money                 { return Money{Value: decimal.Zero, Currency: m.Currency} }
func (m Money) Add(b Money) Money           { return Money{Value: m.Value.Add(b.Value), Currency: m.Currency} }
func (m Money) Sub(b Money) Money           { return Money{Value: m.Value.Sub(b.Value), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s), Currency: m.Currency} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s), Currency: m.Currency} }
func (m Money) IsZero() bool                { return m.Value.IsZero() }
func (m Money) IsNegative() bool            { return m.Value.IsNegative() }
func (m Money) IsPositive() bool            { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool    { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool       { return m.Value.LessThan(b.Value) }

func (m Money) Min(b Money) Money {
	if m.LessThan(b) {
		return m
	}
	return b
}

// Convert applies an FX multiplier, producing an amount in the target currency.
// Conversion is always a single multiplicative step applied to a local total.
func (m Money) Convert(rate decimal.Decimal, target CurrencyCode) Money {
	return Money{Value: m.Value.Mul(rate), Currency: target}
}

// =============================================================================
// IDENTIFIERS AND RATINGS
// =============================================================================

type EmployeeID string
type CountryCode string
type CurrencyCode string

// Rating is a coarse three-band rating used for FX volatility and legal risk.
type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

func (r Rating) Valid() bool {
	return r == RatingLow || r == RatingMedium || r == RatingHigh
}

// rank orders ratings for "at least" comparisons.
func (r Rating) rank() int {
	switch r {
	case RatingLow:
		return 1
	case RatingMedium:
		return 2
	case RatingHigh:
		return 3
	}
	return 0
}

// AtLeast reports whether r is the same band as other or a higher one.
func (r Rating) AtLeast(other Rating) bool { return r.rank() >= other.rank() }

// RiskTier buckets a composite risk score.
type RiskTier string

const (
	TierLow    RiskTier = "low"
	TierMedium RiskTier = "medium"
	TierHigh   RiskTier = "high"
)

// =============================================================================
// EMPLOYEE RECORD - Input, one per employee
// =============================================================================

// EmployeeRecord describes one employee in a calculation request. Records are
// immutable for the duration of a run; the engine never mutates them.
//
// Tenure may be given directly in months, or derived from StartDate relative
// to the run's AsOf date (StartDate wins when both are set).
type EmployeeRecord struct {
	ID                EmployeeID
	Name              string
	CountryCode       CountryCode
	BaseMonthlySalary decimal.Decimal // local currency, must be positive
	TenureMonths      int             // non-negative
	StartDate         *time.Time
	JobLevel          string // country-specific: some notice rules extend senior staff

	// Country-specific balance fields required by certain severance rules.
	FGTSBalance *decimal.Decimal // Brazil severance fund balance
}

// =============================================================================
// LIABILITY OUTPUT - One per employee
// =============================================================================

// LiabilityBreakdown is the local-currency liability decomposition.
// Invariant: Total = NoticePay + SeverancePay + BonusAccrual, exactly.
type LiabilityBreakdown struct {
	NoticeDays   decimal.Decimal
	NoticePay    Money
	SeverancePay Money
	BonusAccrual Money
	Total        Money
}

// LiabilityResult is the full per-employee output including conversion
// into the reporting currency and the composite risk assessment.
type LiabilityResult struct {
	EmployeeID   EmployeeID
	Name         string
	CountryCode  CountryCode
	Currency     CurrencyCode
	TenureMonths int

	Breakdown      LiabilityBreakdown
	TotalConverted Money

	RiskScore    decimal.Decimal // always in [0,100]
	RiskTier     RiskTier
	FXVolatility Rating
	LegalRisk    Rating
}

// SkippedEmployee records an employee excluded from results by a
// per-employee error (unknown country, missing field, validation).
type SkippedEmployee struct {
	EmployeeID  EmployeeID
	CountryCode CountryCode
	Err         error
}

// =============================================================================
// PORTFOLIO SUMMARY - One per run
// =============================================================================

// Exposure is a grouped liability total in the reporting currency.
type Exposure struct {
	Key       string // country code or currency code
	Employees int
	Total     Money
	Share     decimal.Decimal // group total / portfolio total, 0 for empty portfolios
}

// ScoreDistribution summarizes the spread of risk scores across a run.
type ScoreDistribution struct {
	Mean   float64
	StdDev float64
	Median float64
	P95    float64
}

type PortfolioSummary struct {
	ReportingCurrency CurrencyCode
	TotalLiability    Money
	EmployeeCount     int
	SkippedCount      int

	ByCountry  []Exposure // sorted by key ascending
	ByCurrency []Exposure // sorted by key ascending

	TopCountryShare  decimal.Decimal
	TopCurrencyShare decimal.Decimal

	AverageRiskScore decimal.Decimal
	HighRiskCount    int
	Scores           ScoreDistribution
}

// =============================================================================
// ALERTS
// =============================================================================

type AlertKind string

const (
	AlertEmployeeThreshold     AlertKind = "employee_threshold_breach"
	AlertCountryConcentration  AlertKind = "country_concentration_breach"
	AlertPortfolioTotal        AlertKind = "portfolio_total_breach"
	AlertFXVolatilityExposure  AlertKind = "fx_volatility_exposure"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert records a single threshold breach. One entity may breach several
// thresholds and appear in several alerts.
type Alert struct {
	Kind      AlertKind
	Severity  Severity
	EntityID  string // employee ID, country code, currency code, or "portfolio"
	Value     decimal.Decimal
	Threshold decimal.Decimal
	Message   string
}

// =============================================================================
// CONVENTIONS - Rate conversion conventions, configuration not constants
// =============================================================================

// Conventions pins the divisors used to turn monthly salaries into daily and
// weekly rates. The choice is jurisdiction practice, not engine logic, so it
// travels with the request and is applied uniformly within a run.
type Conventions struct {
	DaysPerMonth  decimal.Decimal
	WeeksPerMonth decimal.Decimal
}

func DefaultConventions() Conventions {
	return Conventions{
		DaysPerMonth:  decimal.NewFromInt(30),
		WeeksPerMonth: decimal.NewFromFloat(4.33),
	}
}

// DailyRate converts a monthly salary to a daily pay rate.
func (c Conventions) DailyRate(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Div(c.DaysPerMonth)
}

// WeeklyRate converts a monthly salary to a weekly pay rate.
func (c Conventions) WeeklyRate(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Div(c.WeeksPerMonth)
}

// =============================================================================
// REQUEST / RESPONSE - The engine's external contract
// =============================================================================

// Request is one self-contained calculation run. All configuration is carried
// on the request so concurrent runs with different configurations cannot
// interfere.
type Request struct {
	Rules             *RuleTable
	FXRates           map[CurrencyCode]decimal.Decimal // multiplier into ReportingCurrency
	ReportingCurrency CurrencyCode
	Thresholds        Thresholds
	Scoring           ScoringConfig
	Conventions       Conventions
	AsOf              time.Time // anchors bonus proration and start-date tenure
	Employees         []EmployeeRecord
}

// Response carries per-employee results in input order, the portfolio
// summary, alerts in deterministic order, and the skipped-employee list.
type Response struct {
	Results []LiabilityResult
	Skipped []SkippedEmployee
	Summary PortfolioSummary
	Alerts  []Alert
}
