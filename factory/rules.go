/*
Package factory provides JSON to Go rule configuration conversion.

PURPOSE:
  Converts the JSON configuration payload (country rules, FX rates, alert
  thresholds, scoring parameters) into engine types. This enables rule
  updates without code changes - legal/ops can maintain country rules as
  JSON, and the factory builds the validated rule table.

WHY JSON?
  - Non-developers can maintain country rule data
  - Easy integration with admin tooling
  - Version control for rule definitions
  - Database storage of rule configurations

JSON SCHEMA (per country):
  {
    "code": "BR",
    "name": "Brazil",
    "currency": "BRL",
    "fx_volatility": "high",
    "legal_risk": "high",
    "notice": {"variant": "flat_days", "base_days": 30,
               "days_per_year": 3, "max_days": 90},
    "severance": {"variant": "percent_of_balance", "balance_rate": "0.40"},
    "bonus": {"thirteenth_month": true, "vacation_bonus_percent": "33.33"}
  }

  Monetary and rate constants are JSON strings parsed as exact decimals;
  malformed values are configuration errors, never silently zeroed.

SEE ALSO:
  - engine/rules.go: Variant definitions and table validation
  - api/: Accepts this payload on assessment requests
*/
package factory

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/liability-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the full configuration payload for one calculation run.
type ConfigJSON struct {
	Countries         []CountryJSON     `json:"countries"`
	FXRates           map[string]string `json:"fx_rates"` // currency -> multiplier
	ReportingCurrency string            `json:"reporting_currency"`
	Thresholds        *ThresholdsJSON   `json:"thresholds,omitempty"`
	Scoring           *ScoringJSON      `json:"scoring,omitempty"`
}

type CountryJSON struct {
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	Currency     string         `json:"currency"`
	FXVolatility string         `json:"fx_volatility"`
	LegalRisk    string         `json:"legal_risk"`
	Notice       NoticeJSON     `json:"notice"`
	Severance    SeveranceJSON  `json:"severance"`
	Bonus        *BonusJSON     `json:"bonus,omitempty"`
}

type NoticeJSON struct {
	Variant      string            `json:"variant"`
	BaseDays     int               `json:"base_days,omitempty"`
	DaysPerYear  int               `json:"days_per_year,omitempty"`
	MaxDays      int               `json:"max_days,omitempty"`
	SeniorDays   int               `json:"senior_days,omitempty"`
	SeniorLevels []string          `json:"senior_levels,omitempty"`
	Tiers        []NoticeTierJSON  `json:"tiers,omitempty"`
	Brackets     []WeekBracketJSON `json:"brackets,omitempty"`
	Indemnity    string            `json:"indemnity_months,omitempty"`
}

type NoticeTierJSON struct {
	MinMonths int    `json:"min_months"`
	Months    string `json:"months"`
}

type WeekBracketJSON struct {
	MinMonths    int    `json:"min_months"`
	Weeks        string `json:"weeks,omitempty"`
	WeeksPerYear string `json:"weeks_per_year,omitempty"`
	MaxWeeks     string `json:"max_weeks,omitempty"`
}

type SeveranceJSON struct {
	Variant         string   `json:"variant"`
	MinTenureMonths int      `json:"min_tenure_months,omitempty"`
	BalanceRate     string   `json:"balance_rate,omitempty"`
	InitialRate     string   `json:"initial_rate,omitempty"`
	InitialYears    int      `json:"initial_years,omitempty"`
	SubsequentRate  string   `json:"subsequent_rate,omitempty"`
	MonthsPerYear   string   `json:"months_per_year,omitempty"`
	WeeksPerYear    string   `json:"weeks_per_year,omitempty"`
	MinimumMonths   string   `json:"minimum_months,omitempty"`
	Cap             string   `json:"cap,omitempty"`
	WeeklyPayCap    string   `json:"weekly_pay_cap,omitempty"`
	MaxYears        int      `json:"max_years,omitempty"`
	Scale           []string `json:"scale,omitempty"`
}

type BonusJSON struct {
	ThirteenthMonth         bool   `json:"thirteenth_month,omitempty"`
	AguinaldoDays           string `json:"aguinaldo_days,omitempty"`
	HolidayAllowancePercent string `json:"holiday_allowance_percent,omitempty"`
	StatutoryBonusPercent   string `json:"statutory_bonus_percent,omitempty"`
	StatutoryBonusSalaryCap string `json:"statutory_bonus_salary_cap,omitempty"`
	VacationBonusPercent    string `json:"vacation_bonus_percent,omitempty"`
}

type ThresholdsJSON struct {
	EmployeeLiability    *ThresholdJSON `json:"employee_liability,omitempty"`
	CountryConcentration *ThresholdJSON `json:"country_concentration,omitempty"`
	PortfolioTotal       *ThresholdJSON `json:"portfolio_total,omitempty"`
	FXVolatilityAtLeast  string         `json:"fx_volatility_at_least,omitempty"`
	FXSeverity           string         `json:"fx_severity,omitempty"`
}

type ThresholdJSON struct {
	Value    string `json:"value"`
	Severity string `json:"severity"`
}

type ScoringJSON struct {
	ReferenceLiability string `json:"reference_liability,omitempty"`
	BaseRiskFactor     string `json:"base_risk_factor,omitempty"`
	TierMediumMin      string `json:"tier_medium_min,omitempty"`
	TierHighMin        string `json:"tier_high_min,omitempty"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON configuration payloads into engine types.
type RuleFactory struct{}

func NewRuleFactory() *RuleFactory { return &RuleFactory{} }

// ParseConfig parses a full JSON configuration payload.
func (f *RuleFactory) ParseConfig(data []byte) (*engine.RuleTable, map[engine.CurrencyCode]decimal.Decimal, engine.Thresholds, engine.ScoringConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, nil, engine.Thresholds{}, engine.ScoringConfig{},
			&engine.ConfigurationError{Component: "payload", Message: "malformed JSON: " + err.Error()}
	}
	return f.FromJSON(cj)
}

// FromJSON converts an already-decoded payload.
func (f *RuleFactory) FromJSON(cj ConfigJSON) (*engine.RuleTable, map[engine.CurrencyCode]decimal.Decimal, engine.Thresholds, engine.ScoringConfig, error) {
	var zero engine.ScoringConfig

	rules := make([]engine.CountryRule, 0, len(cj.Countries))
	for _, c := range cj.Countries {
		rule, err := f.countryRule(c)
		if err != nil {
			return nil, nil, engine.Thresholds{}, zero, err
		}
		rules = append(rules, rule)
	}
	table, err := engine.NewRuleTable(rules)
	if err != nil {
		return nil, nil, engine.Thresholds{}, zero, err
	}

	rates := make(map[engine.CurrencyCode]decimal.Decimal, len(cj.FXRates))
	for cur, raw := range cj.FXRates {
		rate, err := parseDec("fx_rates", cur, raw)
		if err != nil {
			return nil, nil, engine.Thresholds{}, zero, err
		}
		rates[engine.CurrencyCode(cur)] = rate
	}

	thresholds, err := f.thresholds(cj.Thresholds)
	if err != nil {
		return nil, nil, engine.Thresholds{}, zero, err
	}

	scoring, err := f.scoring(cj.Scoring)
	if err != nil {
		return nil, nil, engine.Thresholds{}, zero, err
	}

	return table, rates, thresholds, scoring, nil
}

func (f *RuleFactory) countryRule(c CountryJSON) (engine.CountryRule, error) {
	rule := engine.CountryRule{
		Code:         engine.CountryCode(c.Code),
		Name:         c.Name,
		Currency:     engine.CurrencyCode(c.Currency),
		FXVolatility: engine.Rating(c.FXVolatility),
		LegalRisk:    engine.Rating(c.LegalRisk),
	}

	notice := engine.NoticeRule{
		Variant:      engine.NoticeVariant(c.Notice.Variant),
		BaseDays:     c.Notice.BaseDays,
		DaysPerYear:  c.Notice.DaysPerYear,
		MaxDays:      c.Notice.MaxDays,
		SeniorDays:   c.Notice.SeniorDays,
		SeniorLevels: c.Notice.SeniorLevels,
	}
	for _, t := range c.Notice.Tiers {
		months, err := parseDec(c.Code, "notice tier months", t.Months)
		if err != nil {
			return engine.CountryRule{}, err
		}
		notice.Tiers = append(notice.Tiers, engine.NoticeTier{MinMonths: t.MinMonths, Months: months})
	}
	for _, b := range c.Notice.Brackets {
		bracket := engine.WeekBracket{MinMonths: b.MinMonths}
		var err error
		if bracket.Weeks, err = parseOptDec(c.Code, "bracket weeks", b.Weeks); err != nil {
			return engine.CountryRule{}, err
		}
		if bracket.WeeksPerYear, err = parseOptDec(c.Code, "bracket weeks_per_year", b.WeeksPerYear); err != nil {
			return engine.CountryRule{}, err
		}
		if bracket.MaxWeeks, err = parseOptDec(c.Code, "bracket max_weeks", b.MaxWeeks); err != nil {
			return engine.CountryRule{}, err
		}
		notice.Brackets = append(notice.Brackets, bracket)
	}
	var err error
	if notice.IndemnityMonths, err = parseOptDec(c.Code, "indemnity_months", c.Notice.Indemnity); err != nil {
		return engine.CountryRule{}, err
	}
	rule.Notice = notice

	sev := engine.SeveranceRule{
		Variant:         engine.SeveranceVariant(c.Severance.Variant),
		MinTenureMonths: c.Severance.MinTenureMonths,
		InitialYears:    c.Severance.InitialYears,
		MaxYears:        c.Severance.MaxYears,
	}
	if sev.BalanceRate, err = parseOptDec(c.Code, "balance_rate", c.Severance.BalanceRate); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.InitialRate, err = parseOptDec(c.Code, "initial_rate", c.Severance.InitialRate); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.SubsequentRate, err = parseOptDec(c.Code, "subsequent_rate", c.Severance.SubsequentRate); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.MonthsPerYear, err = parseOptDec(c.Code, "months_per_year", c.Severance.MonthsPerYear); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.WeeksPerYear, err = parseOptDec(c.Code, "weeks_per_year", c.Severance.WeeksPerYear); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.MinimumMonths, err = parseOptDec(c.Code, "minimum_months", c.Severance.MinimumMonths); err != nil {
		return engine.CountryRule{}, err
	}
	if sev.WeeklyPayCap, err = parseOptDec(c.Code, "weekly_pay_cap", c.Severance.WeeklyPayCap); err != nil {
		return engine.CountryRule{}, err
	}
	if c.Severance.Cap != "" {
		cap, err := parseDec(c.Code, "cap", c.Severance.Cap)
		if err != nil {
			return engine.CountryRule{}, err
		}
		sev.Cap = &cap
	}
	for _, raw := range c.Severance.Scale {
		w, err := parseDec(c.Code, "scale entry", raw)
		if err != nil {
			return engine.CountryRule{}, err
		}
		sev.Scale = append(sev.Scale, w)
	}
	rule.Severance = sev

	if c.Bonus != nil {
		bonus := engine.BonusRule{ThirteenthMonth: c.Bonus.ThirteenthMonth}
		if bonus.AguinaldoDays, err = parseOptDec(c.Code, "aguinaldo_days", c.Bonus.AguinaldoDays); err != nil {
			return engine.CountryRule{}, err
		}
		if bonus.HolidayAllowancePercent, err = parseOptDec(c.Code, "holiday_allowance_percent", c.Bonus.HolidayAllowancePercent); err != nil {
			return engine.CountryRule{}, err
		}
		if bonus.StatutoryBonusPercent, err = parseOptDec(c.Code, "statutory_bonus_percent", c.Bonus.StatutoryBonusPercent); err != nil {
			return engine.CountryRule{}, err
		}
		if bonus.StatutoryBonusSalaryCap, err = parseOptDec(c.Code, "statutory_bonus_salary_cap", c.Bonus.StatutoryBonusSalaryCap); err != nil {
			return engine.CountryRule{}, err
		}
		if bonus.VacationBonusPercent, err = parseOptDec(c.Code, "vacation_bonus_percent", c.Bonus.VacationBonusPercent); err != nil {
			return engine.CountryRule{}, err
		}
		rule.Bonus = &bonus
	}

	return rule, nil
}

// ParseThresholds converts a standalone alert threshold payload.
func (f *RuleFactory) ParseThresholds(tj *ThresholdsJSON) (engine.Thresholds, error) {
	return f.thresholds(tj)
}

func (f *RuleFactory) thresholds(tj *ThresholdsJSON) (engine.Thresholds, error) {
	var out engine.Thresholds
	if tj == nil {
		return out, nil
	}

	var err error
	if out.EmployeeLiability, err = threshold("employee_liability", tj.EmployeeLiability); err != nil {
		return out, err
	}
	if out.CountryConcentration, err = threshold("country_concentration", tj.CountryConcentration); err != nil {
		return out, err
	}
	if out.PortfolioTotal, err = threshold("portfolio_total", tj.PortfolioTotal); err != nil {
		return out, err
	}
	out.FXVolatilityAtLeast = engine.Rating(tj.FXVolatilityAtLeast)
	out.FXSeverity = severityOrDefault(tj.FXSeverity)
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

func (f *RuleFactory) scoring(sj *ScoringJSON) (engine.ScoringConfig, error) {
	cfg := engine.DefaultScoringConfig()
	if sj == nil {
		return cfg, nil
	}

	assign := func(field, raw string, dst *decimal.Decimal) error {
		if raw == "" {
			return nil
		}
		v, err := parseDec("scoring", field, raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	if err := assign("reference_liability", sj.ReferenceLiability, &cfg.ReferenceLiability); err != nil {
		return cfg, err
	}
	if err := assign("base_risk_factor", sj.BaseRiskFactor, &cfg.BaseRiskFactor); err != nil {
		return cfg, err
	}
	if err := assign("tier_medium_min", sj.TierMediumMin, &cfg.TierMediumMin); err != nil {
		return cfg, err
	}
	if err := assign("tier_high_min", sj.TierHighMin, &cfg.TierHighMin); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func threshold(name string, tj *ThresholdJSON) (*engine.Threshold, error) {
	if tj == nil {
		return nil, nil
	}
	v, err := parseDec("thresholds", name, tj.Value)
	if err != nil {
		return nil, err
	}
	return &engine.Threshold{Value: v, Severity: severityOrDefault(tj.Severity)}, nil
}

func severityOrDefault(s string) engine.Severity {
	switch engine.Severity(s) {
	case engine.SeverityInfo, engine.SeverityWarning, engine.SeverityCritical:
		return engine.Severity(s)
	}
	return engine.SeverityWarning
}

func parseDec(scope, field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &engine.ConfigurationError{
			Component: "payload",
			Message:   fmt.Sprintf("%s: %s: not a decimal: %q", scope, field, raw),
		}
	}
	return d, nil
}

func parseOptDec(scope, field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseDec(scope, field, raw)
}
