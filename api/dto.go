/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

MONETARY FIELDS:
  All monetary amounts and rates cross the wire as JSON strings and are
  parsed as exact decimals. Floats are never accepted for money.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation is done in handlers; domain validation happens in
  the engine. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: ConfigJSON payload embedded in AssessmentRequest
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/liability-engine/engine"
	"github.com/warp/liability-engine/factory"
	"github.com/warp/liability-engine/store"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AssessmentRequest is the payload for POST /api/assessments.
//
// Config is optional: when omitted, the built-in country presets, reference
// FX rates, and default scoring apply. Thresholds travel inside Config.
type AssessmentRequest struct {
	AsOf              string                  `json:"as_of"` // YYYY-MM-DD
	ReportingCurrency string                  `json:"reporting_currency,omitempty"`
	Config            *factory.ConfigJSON     `json:"config,omitempty"`
	Thresholds        *factory.ThresholdsJSON `json:"thresholds,omitempty"`
	Conventions       *ConventionsDTO         `json:"conventions,omitempty"`
	Employees         []EmployeeDTO           `json:"employees"`
}

// EmployeeDTO is one employee in an assessment request.
type EmployeeDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	Country           string `json:"country"`
	BaseMonthlySalary string `json:"base_monthly_salary"`
	TenureMonths      *int   `json:"tenure_months,omitempty"`
	StartDate         string `json:"start_date,omitempty"` // YYYY-MM-DD, wins over tenure_months
	JobLevel          string `json:"job_level,omitempty"`
	FGTSBalance       string `json:"fgts_balance,omitempty"`
}

// ConventionsDTO overrides the day/week rate divisors for one run.
type ConventionsDTO struct {
	DaysPerMonth  string `json:"days_per_month,omitempty"`
	WeeksPerMonth string `json:"weeks_per_month,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AssessmentResponse is the full result document for one run.
type AssessmentResponse struct {
	RunID             string       `json:"run_id"`
	CreatedAt         string       `json:"created_at"`
	ReportingCurrency string       `json:"reporting_currency"`
	Results           []ResultDTO  `json:"results"`
	Skipped           []SkippedDTO `json:"skipped"`
	Summary           SummaryDTO   `json:"summary"`
	Alerts            []AlertDTO   `json:"alerts"`
}

// ResultDTO is one employee's liability and risk assessment.
type ResultDTO struct {
	EmployeeID   string       `json:"employee_id"`
	Name         string       `json:"name,omitempty"`
	Country      string       `json:"country"`
	Currency     string       `json:"currency"`
	TenureMonths int          `json:"tenure_months"`
	Breakdown    BreakdownDTO `json:"breakdown"`
	Converted    string       `json:"converted_total"`
	RiskScore    string       `json:"risk_score"`
	RiskTier     string       `json:"risk_tier"`
	FXVolatility string       `json:"fx_volatility"`
	LegalRisk    string       `json:"legal_risk"`
}

// BreakdownDTO is the local-currency liability decomposition.
type BreakdownDTO struct {
	NoticeDays   string `json:"notice_days"`
	NoticePay    string `json:"notice_pay"`
	SeverancePay string `json:"severance_pay"`
	BonusAccrual string `json:"bonus_accrual"`
	Total        string `json:"total"`
}

// SkippedDTO records an employee excluded by a per-employee error.
type SkippedDTO struct {
	EmployeeID string `json:"employee_id"`
	Country    string `json:"country"`
	Error      string `json:"error"`
}

// ExposureDTO is a grouped liability total.
type ExposureDTO struct {
	Key       string `json:"key"`
	Employees int    `json:"employees"`
	Total     string `json:"total"`
	Share     string `json:"share"`
}

// ScoreDistributionDTO summarizes the spread of risk scores.
type ScoreDistributionDTO struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
}

// SummaryDTO is the aggregated portfolio view.
type SummaryDTO struct {
	ReportingCurrency string               `json:"reporting_currency"`
	TotalLiability    string               `json:"total_liability"`
	EmployeeCount     int                  `json:"employee_count"`
	SkippedCount      int                  `json:"skipped_count"`
	ByCountry         []ExposureDTO        `json:"by_country"`
	ByCurrency        []ExposureDTO        `json:"by_currency"`
	TopCountryShare   string               `json:"top_country_share"`
	TopCurrencyShare  string               `json:"top_currency_share"`
	AverageRiskScore  string               `json:"average_risk_score"`
	HighRiskCount     int                  `json:"high_risk_count"`
	Scores            ScoreDistributionDTO `json:"scores"`
}

// AlertDTO is one threshold breach.
type AlertDTO struct {
	Kind      string `json:"kind"`
	Severity  string `json:"severity"`
	EntityID  string `json:"entity_id"`
	Value     string `json:"value"`
	Threshold string `json:"threshold"`
	Message   string `json:"message"`
}

// CountryDTO describes one supported jurisdiction.
type CountryDTO struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	Currency         string `json:"currency"`
	FXVolatility     string `json:"fx_volatility"`
	LegalRisk        string `json:"legal_risk"`
	NoticeVariant    string `json:"notice_variant"`
	SeveranceVariant string `json:"severance_variant"`
	HasBonusRules    bool   `json:"has_bonus_rules"`
}

// RunListItemDTO is one persisted run in a listing.
type RunListItemDTO struct {
	RunID             string `json:"run_id"`
	CreatedAt         string `json:"created_at"`
	ReportingCurrency string `json:"reporting_currency"`
	TotalLiability    string `json:"total_liability"`
	EmployeeCount     int    `json:"employee_count"`
	SkippedCount      int    `json:"skipped_count"`
	AlertCount        int    `json:"alert_count"`
	HighRiskCount     int    `json:"high_risk_count"`
}

// ScenarioDTO represents a demo portfolio.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Employees   int    `json:"employees"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResultDTO(r engine.LiabilityResult) ResultDTO {
	return ResultDTO{
		EmployeeID:   string(r.EmployeeID),
		Name:         r.Name,
		Country:      string(r.CountryCode),
		Currency:     string(r.Currency),
		TenureMonths: r.TenureMonths,
		Breakdown: BreakdownDTO{
			NoticeDays:   r.Breakdown.NoticeDays.String(),
			NoticePay:    r.Breakdown.NoticePay.Value.StringFixed(2),
			SeverancePay: r.Breakdown.SeverancePay.Value.StringFixed(2),
			BonusAccrual: r.Breakdown.BonusAccrual.Value.StringFixed(2),
			Total:        r.Breakdown.Total.Value.StringFixed(2),
		},
		Converted:    r.TotalConverted.Value.StringFixed(2),
		RiskScore:    r.RiskScore.StringFixed(1),
		RiskTier:     string(r.RiskTier),
		FXVolatility: string(r.FXVolatility),
		LegalRisk:    string(r.LegalRisk),
	}
}

func toExposureDTOs(groups []engine.Exposure) []ExposureDTO {
	dtos := make([]ExposureDTO, len(groups))
	for i, g := range groups {
		dtos[i] = ExposureDTO{
			Key:       g.Key,
			Employees: g.Employees,
			Total:     g.Total.Value.StringFixed(2),
			Share:     g.Share.StringFixed(4),
		}
	}
	return dtos
}

func toSummaryDTO(s engine.PortfolioSummary) SummaryDTO {
	return SummaryDTO{
		ReportingCurrency: string(s.ReportingCurrency),
		TotalLiability:    s.TotalLiability.Value.StringFixed(2),
		EmployeeCount:     s.EmployeeCount,
		SkippedCount:      s.SkippedCount,
		ByCountry:         toExposureDTOs(s.ByCountry),
		ByCurrency:        toExposureDTOs(s.ByCurrency),
		TopCountryShare:   s.TopCountryShare.StringFixed(4),
		TopCurrencyShare:  s.TopCurrencyShare.StringFixed(4),
		AverageRiskScore:  s.AverageRiskScore.StringFixed(1),
		HighRiskCount:     s.HighRiskCount,
		Scores: ScoreDistributionDTO{
			Mean:   s.Scores.Mean,
			StdDev: s.Scores.StdDev,
			Median: s.Scores.Median,
			P95:    s.Scores.P95,
		},
	}
}

func toAlertDTOs(alerts []engine.Alert) []AlertDTO {
	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = AlertDTO{
			Kind:      string(a.Kind),
			Severity:  string(a.Severity),
			EntityID:  a.EntityID,
			Value:     a.Value.String(),
			Threshold: a.Threshold.String(),
			Message:   a.Message,
		}
	}
	return dtos
}

func toSkippedDTOs(skipped []engine.SkippedEmployee) []SkippedDTO {
	dtos := make([]SkippedDTO, len(skipped))
	for i, s := range skipped {
		dtos[i] = SkippedDTO{
			EmployeeID: string(s.EmployeeID),
			Country:    string(s.CountryCode),
			Error:      s.Err.Error(),
		}
	}
	return dtos
}

func toCountryDTO(r engine.CountryRule) CountryDTO {
	return CountryDTO{
		Code:             string(r.Code),
		Name:             r.Name,
		Currency:         string(r.Currency),
		FXVolatility:     string(r.FXVolatility),
		LegalRisk:        string(r.LegalRisk),
		NoticeVariant:    string(r.Notice.Variant),
		SeveranceVariant: string(r.Severance.Variant),
		HasBonusRules:    r.Bonus != nil,
	}
}

func toRunListItemDTO(run store.AssessmentRun) RunListItemDTO {
	return RunListItemDTO{
		RunID:             run.ID,
		CreatedAt:         run.CreatedAt.Format(time.RFC3339),
		ReportingCurrency: run.ReportingCurrency,
		TotalLiability:    run.TotalLiability,
		EmployeeCount:     run.EmployeeCount,
		SkippedCount:      run.SkippedCount,
		AlertCount:        run.AlertCount,
		HighRiskCount:     run.HighRiskCount,
	}
}

// toEmployeeRecord converts one wire employee to the engine input.
func toEmployeeRecord(dto EmployeeDTO) (engine.EmployeeRecord, error) {
	salary, err := decimal.NewFromString(dto.BaseMonthlySalary)
	if err != nil {
		return engine.EmployeeRecord{}, &engine.ValidationError{
			EmployeeID: engine.EmployeeID(dto.ID),
			Field:      "base_monthly_salary",
			Message:    "not a decimal",
		}
	}

	rec := engine.EmployeeRecord{
		ID:                engine.EmployeeID(dto.ID),
		Name:              dto.Name,
		CountryCode:       engine.CountryCode(dto.Country),
		BaseMonthlySalary: salary,
		JobLevel:          dto.JobLevel,
	}
	if dto.TenureMonths != nil {
		rec.TenureMonths = *dto.TenureMonths
	}
	if dto.StartDate != "" {
		start, err := time.Parse("2006-01-02", dto.StartDate)
		if err != nil {
			return engine.EmployeeRecord{}, &engine.ValidationError{
				EmployeeID: rec.ID,
				Field:      "start_date",
				Message:    "invalid date (use YYYY-MM-DD)",
			}
		}
		rec.StartDate = &start
	}
	if dto.FGTSBalance != "" {
		balance, err := decimal.NewFromString(dto.FGTSBalance)
		if err != nil {
			return engine.EmployeeRecord{}, &engine.ValidationError{
				EmployeeID: rec.ID,
				Field:      "fgts_balance",
				Message:    "not a decimal",
			}
		}
		rec.FGTSBalance = &balance
	}
	return rec, nil
}
