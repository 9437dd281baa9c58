package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/liability-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func threshold(v float64, sev engine.Severity) *engine.Threshold {
	return &engine.Threshold{Value: decf(v), Severity: sev}
}

func riskResult(id string, country engine.CountryCode, currency engine.CurrencyCode, converted int64, fx engine.Rating) engine.LiabilityResult {
	r := result(id, country, currency, converted, 50)
	r.FXVolatility = fx
	return r
}

// =============================================================================
// THRESHOLD EVALUATION
// =============================================================================

func TestAlerts_EmployeeLiabilityCeiling(t *testing.T) {
	// GIVEN: A 25000 per-employee ceiling
	// WHEN: One employee is above it, one below, one exactly at it
	// THEN: Only the strict breach alerts

	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 30000, engine.RatingLow),
		riskResult("e2", "DE", "EUR", 10000, engine.RatingLow),
		riskResult("e3", "FR", "EUR", 25000, engine.RatingLow),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{
		EmployeeLiability: threshold(25000, engine.SeverityCritical),
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, engine.AlertEmployeeThreshold, alerts[0].Kind)
	assert.Equal(t, engine.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "e1", alerts[0].EntityID)
	assertDecEqual(t, dec(30000), alerts[0].Value)
}

func TestAlerts_CountryConcentration(t *testing.T) {
	// BR holds 80% of the portfolio against a 50% ceiling
	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 80000, engine.RatingLow),
		riskResult("e2", "DE", "EUR", 20000, engine.RatingLow),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{
		CountryConcentration: threshold(0.5, engine.SeverityWarning),
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, engine.AlertCountryConcentration, alerts[0].Kind)
	assert.Equal(t, "BR", alerts[0].EntityID)
	assertDecEqual(t, decf(0.8), alerts[0].Value)
}

func TestAlerts_PortfolioTotalCeiling(t *testing.T) {
	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 60000, engine.RatingLow),
		riskResult("e2", "DE", "EUR", 50000, engine.RatingLow),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{
		PortfolioTotal: threshold(100000, engine.SeverityCritical),
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, engine.AlertPortfolioTotal, alerts[0].Kind)
	assert.Equal(t, "portfolio", alerts[0].EntityID)
	assertDecEqual(t, dec(110000), alerts[0].Value)
}

func TestAlerts_FXVolatilityFloor(t *testing.T) {
	// GIVEN: A medium-volatility floor
	// THEN: Medium and high exposures alert, low does not
	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 1000, engine.RatingHigh),
		riskResult("e2", "SG", "SGD", 1000, engine.RatingLow),
		riskResult("e3", "IN", "INR", 1000, engine.RatingMedium),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{
		FXVolatilityAtLeast: engine.RatingMedium,
		FXSeverity:          engine.SeverityInfo,
	})

	require.Len(t, alerts, 2)
	assert.Equal(t, "e1", alerts[0].EntityID)
	assert.Equal(t, "e3", alerts[1].EntityID)
	for _, a := range alerts {
		assert.Equal(t, engine.AlertFXVolatilityExposure, a.Kind)
		assert.Equal(t, engine.SeverityInfo, a.Severity)
	}
}

func TestAlerts_NoThresholds_NoAlerts(t *testing.T) {
	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 900000, engine.RatingHigh),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{})
	assert.Empty(t, alerts)
}

func TestAlerts_OneEntityMayBreachSeveralThresholds(t *testing.T) {
	results := []engine.LiabilityResult{
		riskResult("e1", "BR", "BRL", 50000, engine.RatingHigh),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	alerts := engine.EvaluateAlerts(summary, results, engine.Thresholds{
		EmployeeLiability:   threshold(10000, engine.SeverityCritical),
		FXVolatilityAtLeast: engine.RatingHigh,
		FXSeverity:          engine.SeverityWarning,
	})

	require.Len(t, alerts, 2)
	assert.Equal(t, engine.AlertEmployeeThreshold, alerts[0].Kind)
	assert.Equal(t, engine.AlertFXVolatilityExposure, alerts[1].Kind)
	assert.Equal(t, "e1", alerts[0].EntityID)
	assert.Equal(t, "e1", alerts[1].EntityID)
}

// =============================================================================
// DETERMINISTIC ORDERING
// =============================================================================

func TestAlerts_DeterministicOrder(t *testing.T) {
	// GIVEN: Breaches of every kind across several entities
	// THEN: Output is ordered kind rank, then severity descending, then
	//       entity ID ascending - identically on every run

	results := []engine.LiabilityResult{
		riskResult("e2", "BR", "BRL", 70000, engine.RatingHigh),
		riskResult("e1", "MX", "MXN", 60000, engine.RatingHigh),
	}
	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	thresholds := engine.Thresholds{
		EmployeeLiability:    threshold(50000, engine.SeverityCritical),
		CountryConcentration: threshold(0.3, engine.SeverityWarning),
		PortfolioTotal:       threshold(100000, engine.SeverityCritical),
		FXVolatilityAtLeast:  engine.RatingHigh,
		FXSeverity:           engine.SeverityWarning,
	}

	first := engine.EvaluateAlerts(summary, results, thresholds)
	second := engine.EvaluateAlerts(summary, results, thresholds)
	assert.Equal(t, first, second)

	require.Len(t, first, 7)
	// Employee breaches first, sorted by ID
	assert.Equal(t, engine.AlertEmployeeThreshold, first[0].Kind)
	assert.Equal(t, "e1", first[0].EntityID)
	assert.Equal(t, "e2", first[1].EntityID)
	// Both countries exceed 30% concentration, sorted by code
	assert.Equal(t, engine.AlertCountryConcentration, first[2].Kind)
	assert.Equal(t, "BR", first[2].EntityID)
	assert.Equal(t, "MX", first[3].EntityID)
	// Then the portfolio ceiling, then FX exposures
	assert.Equal(t, engine.AlertPortfolioTotal, first[4].Kind)
	assert.Equal(t, engine.AlertFXVolatilityExposure, first[5].Kind)
	assert.Equal(t, "e1", first[5].EntityID)
	assert.Equal(t, "e2", first[6].EntityID)
}

// =============================================================================
// THRESHOLD VALIDATION
// =============================================================================

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, engine.Thresholds{}.Validate())

	negative := engine.Thresholds{EmployeeLiability: threshold(-1, engine.SeverityWarning)}
	assert.ErrorIs(t, negative.Validate(), engine.ErrConfiguration)

	overOne := engine.Thresholds{CountryConcentration: threshold(1.5, engine.SeverityWarning)}
	assert.ErrorIs(t, overOne.Validate(), engine.ErrConfiguration)

	zeroShare := engine.Thresholds{CountryConcentration: &engine.Threshold{Value: decimal.Zero, Severity: engine.SeverityWarning}}
	assert.ErrorIs(t, zeroShare.Validate(), engine.ErrConfiguration)

	badBand := engine.Thresholds{FXVolatilityAtLeast: engine.Rating("extreme")}
	assert.ErrorIs(t, badBand.Validate(), engine.ErrConfiguration)
}
