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

func result(id string, country engine.CountryCode, currency engine.CurrencyCode, converted int64, score int64) engine.LiabilityResult {
	return engine.LiabilityResult{
		EmployeeID:     engine.EmployeeID(id),
		CountryCode:    country,
		Currency:       currency,
		TotalConverted: engine.NewMoney(dec(converted), "USD"),
		RiskScore:      dec(score),
	}
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestAggregate_TotalsAndGrouping(t *testing.T) {
	// GIVEN: Three employees across two countries
	results := []engine.LiabilityResult{
		result("e1", "BR", "BRL", 10000, 66),
		result("e2", "BR", "BRL", 30000, 72),
		result("e3", "DE", "EUR", 20000, 35),
	}

	summary := engine.Aggregate(results, 1, "USD", engine.DefaultScoringConfig())

	assertDecEqual(t, dec(60000), summary.TotalLiability.Value)
	assert.Equal(t, 3, summary.EmployeeCount)
	assert.Equal(t, 1, summary.SkippedCount)

	require.Len(t, summary.ByCountry, 2)
	assert.Equal(t, "BR", summary.ByCountry[0].Key)
	assert.Equal(t, 2, summary.ByCountry[0].Employees)
	assertDecEqual(t, dec(40000), summary.ByCountry[0].Total.Value)
	assert.Equal(t, "DE", summary.ByCountry[1].Key)
	assertDecEqual(t, dec(20000), summary.ByCountry[1].Total.Value)

	// BR holds 2/3 of the portfolio
	assertDecEqual(t, dec(2).Div(dec(3)), summary.TopCountryShare)
}

func TestAggregate_CountryTotalsSumToPortfolioTotal(t *testing.T) {
	results := []engine.LiabilityResult{
		result("e1", "BR", "BRL", 12345, 50),
		result("e2", "FR", "EUR", 6789, 40),
		result("e3", "DE", "EUR", 424242, 80),
		result("e4", "BR", "BRL", 999, 20),
	}

	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	sum := decimal.Zero
	for _, g := range summary.ByCountry {
		sum = sum.Add(g.Total.Value)
	}
	assert.True(t, sum.Equal(summary.TotalLiability.Value),
		"per-country totals must sum to the portfolio total")

	sum = decimal.Zero
	for _, g := range summary.ByCurrency {
		sum = sum.Add(g.Total.Value)
	}
	assert.True(t, sum.Equal(summary.TotalLiability.Value),
		"per-currency totals must sum to the portfolio total")
}

func TestAggregate_EmptyInput_ZeroValuedSummary(t *testing.T) {
	// An empty batch yields a zero summary, never an error or NaN
	summary := engine.Aggregate(nil, 0, "USD", engine.DefaultScoringConfig())

	assert.True(t, summary.TotalLiability.IsZero())
	assert.Equal(t, 0, summary.EmployeeCount)
	assert.Empty(t, summary.ByCountry)
	assert.Empty(t, summary.ByCurrency)
	assert.True(t, summary.TopCountryShare.IsZero())
	assert.True(t, summary.AverageRiskScore.IsZero())
	assert.Zero(t, summary.Scores.Mean)
	assert.Zero(t, summary.Scores.StdDev)
}

func TestAggregate_SingleResult_NoNaN(t *testing.T) {
	// A single sample must not produce NaN spread statistics
	summary := engine.Aggregate([]engine.LiabilityResult{
		result("e1", "SG", "SGD", 5000, 30),
	}, 0, "USD", engine.DefaultScoringConfig())

	assert.Equal(t, 30.0, summary.Scores.Mean)
	assert.Equal(t, 0.0, summary.Scores.StdDev)
	assertDecEqual(t, dec(1), summary.TopCountryShare)
}

func TestAggregate_HighRiskCount(t *testing.T) {
	// Scores at or above the high-tier cut point (70) count as high risk
	results := []engine.LiabilityResult{
		result("e1", "BR", "BRL", 1, 69),
		result("e2", "BR", "BRL", 1, 70),
		result("e3", "MX", "MXN", 1, 85),
	}

	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())
	assert.Equal(t, 2, summary.HighRiskCount)
	assertDecEqual(t, dec(224).Div(dec(3)), summary.AverageRiskScore)
}

func TestAggregate_ScoreDistribution(t *testing.T) {
	results := []engine.LiabilityResult{
		result("e1", "BR", "BRL", 1, 20),
		result("e2", "FR", "EUR", 1, 40),
		result("e3", "DE", "EUR", 1, 60),
		result("e4", "MX", "MXN", 1, 80),
	}

	summary := engine.Aggregate(results, 0, "USD", engine.DefaultScoringConfig())

	assert.InDelta(t, 50.0, summary.Scores.Mean, 0.001)
	assert.InDelta(t, 40.0, summary.Scores.Median, 0.001)
	assert.Greater(t, summary.Scores.StdDev, 0.0)
	assert.GreaterOrEqual(t, summary.Scores.P95, summary.Scores.Median)
}
