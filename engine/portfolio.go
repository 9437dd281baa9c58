/*
portfolio.go - Portfolio aggregation

PURPOSE:
  Reduces a run's per-employee results into portfolio totals, per-country
  and per-currency exposure, concentration ratios, and a risk-score
  distribution. Deterministic: group lists are sorted by key, and an empty
  result set yields a zero-valued summary rather than failing.

CONCENTRATION:
  concentration ratio = max(group total) / portfolio total. The sum of
  per-country totals always equals the portfolio total (same addends).

SEE ALSO:
  - alerts.go: Evaluates thresholds against this summary
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Aggregate reduces results into a PortfolioSummary. skipped is the count of
// employees excluded by per-employee errors.
func Aggregate(results []LiabilityResult, skipped int, reporting CurrencyCode, scoring ScoringConfig) PortfolioSummary {
	summary := PortfolioSummary{
		ReportingCurrency: reporting,
		TotalLiability:    NewMoney(decimal.Zero, reporting),
		EmployeeCount:     len(results),
		SkippedCount:      skipped,
	}
	if len(results) == 0 {
		return summary
	}

	total := decimal.Zero
	byCountry := make(map[string]*Exposure)
	byCurrency := make(map[string]*Exposure)
	scores := make([]float64, 0, len(results))
	scoreSum := decimal.Zero

	for _, r := range results {
		total = total.Add(r.TotalConverted.Value)

		addExposure(byCountry, string(r.CountryCode), r.TotalConverted.Value, reporting)
		addExposure(byCurrency, string(r.Currency), r.TotalConverted.Value, reporting)

		score, _ := r.RiskScore.Float64()
		scores = append(scores, score)
		scoreSum = scoreSum.Add(r.RiskScore)
		if r.RiskScore.GreaterThanOrEqual(scoring.TierHighMin) {
			summary.HighRiskCount++
		}
	}

	summary.TotalLiability = NewMoney(total, reporting)
	summary.ByCountry, summary.TopCountryShare = finishExposures(byCountry, total)
	summary.ByCurrency, summary.TopCurrencyShare = finishExposures(byCurrency, total)
	summary.AverageRiskScore = scoreSum.Div(decimal.NewFromInt(int64(len(results))))
	summary.Scores = scoreDistribution(scores)
	return summary
}

func addExposure(groups map[string]*Exposure, key string, amount decimal.Decimal, reporting CurrencyCode) {
	g, ok := groups[key]
	if !ok {
		g = &Exposure{Key: key, Total: NewMoney(decimal.Zero, reporting)}
		groups[key] = g
	}
	g.Employees++
	g.Total = g.Total.Add(NewMoney(amount, reporting))
}

// finishExposures sorts groups by key and computes shares and the maximum
// share. A zero portfolio total leaves all shares at zero.
func finishExposures(groups map[string]*Exposure, total decimal.Decimal) ([]Exposure, decimal.Decimal) {
	out := make([]Exposure, 0, len(groups))
	top := decimal.Zero
	for _, g := range groups {
		if total.IsPositive() {
			g.Share = g.Total.Value.Div(total)
		}
		if g.Share.GreaterThan(top) {
			top = g.Share
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, top
}

func scoreDistribution(scores []float64) ScoreDistribution {
	if len(scores) == 0 {
		return ScoreDistribution{}
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	dist := ScoreDistribution{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	// StdDev needs at least two samples; a single score has no spread.
	if len(sorted) > 1 {
		dist.StdDev = stat.StdDev(sorted, nil)
	}
	return dist
}
