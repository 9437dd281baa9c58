/*
scorer.go - Composite risk scoring

PURPOSE:
  Converts a converted liability total plus country risk attributes into a
  0-100 composite score and a risk tier. The component weights are part of
  the scoring model; everything else (normalization reference, rating bands,
  tier cut points) is configuration so it can be tuned without touching the
  algorithm.

MODEL:
  score = 0.35 * liability + 0.25 * fx_volatility
        + 0.15 * legal_risk + 0.25 * base_factor

  Each term is normalized to [0,100] before weighting, so the composite is
  always in [0,100]:
  - liability:  min(converted_total / reference, 1) * 100
  - fx / legal: fixed numeric band per rating (low/medium/high)
  - base:       a flat configured factor for residual termination risk

SEE ALSO:
  - portfolio.go: Uses tier cut points for the high-risk count
*/
package engine

import "github.com/shopspring/decimal"

// Component weights. These define the scoring model itself.
var (
	weightLiability = decimal.NewFromFloat(0.35)
	weightFX        = decimal.NewFromFloat(0.25)
	weightLegal     = decimal.NewFromFloat(0.15)
	weightBase      = decimal.NewFromFloat(0.25)
)

// ScoringConfig carries the tunable parts of the risk model.
type ScoringConfig struct {
	// ReferenceLiability is the converted-currency amount that saturates the
	// liability term at 100.
	ReferenceLiability decimal.Decimal

	// VolatilityBands and LegalRiskBands map ratings to [0,100] term values.
	VolatilityBands map[Rating]decimal.Decimal
	LegalRiskBands  map[Rating]decimal.Decimal

	// BaseRiskFactor is the [0,100] value of the constant base term.
	BaseRiskFactor decimal.Decimal

	// Tier cut points: score < TierMediumMin is low, score < TierHighMin is
	// medium, anything else is high.
	TierMediumMin decimal.Decimal
	TierHighMin   decimal.Decimal
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ReferenceLiability: decimal.NewFromInt(100000),
		VolatilityBands: map[Rating]decimal.Decimal{
			RatingLow:    decimal.NewFromInt(20),
			RatingMedium: decimal.NewFromInt(60),
			RatingHigh:   decimal.NewFromInt(100),
		},
		LegalRiskBands: map[Rating]decimal.Decimal{
			RatingLow:    decimal.NewFromInt(20),
			RatingMedium: decimal.NewFromInt(50),
			RatingHigh:   decimal.NewFromInt(90),
		},
		BaseRiskFactor: decimal.NewFromInt(40),
		TierMediumMin:  decimal.NewFromInt(40),
		TierHighMin:    decimal.NewFromInt(70),
	}
}

// Validate checks the configuration is complete and internally consistent.
func (cfg ScoringConfig) Validate() error {
	if cfg.ReferenceLiability.LessThanOrEqual(decimal.Zero) {
		return &ConfigurationError{Component: "scoring", Message: "reference liability must be positive"}
	}
	for _, r := range []Rating{RatingLow, RatingMedium, RatingHigh} {
		if _, ok := cfg.VolatilityBands[r]; !ok {
			return &ConfigurationError{Component: "scoring", Message: "volatility band missing rating " + string(r)}
		}
		if _, ok := cfg.LegalRiskBands[r]; !ok {
			return &ConfigurationError{Component: "scoring", Message: "legal risk band missing rating " + string(r)}
		}
	}
	for _, bands := range []map[Rating]decimal.Decimal{cfg.VolatilityBands, cfg.LegalRiskBands} {
		for r, v := range bands {
			if v.IsNegative() || v.GreaterThan(hundred) {
				return &ConfigurationError{Component: "scoring", Message: "band for rating " + string(r) + " outside [0,100]"}
			}
		}
	}
	if cfg.BaseRiskFactor.IsNegative() || cfg.BaseRiskFactor.GreaterThan(hundred) {
		return &ConfigurationError{Component: "scoring", Message: "base risk factor outside [0,100]"}
	}
	if cfg.TierMediumMin.GreaterThan(cfg.TierHighMin) {
		return &ConfigurationError{Component: "scoring", Message: "tier cut points out of order"}
	}
	return nil
}

// Scorer computes composite risk scores under one configuration.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score assesses one converted liability against its country's risk
// attributes. The returned score is always in [0,100].
func (s *Scorer) Score(converted Money, rule CountryRule) (decimal.Decimal, RiskTier) {
	liability := converted.Value.Div(s.cfg.ReferenceLiability).Mul(hundred)
	if liability.GreaterThan(hundred) {
		liability = hundred
	}
	if liability.IsNegative() {
		liability = decimal.Zero
	}

	score := weightLiability.Mul(liability).
		Add(weightFX.Mul(s.cfg.VolatilityBands[rule.FXVolatility])).
		Add(weightLegal.Mul(s.cfg.LegalRiskBands[rule.LegalRisk])).
		Add(weightBase.Mul(s.cfg.BaseRiskFactor))

	if score.GreaterThan(hundred) {
		score = hundred
	}
	if score.IsNegative() {
		score = decimal.Zero
	}
	return score, s.cfg.Tier(score)
}

// Tier buckets a score using the configured cut points.
func (cfg ScoringConfig) Tier(score decimal.Decimal) RiskTier {
	switch {
	case score.LessThan(cfg.TierMediumMin):
		return TierLow
	case score.LessThan(cfg.TierHighMin):
		return TierMedium
	default:
		return TierHigh
	}
}
