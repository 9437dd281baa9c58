/*
Package countries provides pre-built statutory rule sets per jurisdiction.

PURPOSE:
  Ready-to-use CountryRule configurations for the jurisdictions the engine
  ships with. These are convenience constructors over engine rule variants;
  production deployments load reviewed rule data through the factory instead.

AVAILABLE COUNTRIES:
  Brazil:       30+3 days/year notice, 40% FGTS penalty, 13th month + vacation bonus
  France:       tiered notice, quarter-month per year severance (third beyond 10y)
  Germany:      weeks-by-tenure notice, half-month per year market severance
  India:        30-day notice (90 for senior staff), gratuity after 5 years
  Philippines:  30-day notice, one month per year with a one-month floor
  Mexico:       no notice, 3-month indemnity + 12 days/year seniority premium
  UK:           1 week then 1 week/year notice, capped statutory redundancy
  Netherlands:  month-tiered notice, capped transition payment
  Singapore:    bracketed notice, 2 weeks/year market severance after 2 years
  Australia:    bracketed notice, NES redundancy week scale

CUSTOMIZATION:
  These mirror common statutory baselines; they are not legal advice.
  Collective agreements and seniority carve-outs routinely override them.

SEE ALSO:
  - engine/rules.go: Variant definitions
  - factory/: JSON rule configuration
*/
package countries

import (
	"github.com/shopspring/decimal"

	"github.com/warp/liability-engine/engine"
)

func dec(f float64) decimal.Decimal  { return decimal.NewFromFloat(f) }
func deci(i int64) decimal.Decimal   { return decimal.NewFromInt(i) }
func ratio(a, b int64) decimal.Decimal {
	return decimal.NewFromInt(a).Div(decimal.NewFromInt(b))
}

// Brazil: notice grows 3 days per year of service from a 30-day base, capped
// at 90 days. Severance is the 40% penalty on the employee's FGTS balance.
func Brazil() engine.CountryRule {
	return engine.CountryRule{
		Code:         "BR",
		Name:         "Brazil",
		Currency:     "BRL",
		FXVolatility: engine.RatingHigh,
		LegalRisk:    engine.RatingHigh,
		Notice: engine.NoticeRule{
			Variant:     engine.NoticeFlatDays,
			BaseDays:    30,
			DaysPerYear: 3,
			MaxDays:     90,
		},
		Severance: engine.SeveranceRule{
			Variant:     engine.SeverancePercentOfBalance,
			BalanceRate: dec(0.40),
		},
		Bonus: &engine.BonusRule{
			ThirteenthMonth:      true,
			VacationBonusPercent: dec(33.33),
		},
	}
}

// France: no notice under 6 months, 1 month to 2 years, 2 months beyond.
// Severance accrues a quarter month per year for the first 10 years and a
// third beyond, with an 8-month qualifying tenure.
func France() engine.CountryRule {
	return engine.CountryRule{
		Code:         "FR",
		Name:         "France",
		Currency:     "EUR",
		FXVolatility: engine.RatingLow,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeTieredByTenure,
			Tiers: []engine.NoticeTier{
				{MinMonths: 0, Months: decimal.Zero},
				{MinMonths: 6, Months: deci(1)},
				{MinMonths: 24, Months: deci(2)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:         engine.SeverancePerYearTiered,
			MinTenureMonths: 8,
			InitialRate:     dec(0.25),
			InitialYears:    10,
			SubsequentRate:  ratio(1, 3),
		},
	}
}

// Germany: statutory notice in weeks by tenure bracket; severance follows
// the common half-month-per-year settlement practice.
func Germany() engine.CountryRule {
	return engine.CountryRule{
		Code:         "DE",
		Name:         "Germany",
		Currency:     "EUR",
		FXVolatility: engine.RatingLow,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeWeeksByBracket,
			Brackets: []engine.WeekBracket{
				{MinMonths: 0, Weeks: deci(4)},
				{MinMonths: 60, Weeks: deci(8)},
				{MinMonths: 96, Weeks: deci(12)},
				{MinMonths: 120, Weeks: deci(16)},
				{MinMonths: 180, Weeks: deci(24)},
				{MinMonths: 240, Weeks: deci(28)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:       engine.SeveranceFlatMonthsPerYear,
			MonthsPerYear: dec(0.5),
		},
	}
}

// India: 30-day notice, 90 for senior staff. Gratuity pays 15 days per year
// at a 26-working-day rate once tenure reaches 5 years; the statutory bonus
// accrues 8.33% on salary capped at 21,000/month.
func India() engine.CountryRule {
	return engine.CountryRule{
		Code:         "IN",
		Name:         "India",
		Currency:     "INR",
		FXVolatility: engine.RatingMedium,
		LegalRisk:    engine.RatingLow,
		Notice: engine.NoticeRule{
			Variant:      engine.NoticeFlatDays,
			BaseDays:     30,
			MaxDays:      90,
			SeniorDays:   90,
			SeniorLevels: []string{"director", "head", "principal", "lead"},
		},
		Severance: engine.SeveranceRule{
			Variant:         engine.SeveranceThresholdAccrual,
			MinTenureMonths: 60,
			MonthsPerYear:   ratio(15, 26),
		},
		Bonus: &engine.BonusRule{
			StatutoryBonusPercent:   dec(8.33),
			StatutoryBonusSalaryCap: deci(21000),
		},
	}
}

// Philippines: 30-day notice; separation pay of one month per year of
// service with a one-month floor, plus the mandatory 13th month.
func Philippines() engine.CountryRule {
	return engine.CountryRule{
		Code:         "PH",
		Name:         "Philippines",
		Currency:     "PHP",
		FXVolatility: engine.RatingMedium,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant:  engine.NoticeFlatDays,
			BaseDays: 30,
			MaxDays:  30,
		},
		Severance: engine.SeveranceRule{
			Variant:       engine.SeveranceFlatMonthsPerYear,
			MonthsPerYear: deci(1),
			MinimumMonths: deci(1),
		},
		Bonus: &engine.BonusRule{ThirteenthMonth: true},
	}
}

// Mexico: no statutory notice; the 3-month constitutional indemnity is owed
// instead, plus a 12 days/year seniority premium and the aguinaldo.
func Mexico() engine.CountryRule {
	return engine.CountryRule{
		Code:         "MX",
		Name:         "Mexico",
		Currency:     "MXN",
		FXVolatility: engine.RatingHigh,
		LegalRisk:    engine.RatingHigh,
		Notice: engine.NoticeRule{
			Variant:         engine.NoticeNoneIndemnity,
			IndemnityMonths: deci(3),
		},
		Severance: engine.SeveranceRule{
			Variant:       engine.SeveranceFlatMonthsPerYear,
			MonthsPerYear: ratio(12, 30), // 12 days per year at the day-rate convention
		},
		Bonus: &engine.BonusRule{AguinaldoDays: deci(15)},
	}
}

// UnitedKingdom: one week's notice, then a week per completed year capped at
// 12. Statutory redundancy pays a capped week's pay per year, 20 years max.
func UnitedKingdom() engine.CountryRule {
	one := deci(1)
	return engine.CountryRule{
		Code:         "GB",
		Name:         "United Kingdom",
		Currency:     "GBP",
		FXVolatility: engine.RatingLow,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeWeeksByBracket,
			Brackets: []engine.WeekBracket{
				{MinMonths: 0, Weeks: one},
				{MinMonths: 24, WeeksPerYear: one, MaxWeeks: deci(12)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:         engine.SeveranceStatutoryRedundancy,
			MinTenureMonths: 24,
			WeeksPerYear:    one,
			WeeklyPayCap:    deci(700),
			MaxYears:        20,
		},
	}
}

// Netherlands: month-tiered notice; the transition payment accrues a third
// of a month per year, capped at the statutory ceiling, with the 8% holiday
// allowance accruing through the year.
func Netherlands() engine.CountryRule {
	cap := deci(94000)
	return engine.CountryRule{
		Code:         "NL",
		Name:         "Netherlands",
		Currency:     "EUR",
		FXVolatility: engine.RatingLow,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeTieredByTenure,
			Tiers: []engine.NoticeTier{
				{MinMonths: 0, Months: deci(1)},
				{MinMonths: 60, Months: deci(2)},
				{MinMonths: 120, Months: deci(3)},
				{MinMonths: 180, Months: deci(4)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:       engine.SeveranceCappedProration,
			MonthsPerYear: dec(0.33),
			Cap:           &cap,
		},
		Bonus: &engine.BonusRule{HolidayAllowancePercent: deci(8)},
	}
}

// Singapore: bracketed notice from a day up to 4 weeks; market-practice
// severance of 2 weeks per year once tenure reaches 2 years.
func Singapore() engine.CountryRule {
	return engine.CountryRule{
		Code:         "SG",
		Name:         "Singapore",
		Currency:     "SGD",
		FXVolatility: engine.RatingLow,
		LegalRisk:    engine.RatingLow,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeWeeksByBracket,
			Brackets: []engine.WeekBracket{
				{MinMonths: 0, Weeks: ratio(1, 7)}, // one day under 26 weeks
				{MinMonths: 6, Weeks: deci(1)},
				{MinMonths: 24, Weeks: deci(2)},
				{MinMonths: 60, Weeks: deci(4)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:         engine.SeveranceFlatMonthsPerYear,
			MinTenureMonths: 24,
			WeeksPerYear:    deci(2),
		},
	}
}

// Australia: bracketed notice by years of service; redundancy pay follows
// the NES week scale indexed by completed years.
func Australia() engine.CountryRule {
	scale := []int64{4, 6, 7, 8, 10, 11, 12, 13, 14, 15, 16}
	weeks := make([]decimal.Decimal, len(scale))
	for i, w := range scale {
		weeks[i] = deci(w)
	}
	return engine.CountryRule{
		Code:         "AU",
		Name:         "Australia",
		Currency:     "AUD",
		FXVolatility: engine.RatingMedium,
		LegalRisk:    engine.RatingMedium,
		Notice: engine.NoticeRule{
			Variant: engine.NoticeWeeksByBracket,
			Brackets: []engine.WeekBracket{
				{MinMonths: 12, Weeks: deci(1)},
				{MinMonths: 36, Weeks: deci(2)},
				{MinMonths: 60, Weeks: deci(3)},
			},
		},
		Severance: engine.SeveranceRule{
			Variant:         engine.SeveranceWeeksScale,
			MinTenureMonths: 12,
			Scale:           weeks,
		},
	}
}

// All returns the full built-in rule set.
func All() []engine.CountryRule {
	return []engine.CountryRule{
		Brazil(), France(), Germany(), India(), Philippines(),
		Mexico(), UnitedKingdom(), Netherlands(), Singapore(), Australia(),
	}
}

// DefaultTable builds a rule table from the built-in rule set.
func DefaultTable() (*engine.RuleTable, error) {
	return engine.NewRuleTable(All())
}

// DefaultFXRates returns USD conversion multipliers for the built-in
// currencies. Static reference rates for demos and tests; production runs
// supply their own table.
func DefaultFXRates() map[engine.CurrencyCode]decimal.Decimal {
	return map[engine.CurrencyCode]decimal.Decimal{
		"BRL": ratio(100, 585),  // 5.85 per USD
		"EUR": ratio(100, 92),   // 0.92 per USD
		"INR": ratio(100, 8350), // 83.50 per USD
		"PHP": ratio(100, 5680), // 56.80 per USD
		"MXN": ratio(100, 1725), // 17.25 per USD
		"GBP": ratio(100, 79),   // 0.79 per USD
		"SGD": ratio(100, 134),  // 1.34 per USD
		"AUD": ratio(100, 155),  // 1.55 per USD
		"USD": deci(1),
	}
}
