/*
bonus.go - Statutory bonus proration

Each bonus component accrues linearly over the calendar year; the engine
owes the fraction earned by the run's as-of date. Countries without a bonus
rule contribute zero.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// yearFraction is the fraction of the current calendar year elapsed at asOf,
// on a fixed 365-day basis so runs are reproducible for a given date.
func yearFraction(asOf time.Time) decimal.Decimal {
	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
	days := int64(asOf.Sub(yearStart).Hours() / 24)
	return decimal.NewFromInt(days).Div(decimal.NewFromInt(365))
}

// evalBonus sums all configured bonus components, each prorated by fraction.
func evalBonus(rule *BonusRule, salary decimal.Decimal, fraction decimal.Decimal, conv Conventions) decimal.Decimal {
	if rule == nil {
		return decimal.Zero
	}

	total := decimal.Zero

	if rule.ThirteenthMonth {
		total = total.Add(salary.Mul(fraction))
	}

	if rule.AguinaldoDays.IsPositive() {
		total = total.Add(conv.DailyRate(salary).Mul(rule.AguinaldoDays).Mul(fraction))
	}

	if rule.HolidayAllowancePercent.IsPositive() {
		annual := salary.Mul(twelve).Mul(rule.HolidayAllowancePercent).Div(hundred)
		total = total.Add(annual.Mul(fraction))
	}

	if rule.StatutoryBonusPercent.IsPositive() {
		base := salary
		if rule.StatutoryBonusSalaryCap.IsPositive() && base.GreaterThan(rule.StatutoryBonusSalaryCap) {
			base = rule.StatutoryBonusSalaryCap
		}
		annual := base.Mul(twelve).Mul(rule.StatutoryBonusPercent).Div(hundred)
		total = total.Add(annual.Mul(fraction))
	}

	if rule.VacationBonusPercent.IsPositive() {
		total = total.Add(salary.Mul(rule.VacationBonusPercent).Div(hundred).Mul(fraction))
	}

	return total
}
