/*
severance.go - Severance evaluation per rule variant

Dispatches on SeveranceRule.Variant. Years of service are fractional
(tenure months / 12, never floored) except where a variant is defined on
completed years (weeks_scale). Caps apply after computing the raw amount.
*/
package engine

import "github.com/shopspring/decimal"

// evalSeverance computes the severance amount in local currency.
// Returns a MissingFieldError when a balance-based rule lacks its field.
func evalSeverance(rule SeveranceRule, emp EmployeeRecord, tenureMonths int, conv Conventions) (decimal.Decimal, error) {
	if tenureMonths < rule.MinTenureMonths {
		return decimal.Zero, nil
	}

	salary := emp.BaseMonthlySalary
	years := decimal.NewFromInt(int64(tenureMonths)).Div(twelve)

	switch rule.Variant {
	case SeverancePercentOfBalance:
		if emp.FGTSBalance == nil {
			return decimal.Zero, &MissingFieldError{
				EmployeeID: emp.ID,
				Country:    emp.CountryCode,
				Field:      "fgts_balance",
			}
		}
		return rule.BalanceRate.Mul(*emp.FGTSBalance), nil

	case SeverancePerYearTiered:
		initial := decimal.NewFromInt(int64(rule.InitialYears))
		first := years
		if first.GreaterThan(initial) {
			first = initial
		}
		rest := years.Sub(first)
		return salary.Mul(rule.InitialRate.Mul(first).Add(rule.SubsequentRate.Mul(rest))), nil

	case SeveranceFlatMonthsPerYear:
		amount := perYearAccrual(rule, salary, years, conv)
		if rule.MinimumMonths.IsPositive() {
			floor := salary.Mul(rule.MinimumMonths)
			if amount.LessThan(floor) {
				amount = floor
			}
		}
		return amount, nil

	case SeveranceThresholdAccrual:
		return perYearAccrual(rule, salary, years, conv), nil

	case SeveranceCappedProration:
		amount := perYearAccrual(rule, salary, years, conv)
		if rule.Cap != nil && amount.GreaterThan(*rule.Cap) {
			amount = *rule.Cap
		}
		return amount, nil

	case SeveranceStatutoryRedundancy:
		weekly := conv.WeeklyRate(salary)
		if weekly.GreaterThan(rule.WeeklyPayCap) {
			weekly = rule.WeeklyPayCap
		}
		counted := years
		maxYears := decimal.NewFromInt(int64(rule.MaxYears))
		if counted.GreaterThan(maxYears) {
			counted = maxYears
		}
		return weekly.Mul(rule.WeeksPerYear).Mul(counted), nil

	case SeveranceWeeksScale:
		completed := tenureMonths / 12
		if completed < 1 {
			return decimal.Zero, nil
		}
		idx := completed - 1
		if idx >= len(rule.Scale) {
			idx = len(rule.Scale) - 1
		}
		return conv.WeeklyRate(salary).Mul(rule.Scale[idx]), nil
	}

	return decimal.Zero, nil
}

// perYearAccrual applies a months-per-year or weeks-per-year rate over
// fractional years of service. WeeksPerYear takes precedence when set.
func perYearAccrual(rule SeveranceRule, salary, years decimal.Decimal, conv Conventions) decimal.Decimal {
	if rule.WeeksPerYear.IsPositive() {
		return conv.WeeklyRate(salary).Mul(rule.WeeksPerYear).Mul(years)
	}
	return salary.Mul(rule.MonthsPerYear).Mul(years)
}
