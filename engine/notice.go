/*
notice.go - Notice period evaluation per rule variant

Dispatches on NoticeRule.Variant and returns the notice length in days plus
the pay in lieu. The none_with_indemnity variant always yields zero here;
its fixed indemnity is added to severance by the calculator so that the
reported buckets stay consistent across runs.
*/
package engine

import "github.com/shopspring/decimal"

var (
	seven  = decimal.NewFromInt(7)
	twelve = decimal.NewFromInt(12)
)

// evalNotice computes notice days and pay in lieu for one employee.
// tenureMonths is already validated non-negative.
func evalNotice(rule NoticeRule, tenureMonths int, jobLevel string, salary decimal.Decimal, conv Conventions) (days decimal.Decimal, pay decimal.Decimal) {
	switch rule.Variant {
	case NoticeFlatDays:
		days = seniorFlatDays(rule, jobLevel, tenureMonths)
		return days, conv.DailyRate(salary).Mul(days)

	case NoticeTieredByTenure:
		months := selectNoticeTier(rule.Tiers, tenureMonths)
		return months.Mul(conv.DaysPerMonth), salary.Mul(months)

	case NoticeWeeksByBracket:
		weeks := selectWeekBracket(rule.Brackets, tenureMonths)
		return weeks.Mul(seven), conv.WeeklyRate(salary).Mul(weeks)

	case NoticeNoneIndemnity:
		return decimal.Zero, decimal.Zero
	}
	return decimal.Zero, decimal.Zero
}

// flatDaysNotice: base + per-year days for completed years, clamped to max.
// JobLevel-based senior extension replaces the base where configured.
func flatDaysNotice(rule NoticeRule, tenureMonths int) decimal.Decimal {
	base := rule.BaseDays
	completedYears := tenureMonths / 12

	days := base + rule.DaysPerYear*completedYears
	if rule.MaxDays > 0 && days > rule.MaxDays {
		days = rule.MaxDays
	}
	return decimal.NewFromInt(int64(days))
}

// seniorFlatDays resolves flat-days notice for an employee, honoring the
// senior-level extension when the rule carries one.
func seniorFlatDays(rule NoticeRule, jobLevel string, tenureMonths int) decimal.Decimal {
	if rule.SeniorDays > 0 {
		for _, lvl := range rule.SeniorLevels {
			if lvl == jobLevel {
				adjusted := rule
				adjusted.BaseDays = rule.SeniorDays
				return flatDaysNotice(adjusted, tenureMonths)
			}
		}
	}
	return flatDaysNotice(rule, tenureMonths)
}

// selectNoticeTier picks the last tier whose MinMonths <= tenure.
// Brackets are closed-open; tenure below the first tier yields zero.
func selectNoticeTier(tiers []NoticeTier, tenureMonths int) decimal.Decimal {
	months := decimal.Zero
	for _, tier := range tiers {
		if tenureMonths >= tier.MinMonths {
			months = tier.Months
		}
	}
	return months
}

// selectWeekBracket picks the last applicable bracket and resolves its weeks,
// growing per completed year when the bracket is per-year scaled.
func selectWeekBracket(brackets []WeekBracket, tenureMonths int) decimal.Decimal {
	weeks := decimal.Zero
	for _, b := range brackets {
		if tenureMonths < b.MinMonths {
			continue
		}
		if b.WeeksPerYear.IsPositive() {
			completedYears := decimal.NewFromInt(int64(tenureMonths / 12))
			w := b.WeeksPerYear.Mul(completedYears)
			if b.MaxWeeks.IsPositive() && w.GreaterThan(b.MaxWeeks) {
				w = b.MaxWeeks
			}
			weeks = w
		} else {
			weeks = b.Weeks
		}
	}
	return weeks
}
