/*
calculator.go - Per-employee liability computation

PURPOSE:
  Turns one EmployeeRecord plus its CountryRule into a LiabilityBreakdown:
  notice pay, severance, statutory bonus accrual, and their exact sum in
  local currency. Pure computation; no I/O, no shared state.

VALIDATION:
  Non-positive salary and negative tenure are hard input failures
  (ValidationError), never silently clamped. Balance-based severance rules
  fail with MissingFieldError when the employee lacks the balance field.

BUCKETS:
  The none_with_indemnity notice variant reports zero notice pay; its fixed
  indemnity is always added to the severance bucket so breakdowns are
  reproducible across runs.

SEE ALSO:
  - notice.go, severance.go, bonus.go: Variant evaluation
  - pipeline.go: Batch orchestration and error collection
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculator computes liability breakdowns under a fixed set of conventions.
type Calculator struct {
	Conv Conventions
}

func NewCalculator(conv Conventions) *Calculator {
	return &Calculator{Conv: conv}
}

// ResolveTenure returns the tenure in months for an employee. StartDate,
// when present, wins over TenureMonths and is measured to asOf in 30-day
// months (floored).
func ResolveTenure(emp EmployeeRecord, asOf time.Time) (int, error) {
	if emp.StartDate != nil {
		days := int(asOf.Sub(*emp.StartDate).Hours() / 24)
		if days < 0 {
			return 0, &ValidationError{EmployeeID: emp.ID, Field: "start_date", Message: "start date is after the as-of date"}
		}
		return days / 30, nil
	}
	if emp.TenureMonths < 0 {
		return 0, &ValidationError{EmployeeID: emp.ID, Field: "tenure_months", Message: "tenure must be non-negative"}
	}
	return emp.TenureMonths, nil
}

// Compute evaluates one employee against its country rule.
// bonusFraction is the year fraction from the run's as-of date.
func (c *Calculator) Compute(emp EmployeeRecord, rule CountryRule, tenureMonths int, bonusFraction decimal.Decimal) (LiabilityBreakdown, error) {
	if err := c.validate(emp, tenureMonths); err != nil {
		return LiabilityBreakdown{}, err
	}

	salary := emp.BaseMonthlySalary

	noticeDays, noticePay := evalNotice(rule.Notice, tenureMonths, emp.JobLevel, salary, c.Conv)

	severance, err := evalSeverance(rule.Severance, emp, tenureMonths, c.Conv)
	if err != nil {
		return LiabilityBreakdown{}, err
	}
	// Fixed indemnity for no-notice countries lands in the severance bucket.
	if rule.Notice.Variant == NoticeNoneIndemnity && rule.Notice.IndemnityMonths.IsPositive() {
		severance = severance.Add(salary.Mul(rule.Notice.IndemnityMonths))
	}

	bonus := evalBonus(rule.Bonus, salary, bonusFraction, c.Conv)

	cur := rule.Currency
	breakdown := LiabilityBreakdown{
		NoticeDays:   noticeDays,
		NoticePay:    NewMoney(noticePay, cur),
		SeverancePay: NewMoney(severance, cur),
		BonusAccrual: NewMoney(bonus, cur),
	}
	breakdown.Total = NewMoney(noticePay.Add(severance).Add(bonus), cur)
	return breakdown, nil
}

func (c *Calculator) validate(emp EmployeeRecord, tenureMonths int) error {
	if emp.BaseMonthlySalary.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{EmployeeID: emp.ID, Field: "base_monthly_salary", Message: "salary must be positive"}
	}
	if tenureMonths < 0 {
		return &ValidationError{EmployeeID: emp.ID, Field: "tenure_months", Message: "tenure must be non-negative"}
	}
	if emp.FGTSBalance != nil && emp.FGTSBalance.IsNegative() {
		return &ValidationError{EmployeeID: emp.ID, Field: "fgts_balance", Message: "balance must be non-negative"}
	}
	return nil
}
