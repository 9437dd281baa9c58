package countries_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/liability-engine/countries"
	"github.com/warp/liability-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(v int64) decimal.Decimal    { return decimal.NewFromInt(v) }
func decf(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertDecEqual(t *testing.T, expected, actual decimal.Decimal) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	assert.True(t, diff.LessThan(decf(0.0001)), "expected %s, got %s", expected, actual)
}

// janFirst zeroes the bonus year fraction so notice and severance can be
// asserted in isolation.
var janFirst = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func compute(t *testing.T, rule engine.CountryRule, emp engine.EmployeeRecord, tenureMonths int) engine.LiabilityBreakdown {
	t.Helper()
	calc := engine.NewCalculator(engine.DefaultConventions())
	bd, err := calc.Compute(emp, rule, tenureMonths, decimal.Zero)
	require.NoError(t, err)
	return bd
}

// =============================================================================
// BUILT-IN TABLE
// =============================================================================

func TestDefaultTable_AllCountriesValid(t *testing.T) {
	table, err := countries.DefaultTable()
	require.NoError(t, err)
	assert.Equal(t, 10, table.Len())

	expected := []engine.CountryCode{"AU", "BR", "DE", "FR", "GB", "IN", "MX", "NL", "PH", "SG"}
	assert.Equal(t, expected, table.Codes())
}

func TestDefaultFXRates_CoverEveryTableCurrency(t *testing.T) {
	table, err := countries.DefaultTable()
	require.NoError(t, err)

	rates := countries.DefaultFXRates()
	for _, cur := range table.Currencies() {
		rate, ok := rates[cur]
		assert.True(t, ok, "missing FX rate for %s", cur)
		assert.True(t, rate.IsPositive(), "non-positive FX rate for %s", cur)
	}
}

func TestDefaultTable_UsableEndToEnd(t *testing.T) {
	table, err := countries.DefaultTable()
	require.NoError(t, err)

	balance := dec(50000)
	resp, err := engine.Run(engine.Request{
		Rules:             table,
		FXRates:           countries.DefaultFXRates(),
		ReportingCurrency: "USD",
		Scoring:           engine.DefaultScoringConfig(),
		Conventions:       engine.DefaultConventions(),
		AsOf:              janFirst,
		Employees: []engine.EmployeeRecord{
			{ID: "e1", CountryCode: "BR", BaseMonthlySalary: dec(8000), TenureMonths: 36, FGTSBalance: &balance},
			{ID: "e2", CountryCode: "DE", BaseMonthlySalary: dec(6500), TenureMonths: 72},
			{ID: "e3", CountryCode: "SG", BaseMonthlySalary: dec(9000), TenureMonths: 18},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
	assert.Empty(t, resp.Skipped)
	assert.True(t, resp.Summary.TotalLiability.IsPositive())
}

// =============================================================================
// STATUTORY FORMULA SPOT CHECKS
// =============================================================================

func TestBrazil_NoticeAndFGTSPenalty(t *testing.T) {
	// 24 months at 5000 BRL with a 50000 FGTS balance:
	// notice 30 + 3*2 = 36 days -> 6000; severance 40% of 50000 = 20000
	balance := dec(50000)
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(5000), FGTSBalance: &balance}

	bd := compute(t, countries.Brazil(), emp, 24)
	assertDecEqual(t, dec(36), bd.NoticeDays)
	assertDecEqual(t, dec(6000), bd.NoticePay.Value)
	assertDecEqual(t, dec(20000), bd.SeverancePay.Value)
	assertDecEqual(t, dec(26000), bd.Total.Value)
}

func TestFrance_TieredNoticeAndProratedSeverance(t *testing.T) {
	// 8 months at 4000 EUR: 1 month notice; severance 4000*0.25*(8/12)
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(4000)}

	bd := compute(t, countries.France(), emp, 8)
	assertDecEqual(t, dec(30), bd.NoticeDays)
	assertDecEqual(t, dec(4000), bd.NoticePay.Value)
	assertDecEqual(t, decf(666.6667), bd.SeverancePay.Value)
}

func TestFrance_NoSeveranceUnderEightMonths(t *testing.T) {
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(4000)}
	bd := compute(t, countries.France(), emp, 7)
	assert.True(t, bd.SeverancePay.IsZero())
}

func TestGermany_WeekBracketsAndHalfMonthPractice(t *testing.T) {
	// 10 years at 6000 EUR: 16-week notice bracket; severance 6000*0.5*10
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(6000)}

	bd := compute(t, countries.Germany(), emp, 120)
	assertDecEqual(t, dec(112), bd.NoticeDays) // 16 weeks
	assertDecEqual(t, dec(30000), bd.SeverancePay.Value)
}

func TestIndia_GratuityThresholdAndSeniorNotice(t *testing.T) {
	ic := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(100000), JobLevel: "engineer"}
	head := engine.EmployeeRecord{ID: "e2", BaseMonthlySalary: dec(100000), JobLevel: "head"}

	// Under 5 years no gratuity accrues
	bd := compute(t, countries.India(), ic, 48)
	assert.True(t, bd.SeverancePay.IsZero())
	assertDecEqual(t, dec(30), bd.NoticeDays)

	// Senior staff get the extended notice
	bd = compute(t, countries.India(), head, 48)
	assertDecEqual(t, dec(90), bd.NoticeDays)

	// 6 years: 100000 * (15/26) * 6
	bd = compute(t, countries.India(), ic, 72)
	assertDecEqual(t, dec(100000).Mul(dec(15)).Div(dec(26)).Mul(dec(6)), bd.SeverancePay.Value)
}

func TestPhilippines_OneMonthFloor(t *testing.T) {
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(30000)}

	// Half a year of service still pays a full month of separation pay
	bd := compute(t, countries.Philippines(), emp, 6)
	assertDecEqual(t, dec(30000), bd.SeverancePay.Value)
}

func TestMexico_IndemnityReportedUnderSeverance(t *testing.T) {
	// 36 months at 10000 MXN: zero notice; severance carries the 3-month
	// indemnity plus the 12 days/year premium: 30000 + 10000*(12/30)*3
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(10000)}

	bd := compute(t, countries.Mexico(), emp, 36)
	assert.True(t, bd.NoticePay.IsZero())
	assertDecEqual(t, dec(42000), bd.SeverancePay.Value)
}

func TestUnitedKingdom_CappedRedundancy(t *testing.T) {
	// 4 years at 8660 GBP: weekly rate 2000 capped to 700 -> 700*1*4
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(8660)}

	bd := compute(t, countries.UnitedKingdom(), emp, 48)
	assertDecEqual(t, dec(2800), bd.SeverancePay.Value)
	assertDecEqual(t, dec(28), bd.NoticeDays) // 4 completed years -> 4 weeks
}

func TestNetherlands_TransitionPaymentCap(t *testing.T) {
	// A high earner's raw transition payment exceeds the statutory ceiling
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(40000)}

	bd := compute(t, countries.Netherlands(), emp, 120)
	assertDecEqual(t, dec(94000), bd.SeverancePay.Value)
}

func TestSingapore_MarketSeveranceAfterTwoYears(t *testing.T) {
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(4330)}

	// 18 months: below the 2-year qualifying tenure
	bd := compute(t, countries.Singapore(), emp, 18)
	assert.True(t, bd.SeverancePay.IsZero())

	// 3 years: 2 weeks/year on a 1000 weekly rate -> 1000*2*3
	bd = compute(t, countries.Singapore(), emp, 36)
	assertDecEqual(t, dec(6000), bd.SeverancePay.Value)
}

func TestAustralia_RedundancyWeekScale(t *testing.T) {
	emp := engine.EmployeeRecord{ID: "e1", BaseMonthlySalary: dec(4330)}

	// 2 completed years -> 6 weeks on a 1000 weekly rate
	bd := compute(t, countries.Australia(), emp, 30)
	assertDecEqual(t, dec(6000), bd.SeverancePay.Value)

	// Tenure far beyond the scale uses its last entry (16 weeks)
	bd = compute(t, countries.Australia(), emp, 360)
	assertDecEqual(t, dec(16000), bd.SeverancePay.Value)
}
