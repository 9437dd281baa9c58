package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/liability-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testTable(t *testing.T) *engine.RuleTable {
	t.Helper()
	table, err := engine.NewRuleTable([]engine.CountryRule{
		brazilRule(), franceRule(), mexicoRule(),
	})
	require.NoError(t, err)
	return table
}

func testRates() map[engine.CurrencyCode]decimal.Decimal {
	return map[engine.CurrencyCode]decimal.Decimal{
		"BRL": decf(0.17),
		"EUR": decf(1.09),
		"MXN": decf(0.05),
	}
}

func baseRequest(t *testing.T, employees []engine.EmployeeRecord) engine.Request {
	t.Helper()
	return engine.Request{
		Rules:             testTable(t),
		FXRates:           testRates(),
		ReportingCurrency: "USD",
		Scoring:           engine.DefaultScoringConfig(),
		Conventions:       engine.DefaultConventions(),
		AsOf:              janFirst,
		Employees:         employees,
	}
}

// =============================================================================
// FULL RUN
// =============================================================================

func TestRun_EndToEnd(t *testing.T) {
	// GIVEN: A Brazil employee (flat-days notice + FGTS severance) and a
	//        France employee (tiered notice + per-year severance)
	// THEN: Both compute, convert into USD, and aggregate

	balance := dec(50000)
	req := baseRequest(t, []engine.EmployeeRecord{
		{ID: "e1", Name: "Ana", CountryCode: "BR", BaseMonthlySalary: dec(5000), TenureMonths: 24, FGTSBalance: &balance},
		{ID: "e2", Name: "Luc", CountryCode: "FR", BaseMonthlySalary: dec(4000), TenureMonths: 8},
	})

	resp, err := engine.Run(req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Empty(t, resp.Skipped)

	// Results come back in input order
	br := resp.Results[0]
	assert.Equal(t, engine.EmployeeID("e1"), br.EmployeeID)
	assert.Equal(t, engine.CurrencyCode("BRL"), br.Currency)
	assert.Equal(t, 24, br.TenureMonths)

	// BR local total 26000 (6000 notice + 20000 FGTS penalty, zero bonus on
	// Jan 1) -> 26000 * 0.17 = 4420 USD
	assertDecEqual(t, dec(26000), br.Breakdown.Total.Value)
	assertDecEqual(t, dec(4420), br.TotalConverted.Value)
	assert.Equal(t, engine.CurrencyCode("USD"), br.TotalConverted.Currency)

	fr := resp.Results[1]
	// FR local total: 4000 notice + 4000*0.25*(8/12) severance
	assertDecEqual(t, decf(4666.6667), fr.Breakdown.Total.Value)
	assertDecEqual(t, decf(4666.6667).Mul(decf(1.09)), fr.TotalConverted.Value)

	// Summary reflects both converted totals
	assertDecEqual(t, br.TotalConverted.Value.Add(fr.TotalConverted.Value), resp.Summary.TotalLiability.Value)
	assert.Equal(t, 2, resp.Summary.EmployeeCount)
}

func TestRun_SkipsFailedEmployees_KeepsBatch(t *testing.T) {
	// GIVEN: A batch with an unknown country, a missing FGTS balance, and a
	//        negative salary alongside one valid employee
	// THEN: The valid employee computes; the others land in Skipped with
	//       their specific errors

	req := baseRequest(t, []engine.EmployeeRecord{
		{ID: "ok", CountryCode: "FR", BaseMonthlySalary: dec(4000), TenureMonths: 12},
		{ID: "nowhere", CountryCode: "ZZ", BaseMonthlySalary: dec(1000), TenureMonths: 12},
		{ID: "no-balance", CountryCode: "BR", BaseMonthlySalary: dec(5000), TenureMonths: 24},
		{ID: "negative", CountryCode: "FR", BaseMonthlySalary: dec(-1), TenureMonths: 12},
	})

	resp, err := engine.Run(req)
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, engine.EmployeeID("ok"), resp.Results[0].EmployeeID)

	require.Len(t, resp.Skipped, 3)
	assert.Equal(t, engine.EmployeeID("nowhere"), resp.Skipped[0].EmployeeID)
	assert.ErrorIs(t, resp.Skipped[0].Err, engine.ErrUnknownCountry)
	assert.Equal(t, engine.EmployeeID("no-balance"), resp.Skipped[1].EmployeeID)
	assert.ErrorIs(t, resp.Skipped[1].Err, engine.ErrMissingField)
	assert.Equal(t, engine.EmployeeID("negative"), resp.Skipped[2].EmployeeID)
	assert.ErrorIs(t, resp.Skipped[2].Err, engine.ErrValidation)

	assert.Equal(t, 3, resp.Summary.SkippedCount)
}

func TestRun_EmptyBatch_ZeroSummary(t *testing.T) {
	resp, err := engine.Run(baseRequest(t, nil))
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.Skipped)
	assert.True(t, resp.Summary.TotalLiability.IsZero())
	assert.Empty(t, resp.Alerts)
}

func TestRun_AlertsWired(t *testing.T) {
	balance := dec(500000)
	req := baseRequest(t, []engine.EmployeeRecord{
		{ID: "e1", CountryCode: "BR", BaseMonthlySalary: dec(50000), TenureMonths: 120, FGTSBalance: &balance},
	})
	req.Thresholds = engine.Thresholds{
		EmployeeLiability: &engine.Threshold{Value: dec(1000), Severity: engine.SeverityCritical},
	}

	resp, err := engine.Run(req)
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, engine.AlertEmployeeThreshold, resp.Alerts[0].Kind)
}

// =============================================================================
// CONFIGURATION FAILURES ABORT THE RUN
// =============================================================================

func TestRun_MissingFXRate_Aborts(t *testing.T) {
	// Uncovered rule-table currency invalidates the whole run, even when no
	// employee in the batch uses it: a partial FX table cannot be trusted.
	req := baseRequest(t, []engine.EmployeeRecord{
		{ID: "e1", CountryCode: "FR", BaseMonthlySalary: dec(4000), TenureMonths: 12},
	})
	delete(req.FXRates, "MXN")

	resp, err := engine.Run(req)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRun_NonPositiveFXRate_Aborts(t *testing.T) {
	req := baseRequest(t, nil)
	req.FXRates["EUR"] = decimal.Zero

	_, err := engine.Run(req)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRun_MissingRuleTable_Aborts(t *testing.T) {
	req := baseRequest(t, nil)
	req.Rules = nil

	_, err := engine.Run(req)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRun_MissingReportingCurrency_Aborts(t *testing.T) {
	req := baseRequest(t, nil)
	req.ReportingCurrency = ""

	_, err := engine.Run(req)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRun_ZeroAsOf_Aborts(t *testing.T) {
	req := baseRequest(t, nil)
	req.AsOf = time.Time{}

	_, err := engine.Run(req)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRun_BadConventions_Abort(t *testing.T) {
	req := baseRequest(t, nil)
	req.Conventions.DaysPerMonth = decimal.Zero

	_, err := engine.Run(req)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

// =============================================================================
// RULE TABLE CONSTRUCTION
// =============================================================================

func TestNewRuleTable_RejectsDuplicates(t *testing.T) {
	_, err := engine.NewRuleTable([]engine.CountryRule{brazilRule(), brazilRule()})
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestNewRuleTable_RejectsMalformedRules(t *testing.T) {
	bad := brazilRule()
	bad.Notice.Variant = engine.NoticeVariant("lunar_cycle")
	_, err := engine.NewRuleTable([]engine.CountryRule{bad})
	assert.ErrorIs(t, err, engine.ErrConfiguration)

	noCap := franceRule()
	noCap.Severance = engine.SeveranceRule{
		Variant:       engine.SeveranceCappedProration,
		MonthsPerYear: decf(0.33),
	}
	_, err = engine.NewRuleTable([]engine.CountryRule{noCap})
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRuleTable_LookupAndCodes(t *testing.T) {
	table := testTable(t)

	rule, err := table.Lookup("BR")
	require.NoError(t, err)
	assert.Equal(t, engine.CurrencyCode("BRL"), rule.Currency)

	_, err = table.Lookup("ZZ")
	assert.ErrorIs(t, err, engine.ErrUnknownCountry)
	var uce *engine.UnknownCountryError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, engine.CountryCode("ZZ"), uce.Code)

	assert.Equal(t, []engine.CountryCode{"BR", "FR", "MX"}, table.Codes())
	assert.Equal(t, []engine.CurrencyCode{"BRL", "EUR", "MXN"}, table.Currencies())
}
