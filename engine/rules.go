/*
rules.go - Country rule definitions and the rule table

PURPOSE:
  Defines the statutory parameters for each supported country as tagged
  rule variants. The calculator dispatches on the variant tag, so adding
  a country never requires touching formula code - only new rule data.
  Adding a genuinely new formula shape means adding a variant.

RULE CATEGORIES:
  NoticeRule:    How much advance notice (or pay in lieu) is owed
  SeveranceRule: The lump-sum termination payment formula
  BonusRule:     Statutory bonus accruals prorated over the current year

VARIANT CATALOG:
  Notice:
    flat_days           base + per-year days, clamped to a maximum (Brazil)
    tiered_by_tenure    closed-open tenure brackets -> month-multiples (France, Netherlands)
    weeks_by_bracket    tenure brackets -> weeks of pay, optionally growing
                        per year of service up to a cap (Germany, UK, Singapore)
    none_with_indemnity no notice; a fixed indemnity is owed instead and is
                        reported under severance (Mexico)

  Severance:
    percent_of_balance     penalty rate on a fund balance (Brazil FGTS)
    per_year_tiered        initial-years rate then a higher rate (France)
    flat_months_per_year   months (or weeks) of pay per year of service
                           (Germany, Philippines, Singapore, Mexico premium)
    threshold_then_accrual zero until a minimum tenure, then per-year accrual
                           (India gratuity)
    capped_proration       per-year accrual capped at an absolute ceiling
                           (Netherlands transition payment)
    statutory_redundancy   weekly pay capped per week and per years counted (UK)
    weeks_scale            weeks of pay from a per-completed-year scale (Australia)

IMMUTABILITY:
  A RuleTable is populated once and read-only afterwards. Reconfiguration
  means building a new table, never mutating a live one, so in-flight runs
  cannot observe a half-updated rule.

SEE ALSO:
  - notice.go, severance.go, bonus.go: Variant evaluation
  - countries/: Pre-built rule sets per jurisdiction
  - factory/: JSON configuration -> RuleTable
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// NOTICE RULE
// =============================================================================

type NoticeVariant string

const (
	NoticeFlatDays       NoticeVariant = "flat_days"
	NoticeTieredByTenure NoticeVariant = "tiered_by_tenure"
	NoticeWeeksByBracket NoticeVariant = "weeks_by_bracket"
	NoticeNoneIndemnity  NoticeVariant = "none_with_indemnity"
)

// NoticeTier maps a tenure range to a fixed month-multiple of salary.
// Brackets are closed-open: a tier applies from MinMonths (inclusive) until
// the next tier's MinMonths (exclusive); the last tier is open-ended.
type NoticeTier struct {
	MinMonths int
	Months    decimal.Decimal
}

// WeekBracket maps a tenure range to weeks of pay. When WeeksPerYear is set,
// the bracket grows by that many weeks per completed year of service,
// clamped to MaxWeeks.
type WeekBracket struct {
	MinMonths    int
	Weeks        decimal.Decimal
	WeeksPerYear decimal.Decimal
	MaxWeeks     decimal.Decimal
}

// NoticeRule is a tagged variant; only the fields for its variant are used.
type NoticeRule struct {
	Variant NoticeVariant

	// flat_days
	BaseDays    int
	DaysPerYear int
	MaxDays     int
	// flat_days, senior extension: employees whose JobLevel is in
	// SeniorLevels get SeniorDays instead of BaseDays (India practice).
	SeniorDays   int
	SeniorLevels []string

	// tiered_by_tenure
	Tiers []NoticeTier

	// weeks_by_bracket
	Brackets []WeekBracket

	// none_with_indemnity: fixed months of pay reported under severance
	IndemnityMonths decimal.Decimal
}

// =============================================================================
// SEVERANCE RULE
// =============================================================================

type SeveranceVariant string

const (
	SeverancePercentOfBalance    SeveranceVariant = "percent_of_balance"
	SeverancePerYearTiered       SeveranceVariant = "per_year_tiered"
	SeveranceFlatMonthsPerYear   SeveranceVariant = "flat_months_per_year"
	SeveranceThresholdAccrual    SeveranceVariant = "threshold_then_accrual"
	SeveranceCappedProration     SeveranceVariant = "capped_proration"
	SeveranceStatutoryRedundancy SeveranceVariant = "statutory_redundancy"
	SeveranceWeeksScale          SeveranceVariant = "weeks_scale"
)

// SeveranceRule is a tagged variant; only the fields for its variant are used.
// MinTenureMonths applies to every variant: below it severance is zero.
type SeveranceRule struct {
	Variant         SeveranceVariant
	MinTenureMonths int

	// percent_of_balance
	BalanceRate decimal.Decimal // e.g. 0.40 of the FGTS balance

	// per_year_tiered: InitialRate months/year for the first InitialYears,
	// SubsequentRate months/year beyond. Partial years prorate fractionally.
	InitialRate    decimal.Decimal
	InitialYears   int
	SubsequentRate decimal.Decimal

	// flat_months_per_year / threshold_then_accrual / capped_proration.
	// When WeeksPerYear is set it takes precedence over MonthsPerYear and
	// the weekly rate convention applies.
	MonthsPerYear decimal.Decimal
	WeeksPerYear  decimal.Decimal
	// MinimumMonths floors the payout at a number of months of salary
	// (Philippines pays at least one month).
	MinimumMonths decimal.Decimal

	// capped_proration: absolute ceiling in local currency, applied after
	// computing the raw amount, never before.
	Cap *decimal.Decimal

	// statutory_redundancy
	WeeklyPayCap decimal.Decimal
	MaxYears     int

	// weeks_scale: weeks of pay indexed by completed years of service - 1;
	// tenure beyond the scale uses the last entry.
	Scale []decimal.Decimal
}

// =============================================================================
// BONUS RULE
// =============================================================================

// BonusRule describes statutory bonus accruals, each prorated by the
// fraction of the current year worked. A country may owe several components
// (Brazil owes both a 13th month and a vacation bonus).
type BonusRule struct {
	ThirteenthMonth bool

	AguinaldoDays decimal.Decimal // days of pay per year (Mexico)

	HolidayAllowancePercent decimal.Decimal // % of annual salary (Netherlands)

	StatutoryBonusPercent   decimal.Decimal // % of capped annual salary (India)
	StatutoryBonusSalaryCap decimal.Decimal // monthly salary cap, 0 = uncapped

	VacationBonusPercent decimal.Decimal // % of a month's salary (Brazil)
}

// =============================================================================
// COUNTRY RULE
// =============================================================================

// CountryRule is the immutable statutory parameter set for one country.
type CountryRule struct {
	Code         CountryCode
	Name         string
	Currency     CurrencyCode
	FXVolatility Rating
	LegalRisk    Rating

	Notice    NoticeRule
	Severance SeveranceRule
	Bonus     *BonusRule // nil when the country has no statutory bonus
}

// =============================================================================
// RULE TABLE
// =============================================================================

// RuleTable maps country codes to their rules. Built once, read-only after.
type RuleTable struct {
	rules map[CountryCode]CountryRule
}

// NewRuleTable validates every rule and builds the table. Any malformed rule
// is a ConfigurationError: the engine refuses to compute with a table it
// cannot trust.
func NewRuleTable(rules []CountryRule) (*RuleTable, error) {
	if len(rules) == 0 {
		return nil, &ConfigurationError{Component: "rule_table", Message: "no country rules supplied"}
	}
	m := make(map[CountryCode]CountryRule, len(rules))
	for _, r := range rules {
		if r.Code == "" {
			return nil, &ConfigurationError{Component: "rule_table", Message: "country rule with empty code"}
		}
		if _, dup := m[r.Code]; dup {
			return nil, &ConfigurationError{Component: "rule_table", Message: fmt.Sprintf("duplicate rule for country %s", r.Code)}
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
		m[r.Code] = r
	}
	return &RuleTable{rules: m}, nil
}

// Lookup resolves a country code, failing with UnknownCountryError if absent.
func (t *RuleTable) Lookup(code CountryCode) (CountryRule, error) {
	r, ok := t.rules[code]
	if !ok {
		return CountryRule{}, &UnknownCountryError{Code: code}
	}
	return r, nil
}

// Codes returns all country codes in the table, sorted.
func (t *RuleTable) Codes() []CountryCode {
	codes := make([]CountryCode, 0, len(t.rules))
	for c := range t.rules {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Currencies returns the distinct currencies referenced by the table.
func (t *RuleTable) Currencies() []CurrencyCode {
	seen := make(map[CurrencyCode]bool)
	var out []CurrencyCode
	for _, r := range t.rules {
		if !seen[r.Currency] {
			seen[r.Currency] = true
			out = append(out, r.Currency)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *RuleTable) Len() int { return len(t.rules) }

// =============================================================================
// RULE VALIDATION
// =============================================================================

func validateRule(r CountryRule) error {
	cfgErr := func(format string, args ...any) error {
		return &ConfigurationError{
			Component: "rule_table",
			Message:   fmt.Sprintf("country %s: %s", r.Code, fmt.Sprintf(format, args...)),
		}
	}

	if r.Currency == "" {
		return cfgErr("missing currency code")
	}
	if !r.FXVolatility.Valid() {
		return cfgErr("invalid fx volatility rating %q", r.FXVolatility)
	}
	if !r.LegalRisk.Valid() {
		return cfgErr("invalid legal risk rating %q", r.LegalRisk)
	}

	switch r.Notice.Variant {
	case NoticeFlatDays:
		if r.Notice.BaseDays < 0 || r.Notice.DaysPerYear < 0 || r.Notice.MaxDays < 0 {
			return cfgErr("flat_days notice with negative constants")
		}
	case NoticeTieredByTenure:
		if len(r.Notice.Tiers) == 0 {
			return cfgErr("tiered_by_tenure notice with no tiers")
		}
		for i, tier := range r.Notice.Tiers {
			if i > 0 && tier.MinMonths <= r.Notice.Tiers[i-1].MinMonths {
				return cfgErr("tiered_by_tenure notice tiers not strictly ascending")
			}
			if tier.Months.IsNegative() {
				return cfgErr("tiered_by_tenure notice tier with negative months")
			}
		}
	case NoticeWeeksByBracket:
		if len(r.Notice.Brackets) == 0 {
			return cfgErr("weeks_by_bracket notice with no brackets")
		}
		for i, b := range r.Notice.Brackets {
			if i > 0 && b.MinMonths <= r.Notice.Brackets[i-1].MinMonths {
				return cfgErr("weeks_by_bracket notice brackets not strictly ascending")
			}
			if b.Weeks.IsNegative() || b.WeeksPerYear.IsNegative() || b.MaxWeeks.IsNegative() {
				return cfgErr("weeks_by_bracket notice bracket with negative constants")
			}
		}
	case NoticeNoneIndemnity:
		if r.Notice.IndemnityMonths.IsNegative() {
			return cfgErr("none_with_indemnity notice with negative indemnity")
		}
	default:
		return cfgErr("unknown notice variant %q", r.Notice.Variant)
	}

	s := r.Severance
	if s.MinTenureMonths < 0 {
		return cfgErr("severance with negative minimum tenure")
	}
	switch s.Variant {
	case SeverancePercentOfBalance:
		if s.BalanceRate.IsNegative() {
			return cfgErr("percent_of_balance severance with negative rate")
		}
	case SeverancePerYearTiered:
		if s.InitialYears <= 0 {
			return cfgErr("per_year_tiered severance missing initial tier length")
		}
		if s.InitialRate.IsNegative() || s.SubsequentRate.IsNegative() {
			return cfgErr("per_year_tiered severance with negative rate")
		}
	case SeveranceFlatMonthsPerYear, SeveranceThresholdAccrual:
		if s.MonthsPerYear.IsNegative() || s.WeeksPerYear.IsNegative() {
			return cfgErr("%s severance with negative rate", s.Variant)
		}
		if s.MonthsPerYear.IsZero() && s.WeeksPerYear.IsZero() {
			return cfgErr("%s severance with no accrual rate", s.Variant)
		}
	case SeveranceCappedProration:
		if s.MonthsPerYear.IsZero() && s.WeeksPerYear.IsZero() {
			return cfgErr("capped_proration severance with no accrual rate")
		}
		if s.Cap == nil {
			return cfgErr("capped_proration severance missing cap")
		}
		if s.Cap.IsNegative() {
			return cfgErr("capped_proration severance with negative cap")
		}
	case SeveranceStatutoryRedundancy:
		if s.WeeklyPayCap.LessThanOrEqual(decimal.Zero) {
			return cfgErr("statutory_redundancy severance missing weekly pay cap")
		}
		if s.MaxYears <= 0 {
			return cfgErr("statutory_redundancy severance missing max years")
		}
		if s.WeeksPerYear.LessThanOrEqual(decimal.Zero) {
			return cfgErr("statutory_redundancy severance missing weeks per year")
		}
	case SeveranceWeeksScale:
		if len(s.Scale) == 0 {
			return cfgErr("weeks_scale severance with empty scale")
		}
		for _, w := range s.Scale {
			if w.IsNegative() {
				return cfgErr("weeks_scale severance with negative weeks")
			}
		}
	default:
		return cfgErr("unknown severance variant %q", s.Variant)
	}

	if b := r.Bonus; b != nil {
		if b.AguinaldoDays.IsNegative() || b.HolidayAllowancePercent.IsNegative() ||
			b.StatutoryBonusPercent.IsNegative() || b.StatutoryBonusSalaryCap.IsNegative() ||
			b.VacationBonusPercent.IsNegative() {
			return cfgErr("bonus rule with negative constants")
		}
	}

	return nil
}
