/*
errors.go - Centralized error types for the liability engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers branch on errors.Is against the sentinel values; the structured
  types carry the identifying context.

ERROR CATEGORIES:
  1. Per-employee errors - Skip that employee, keep processing the batch
     (unknown country, missing field, validation)
  2. Configuration errors - Abort the whole run before any employee is
     processed; a malformed rule table cannot be trusted to compute
     any result correctly

USAGE:
  if errors.Is(err, engine.ErrUnknownCountry) { ... }

  var cfgErr *engine.ConfigurationError
  if errors.As(err, &cfgErr) { ... }

SEE ALSO:
  - pipeline.go: Applies the skip-vs-abort policy
  - rules.go: Emits ConfigurationError during validation
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownCountry is returned when an employee references a country
	// code absent from the rule table.
	ErrUnknownCountry = errors.New("unknown country code")

	// ErrMissingField is returned when a country's rule requires a field
	// (e.g. FGTS balance) that is absent on the employee record.
	ErrMissingField = errors.New("missing required field")

	// ErrValidation is returned for malformed employee input such as
	// negative tenure or non-positive salary.
	ErrValidation = errors.New("invalid employee input")

	// ErrConfiguration is returned when the rule table, FX table, or
	// threshold configuration is itself malformed. This aborts the run.
	ErrConfiguration = errors.New("invalid configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownCountryError identifies the unresolved country code.
type UnknownCountryError struct {
	Code CountryCode
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("unknown country code %q", e.Code)
}

func (e *UnknownCountryError) Unwrap() error { return ErrUnknownCountry }

// MissingFieldError identifies a required country-specific field absent
// from an employee record.
type MissingFieldError struct {
	EmployeeID EmployeeID
	Country    CountryCode
	Field      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("employee %s: %s requires field %q", e.EmployeeID, e.Country, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ValidationError identifies malformed numeric input on an employee record.
type ValidationError struct {
	EmployeeID EmployeeID
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("employee %s: %s: %s", e.EmployeeID, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConfigurationError identifies a malformed rule table, FX table, or
// threshold configuration. Fatal for the whole run.
type ConfigurationError struct {
	Component string // e.g. "rule_table", "fx_rates", "thresholds", "scoring"
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsSkippable returns true if the error excludes a single employee without
// aborting the batch.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrUnknownCountry) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrValidation)
}

// IsConfiguration returns true if the error invalidates the whole run.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
