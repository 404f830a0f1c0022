package internal

import (
	"fmt"
	"sort"
	"strings"
)

// rawValue renders an untyped API value for diagnostics. The upstream service
// serializes absent values as JSON null, which its own tooling reports as
// "None"; error text keeps that spelling so log scrapers match both clients.
func rawValue(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("%v", v)
}

// InvalidAmountError reports a debt amount that does not coerce to a
// non-negative finite number.
type InvalidAmountError struct {
	DebtID int
	Raw    any
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("Invalid debt amount : id=%d amount=%s", e.DebtID, rawValue(e.Raw))
}

// InvalidDateError reports a date value that is absent, not a string, or
// matches none of the configured layouts.
type InvalidDateError struct {
	Label string // identifies the field, e.g. "Start date for payment plan id '3'"
	Raw   any
	// Unrecognized marks a well-formed string that matched no layout, as
	// opposed to a value that is not a date string at all.
	Unrecognized bool
}

func (e *InvalidDateError) Error() string {
	if e.Unrecognized {
		return fmt.Sprintf("%s : unrecognized date format '%s'", e.Label, rawValue(e.Raw))
	}
	return fmt.Sprintf("%s : invalid date value : '%s'", e.Label, rawValue(e.Raw))
}

// CorruptDataError reports multiple records where the data model allows at
// most one: several payment plans for one debt, or several debts for one id.
type CorruptDataError struct {
	Kind   string // "debt" or "payment plan"
	DebtID int
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("Corrupt %s data for debt_id '%d' : multiple records", e.Kind, e.DebtID)
}

// UnrecognizedFrequencyError reports an installment frequency tag that is
// absent from the configured frequency table.
type UnrecognizedFrequencyError struct {
	PlanID int
	Raw    any
}

func (e *UnrecognizedFrequencyError) Error() string {
	return fmt.Sprintf("Payment plan id '%d' : unrecognized frequency '%s'", e.PlanID, rawValue(e.Raw))
}

// InvalidPaymentError reports a payment whose amount does not coerce to a
// number. The raw date is carried verbatim to identify the record.
type InvalidPaymentError struct {
	PlanID    int
	RawAmount any
	RawDate   any
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("Invalid payment amount : amount=%s, payment_plan_id=%d, date=%s",
		rawValue(e.RawAmount), e.PlanID, rawValue(e.RawDate))
}

// TransportError reports a failed fetch: connection failure after retries,
// a non-2xx response, or a malformed/error-shaped body.
type TransportError struct {
	Resource string
	Filter   map[string]string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Error fetching data from %s for %s: %v", e.Resource, filterString(e.Filter), e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func filterString(filter map[string]string) string {
	if len(filter) == 0 {
		return "no params"
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, filter[k]))
	}
	return strings.Join(parts, " ")
}
