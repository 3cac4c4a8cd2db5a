package models

import "encoding/json"

// notPossible is the JSON sentinel for outcomes that have no finite solution.
// It is a valid result, not an error, and never leaks into arithmetic.
const notPossible = "not_possible"

// MonthCount is a month count that may have no finite value.
type MonthCount struct {
	Months   int
	Possible bool
}

// PossibleMonths returns a finite month count.
func PossibleMonths(m int) MonthCount {
	return MonthCount{Months: m, Possible: true}
}

// NoBreakEven is the month count for a break-even that never occurs.
func NoBreakEven() MonthCount {
	return MonthCount{}
}

// MarshalJSON writes the month count as a number, or as "not_possible".
func (m MonthCount) MarshalJSON() ([]byte, error) {
	if !m.Possible {
		return json.Marshal(notPossible)
	}
	return json.Marshal(m.Months)
}

// UnmarshalJSON accepts either a number or the "not_possible" sentinel.
func (m *MonthCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == notPossible {
		*m = MonthCount{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = MonthCount{Months: n, Possible: true}
	return nil
}

// RateValue is an interest rate (as a ratio) that may have no finite value.
type RateValue struct {
	Rate     float64
	Possible bool
}

// PossibleRate returns a finite rate.
func PossibleRate(r float64) RateValue {
	return RateValue{Rate: r, Possible: true}
}

// NoRate is the rate for a frontier point with no solution.
func NoRate() RateValue {
	return RateValue{}
}

// MarshalJSON writes the rate as a number, or as "not_possible".
func (r RateValue) MarshalJSON() ([]byte, error) {
	if !r.Possible {
		return json.Marshal(notPossible)
	}
	return json.Marshal(r.Rate)
}

// UnmarshalJSON accepts either a number or the "not_possible" sentinel.
func (r *RateValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == notPossible {
		*r = RateValue{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = RateValue{Rate: f, Possible: true}
	return nil
}

// RecoupResult holds both break-even perspectives for a proposed refinance.
// The two methods can disagree (a lower payment can still cost more interest
// over a longer term); both are surfaced rather than reconciled.
type RecoupResult struct {
	SimpleBreakEvenMonths   MonthCount `json:"simple_break_even_months"`
	InterestBreakEvenMonths MonthCount `json:"interest_break_even_months"`
	// LifetimeInterestDelta is signed: positive means the refinance saves
	// money over the full remaining life of the loan.
	LifetimeInterestDelta float64 `json:"lifetime_interest_delta"`
}

// FrontierPoint maps one future month to the highest new rate at which a
// refinance at that month would still reduce total lifetime interest.
type FrontierPoint struct {
	MonthIndex    int       `json:"month_index"`
	BreakEvenRate RateValue `json:"break_even_rate"`
}
