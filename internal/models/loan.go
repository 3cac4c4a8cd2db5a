package models

// LoanTerms describes a fixed-rate loan. AnnualRate is a ratio (0.0675 for 6.75%).
type LoanTerms struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"annual_rate"`
	TermMonths int     `json:"term_months"`
}

// RefinanceProposal describes the loan being considered as a replacement.
type RefinanceProposal struct {
	NewRate       float64 `json:"new_rate"`
	NewTermMonths int     `json:"new_term_months"`
	ClosingCost   float64 `json:"closing_cost"`
}

// AmortizationPoint is one row of an amortization schedule.
type AmortizationPoint struct {
	PeriodIndex        int     `json:"period_index"`
	RemainingPrincipal float64 `json:"remaining_principal"`
	InterestPaidToDate float64 `json:"interest_paid_to_date"`
}
