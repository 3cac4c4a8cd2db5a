package models

import "time"

// AlertSubscription is a paid subscription that asks the background scheduler
// to watch the market rate on behalf of a mortgage and notify the owner when
// refinancing at the prevailing rate would break even quickly enough.
type AlertSubscription struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"user_id"`
	MortgageID int64 `json:"mortgage_id"`
	// NewTermMonths and ClosingCost parameterize the hypothetical refinance
	// evaluated against the market rate.
	NewTermMonths int     `json:"new_term_months"`
	ClosingCost   float64 `json:"closing_cost"`
	// MaxBreakEvenMonths is the subscriber's threshold: an alert fires only
	// when the simple break-even is possible and at most this many months.
	MaxBreakEvenMonths int        `json:"max_break_even_months"`
	Active             bool       `json:"active"`
	LastNotifiedAt     *time.Time `json:"last_notified_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Proposal returns the subscription's hypothetical refinance at the given
// market rate.
func (a *AlertSubscription) Proposal(marketRate float64) RefinanceProposal {
	return RefinanceProposal{
		NewRate:       marketRate,
		NewTermMonths: a.NewTermMonths,
		ClosingCost:   a.ClosingCost,
	}
}
