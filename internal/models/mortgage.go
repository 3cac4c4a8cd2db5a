package models

import "time"

// Mortgage is a stored mortgage record owned by a user.
type Mortgage struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Principal       float64   `json:"principal"`
	AnnualRate      float64   `json:"annual_rate"`
	TermMonths      int       `json:"term_months"`
	OriginationDate time.Time `json:"origination_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Terms returns the loan terms of the mortgage as taken out.
func (m *Mortgage) Terms() LoanTerms {
	return LoanTerms{
		Principal:  m.Principal,
		AnnualRate: m.AnnualRate,
		TermMonths: m.TermMonths,
	}
}

// MonthsElapsed is the number of whole months since origination as of now,
// clamped to the loan term.
func (m *Mortgage) MonthsElapsed(now time.Time) int {
	if now.Before(m.OriginationDate) {
		return 0
	}
	months := (now.Year()-m.OriginationDate.Year())*12 + int(now.Month()) - int(m.OriginationDate.Month())
	if now.Day() < m.OriginationDate.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	if months > m.TermMonths {
		months = m.TermMonths
	}
	return months
}
