// Package finance implements the refinance calculation engine: fixed-rate
// amortization, break-even analysis for a proposed refinance, and the
// efficient-frontier curve of break-even rates over a loan's life.
//
// Every function is a pure, deterministic transformation of its inputs. There
// is no I/O and no shared state; callers may run calculations for different
// loans concurrently without coordination.
package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/refiline/refi-service/internal/models"
)

// ErrInvalidLoanParameters indicates a non-positive principal or term, or a
// monthsElapsed value outside the loan's life. Checked with errors.Is.
var ErrInvalidLoanParameters = errors.New("invalid loan parameters")

// MonthlyPayment computes the level monthly payment for a fixed-rate loan
// using the standard annuity formula.
//
// A zero annual rate reduces to the straight-line payment principal/termMonths.
// Negative rates take the same straight-line path instead of producing a
// nonsensical negative-rate amortization; this mirrors the behavior of the
// original product and is kept for compatibility.
func MonthlyPayment(principal, annualRate float64, termMonths int) (float64, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidLoanParameters, principal)
	}
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d months", ErrInvalidLoanParameters, termMonths)
	}

	r := annualRate / 12
	if r <= 0 {
		return principal / float64(termMonths), nil
	}
	return principal * r / (1 - math.Pow(1+r, -float64(termMonths))), nil
}

// RemainingPrincipal computes the principal still owed after monthsElapsed
// payments, as the present value of the remaining annuity stream. It returns
// exactly 0 once the loan is paid off, never a negative value.
func RemainingPrincipal(principal, annualRate float64, termMonths, monthsElapsed int) (float64, error) {
	if monthsElapsed < 0 || monthsElapsed > termMonths {
		return 0, fmt.Errorf("%w: months elapsed %d outside [0, %d]", ErrInvalidLoanParameters, monthsElapsed, termMonths)
	}
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return 0, err
	}
	if monthsElapsed >= termMonths {
		return 0, nil
	}

	r := annualRate / 12
	if r <= 0 {
		return principal * (1 - float64(monthsElapsed)/float64(termMonths)), nil
	}
	return payment * (1 - math.Pow(1+r, -float64(termMonths-monthsElapsed))) / r, nil
}

// CumulativeInterest sums the interest component of each payment from
// startPeriod (inclusive) to endPeriod (exclusive), both zero-based. Interest
// in period k is the principal remaining after k payments times the monthly
// rate. Zero and negative rates accrue no interest.
func CumulativeInterest(principal, annualRate float64, termMonths, startPeriod, endPeriod int) (float64, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidLoanParameters, principal)
	}
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d months", ErrInvalidLoanParameters, termMonths)
	}
	if startPeriod < 0 || endPeriod > termMonths || startPeriod > endPeriod {
		return 0, fmt.Errorf("%w: period range [%d, %d) outside [0, %d]", ErrInvalidLoanParameters, startPeriod, endPeriod, termMonths)
	}

	r := annualRate / 12
	if r <= 0 {
		return 0, nil
	}

	var total float64
	for k := startPeriod; k < endPeriod; k++ {
		remaining, err := RemainingPrincipal(principal, annualRate, termMonths, k)
		if err != nil {
			return 0, err
		}
		total += remaining * r
	}
	return total, nil
}

// Schedule produces the full amortization table for a loan, one point per
// period from 1 to the term. Each call yields fresh values.
func Schedule(terms models.LoanTerms) ([]models.AmortizationPoint, error) {
	if _, err := MonthlyPayment(terms.Principal, terms.AnnualRate, terms.TermMonths); err != nil {
		return nil, err
	}

	r := terms.AnnualRate / 12
	points := make([]models.AmortizationPoint, 0, terms.TermMonths)
	var interestPaid float64
	for k := 1; k <= terms.TermMonths; k++ {
		if r > 0 {
			before, err := RemainingPrincipal(terms.Principal, terms.AnnualRate, terms.TermMonths, k-1)
			if err != nil {
				return nil, err
			}
			interestPaid += before * r
		}
		remaining, err := RemainingPrincipal(terms.Principal, terms.AnnualRate, terms.TermMonths, k)
		if err != nil {
			return nil, err
		}
		points = append(points, models.AmortizationPoint{
			PeriodIndex:        k,
			RemainingPrincipal: remaining,
			InterestPaidToDate: interestPaid,
		})
	}
	return points, nil
}
