package finance

import (
	"fmt"
	"math"

	"github.com/refiline/refi-service/internal/models"
)

// ComputeRecoup evaluates a proposed refinance against the current loan using
// two independent break-even methods.
//
// The simple method divides the closing cost by the monthly payment savings.
// The interest method compares interest avoided on the current loan against
// closing cost plus interest accrued on the new loan, capturing the cost of
// resetting the amortization clock to a fresh term. The two can disagree; both
// results are returned as-is.
func ComputeRecoup(current models.LoanTerms, monthsElapsed int, proposal models.RefinanceProposal) (models.RecoupResult, error) {
	oldPayment, err := MonthlyPayment(current.Principal, current.AnnualRate, current.TermMonths)
	if err != nil {
		return models.RecoupResult{}, err
	}
	remaining, err := RemainingPrincipal(current.Principal, current.AnnualRate, current.TermMonths, monthsElapsed)
	if err != nil {
		return models.RecoupResult{}, err
	}
	if remaining <= 0 {
		return models.RecoupResult{}, fmt.Errorf("%w: no principal remaining after %d months", ErrInvalidLoanParameters, monthsElapsed)
	}
	if proposal.ClosingCost < 0 {
		return models.RecoupResult{}, fmt.Errorf("%w: closing cost must not be negative, got %.2f", ErrInvalidLoanParameters, proposal.ClosingCost)
	}
	newPayment, err := MonthlyPayment(remaining, proposal.NewRate, proposal.NewTermMonths)
	if err != nil {
		return models.RecoupResult{}, err
	}

	result := models.RecoupResult{
		SimpleBreakEvenMonths:   simpleBreakEven(oldPayment-newPayment, proposal.ClosingCost),
		InterestBreakEvenMonths: interestBreakEven(current, monthsElapsed, remaining, proposal),
	}

	oldInterestRemaining, err := CumulativeInterest(current.Principal, current.AnnualRate, current.TermMonths, monthsElapsed, current.TermMonths)
	if err != nil {
		return models.RecoupResult{}, err
	}
	newInterestTotal, err := CumulativeInterest(remaining, proposal.NewRate, proposal.NewTermMonths, 0, proposal.NewTermMonths)
	if err != nil {
		return models.RecoupResult{}, err
	}
	result.LifetimeInterestDelta = oldInterestRemaining - (proposal.ClosingCost + newInterestTotal)

	return result, nil
}

// simpleBreakEven is the closing cost divided by the monthly savings, rounded
// up to whole months. No savings means no break-even ever occurs.
func simpleBreakEven(monthlySavings, closingCost float64) models.MonthCount {
	if monthlySavings <= 0 {
		return models.NoBreakEven()
	}
	return models.PossibleMonths(int(math.Ceil(closingCost / monthlySavings)))
}

// interestBreakEven finds the first month after refinancing at which interest
// avoided on the old loan covers the closing cost plus interest accrued on the
// new loan. It scans the new loan's life; the old loan stops accruing once its
// original term would have ended.
func interestBreakEven(current models.LoanTerms, monthsElapsed int, remaining float64, proposal models.RefinanceProposal) models.MonthCount {
	oldRate := current.AnnualRate / 12
	newRate := proposal.NewRate / 12

	var oldInterest, newInterest float64
	for m := 1; m <= proposal.NewTermMonths; m++ {
		oldPeriod := monthsElapsed + m - 1
		if oldRate > 0 && oldPeriod < current.TermMonths {
			before, err := RemainingPrincipal(current.Principal, current.AnnualRate, current.TermMonths, oldPeriod)
			if err != nil {
				return models.NoBreakEven()
			}
			oldInterest += before * oldRate
		}
		if newRate > 0 {
			before, err := RemainingPrincipal(remaining, proposal.NewRate, proposal.NewTermMonths, m-1)
			if err != nil {
				return models.NoBreakEven()
			}
			newInterest += before * newRate
		}
		if oldInterest-newInterest >= proposal.ClosingCost {
			return models.PossibleMonths(m)
		}
	}
	return models.NoBreakEven()
}
