package finance

import (
	"fmt"
	"iter"

	"github.com/refiline/refi-service/internal/models"
)

const (
	// frontierRateCeiling bounds the bisection domain. A break-even rate
	// above 25% annual is outside any plausible refinance market.
	frontierRateCeiling = 0.25

	// frontierTolerance is the acceptable gap, in currency units, between
	// the new loan's total interest at the solved rate and the target.
	frontierTolerance = 0.005

	frontierMaxIterations = 200
)

// GenerateFrontier produces the efficient frontier curve: for each month of
// the current loan's life from 1 to termMonths-1, the maximum new rate at
// which refinancing the then-remaining principal into the proposal's term
// would still reduce total lifetime interest after closing costs.
//
// The sequence is lazy; each point runs one bisection root-find when reached.
// Abandoning the range early needs no cleanup. Months where no rate in
// [0, 0.25] balances the equation yield a not-possible point, which happens
// near the end of the loan when too little interest remains to recover the
// closing cost.
func GenerateFrontier(current models.LoanTerms, proposal models.RefinanceProposal) (iter.Seq[models.FrontierPoint], error) {
	if _, err := MonthlyPayment(current.Principal, current.AnnualRate, current.TermMonths); err != nil {
		return nil, err
	}
	if proposal.NewTermMonths <= 0 {
		return nil, fmt.Errorf("%w: new term must be positive, got %d months", ErrInvalidLoanParameters, proposal.NewTermMonths)
	}
	if proposal.ClosingCost < 0 {
		return nil, fmt.Errorf("%w: closing cost must not be negative, got %.2f", ErrInvalidLoanParameters, proposal.ClosingCost)
	}

	seq := func(yield func(models.FrontierPoint) bool) {
		for month := 1; month < current.TermMonths; month++ {
			point := models.FrontierPoint{
				MonthIndex:    month,
				BreakEvenRate: frontierRate(current, month, proposal),
			}
			if !yield(point) {
				return
			}
		}
	}
	return seq, nil
}

// frontierRate solves for the rate at which refinancing at the given month
// exactly breaks even on lifetime interest.
func frontierRate(current models.LoanTerms, month int, proposal models.RefinanceProposal) models.RateValue {
	remaining, err := RemainingPrincipal(current.Principal, current.AnnualRate, current.TermMonths, month)
	if err != nil || remaining <= 0 {
		return models.NoRate()
	}
	oldInterestRemaining, err := CumulativeInterest(current.Principal, current.AnnualRate, current.TermMonths, month, current.TermMonths)
	if err != nil {
		return models.NoRate()
	}

	// Interest budget the new loan may consume before the refinance stops
	// paying for itself. Negative means even a free loan loses to the
	// closing cost.
	target := oldInterestRemaining - proposal.ClosingCost
	if target < 0 {
		return models.NoRate()
	}
	if target == 0 {
		return models.PossibleRate(0)
	}

	interestAt := func(rate float64) float64 {
		total, err := CumulativeInterest(remaining, rate, proposal.NewTermMonths, 0, proposal.NewTermMonths)
		if err != nil {
			return 0
		}
		return total
	}

	// Total interest is monotonically increasing in rate, so a unique root
	// exists iff the target falls inside [interestAt(0), interestAt(ceiling)].
	if interestAt(frontierRateCeiling) < target {
		return models.NoRate()
	}

	lo, hi := 0.0, frontierRateCeiling
	for i := 0; i < frontierMaxIterations; i++ {
		mid := (lo + hi) / 2
		gap := interestAt(mid) - target
		if gap > -frontierTolerance && gap < frontierTolerance {
			return models.PossibleRate(mid)
		}
		if gap < 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12 {
			break
		}
	}
	return models.PossibleRate((lo + hi) / 2)
}
