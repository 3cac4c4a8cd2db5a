package finance

import (
	"testing"

	"github.com/refiline/refi-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFrontier(t *testing.T, current models.LoanTerms, proposal models.RefinanceProposal) []models.FrontierPoint {
	t.Helper()
	seq, err := GenerateFrontier(current, proposal)
	require.NoError(t, err)
	var points []models.FrontierPoint
	for point := range seq {
		points = append(points, point)
	}
	return points
}

func TestGenerateFrontier_Shape(t *testing.T) {
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 5000}
	points := collectFrontier(t, thirtyYearLoan, proposal)

	// One point per month from 1 to termMonths-1.
	require.Len(t, points, 359)
	for i, point := range points {
		assert.Equal(t, i+1, point.MonthIndex)
		if point.BreakEvenRate.Possible {
			assert.GreaterOrEqual(t, point.BreakEvenRate.Rate, 0.0)
			assert.LessOrEqual(t, point.BreakEvenRate.Rate, thirtyYearLoan.AnnualRate)
		}
	}
}

func TestGenerateFrontier_EarlyMonthsNearCurrentRate(t *testing.T) {
	// At month 1 almost the whole loan is left: the break-even rate sits
	// just under the current rate.
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 5000}
	points := collectFrontier(t, thirtyYearLoan, proposal)

	first := points[0]
	require.True(t, first.BreakEvenRate.Possible)
	assert.Greater(t, first.BreakEvenRate.Rate, thirtyYearLoan.AnnualRate*0.8)
	assert.Less(t, first.BreakEvenRate.Rate, thirtyYearLoan.AnnualRate)
}

func TestGenerateFrontier_LateMonthsNotPossible(t *testing.T) {
	// Near the end of the loan too little interest remains to recover the
	// closing cost at any rate.
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 5000}
	points := collectFrontier(t, thirtyYearLoan, proposal)

	for _, point := range points[349:] {
		assert.False(t, point.BreakEvenRate.Possible, "month %d should have no break-even rate", point.MonthIndex)
	}
}

func TestGenerateFrontier_SolvedRateBalancesInterest(t *testing.T) {
	// Acceptance criterion: at the solved rate, new-loan interest plus
	// closing cost matches the old loan's remaining interest within $0.01.
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 5000}
	seq, err := GenerateFrontier(thirtyYearLoan, proposal)
	require.NoError(t, err)

	checked := 0
	for point := range seq {
		if point.MonthIndex%60 != 0 || !point.BreakEvenRate.Possible {
			continue
		}
		remaining, err := RemainingPrincipal(thirtyYearLoan.Principal, thirtyYearLoan.AnnualRate, thirtyYearLoan.TermMonths, point.MonthIndex)
		require.NoError(t, err)
		oldInterest, err := CumulativeInterest(thirtyYearLoan.Principal, thirtyYearLoan.AnnualRate, thirtyYearLoan.TermMonths, point.MonthIndex, thirtyYearLoan.TermMonths)
		require.NoError(t, err)
		newInterest, err := CumulativeInterest(remaining, point.BreakEvenRate.Rate, proposal.NewTermMonths, 0, proposal.NewTermMonths)
		require.NoError(t, err)

		assert.InDelta(t, oldInterest, newInterest+proposal.ClosingCost, 0.01, "month %d", point.MonthIndex)
		checked++
	}
	assert.Greater(t, checked, 0)
}

func TestGenerateFrontier_ZeroClosingCost(t *testing.T) {
	// With nothing to recover, a break-even rate exists for every month but
	// the last one.
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 0}
	points := collectFrontier(t, thirtyYearLoan, proposal)

	for _, point := range points {
		assert.True(t, point.BreakEvenRate.Possible, "month %d", point.MonthIndex)
	}
}

func TestGenerateFrontier_AbandonEarly(t *testing.T) {
	// The sequence is lazy; breaking out needs no cleanup.
	proposal := models.RefinanceProposal{NewTermMonths: 360, ClosingCost: 5000}
	seq, err := GenerateFrontier(thirtyYearLoan, proposal)
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		if count == 5 {
			break
		}
	}
	assert.Equal(t, 5, count)
}

func TestGenerateFrontier_Idempotent(t *testing.T) {
	proposal := models.RefinanceProposal{NewTermMonths: 180, ClosingCost: 2500}
	first := collectFrontier(t, thirtyYearLoan, proposal)
	second := collectFrontier(t, thirtyYearLoan, proposal)
	assert.Equal(t, first, second)
}

func TestGenerateFrontier_InvalidInputs(t *testing.T) {
	_, err := GenerateFrontier(models.LoanTerms{Principal: 0, AnnualRate: 0.045, TermMonths: 360}, models.RefinanceProposal{NewTermMonths: 360})
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = GenerateFrontier(thirtyYearLoan, models.RefinanceProposal{NewTermMonths: 0})
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = GenerateFrontier(thirtyYearLoan, models.RefinanceProposal{NewTermMonths: 360, ClosingCost: -1})
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}
