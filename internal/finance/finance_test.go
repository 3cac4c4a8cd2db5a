package finance

import (
	"testing"

	"github.com/refiline/refi-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment_KnownValue(t *testing.T) {
	payment, err := MonthlyPayment(400000, 0.045, 360)
	require.NoError(t, err)
	assert.InDelta(t, 2026.74, payment, 0.01)
}

func TestMonthlyPayment_ZeroRateIsStraightLine(t *testing.T) {
	payment, err := MonthlyPayment(300000, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, 1000.00, payment)
}

func TestMonthlyPayment_NegativeRateFallsBackToStraightLine(t *testing.T) {
	// Negative rates degrade to the zero-rate formula instead of failing.
	negative, err := MonthlyPayment(120000, -0.03, 120)
	require.NoError(t, err)
	zero, err := MonthlyPayment(120000, 0, 120)
	require.NoError(t, err)
	assert.Equal(t, zero, negative)
}

func TestMonthlyPayment_InvalidParameters(t *testing.T) {
	_, err := MonthlyPayment(0, 0.05, 360)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = MonthlyPayment(-1000, 0.05, 360)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = MonthlyPayment(100000, 0.05, 0)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = MonthlyPayment(100000, 0.05, -12)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}

func TestMonthlyPayment_Idempotent(t *testing.T) {
	first, err := MonthlyPayment(250000, 0.0675, 180)
	require.NoError(t, err)
	second, err := MonthlyPayment(250000, 0.0675, 180)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRemainingPrincipal_Boundaries(t *testing.T) {
	atStart, err := RemainingPrincipal(400000, 0.045, 360, 0)
	require.NoError(t, err)
	assert.InDelta(t, 400000, atStart, 0.01)

	atEnd, err := RemainingPrincipal(400000, 0.045, 360, 360)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atEnd)
}

func TestRemainingPrincipal_KnownValue(t *testing.T) {
	remaining, err := RemainingPrincipal(400000, 0.045, 360, 60)
	require.NoError(t, err)
	assert.InDelta(t, 364631.66, remaining, 1.0)
}

func TestRemainingPrincipal_NonIncreasing(t *testing.T) {
	previous, err := RemainingPrincipal(400000, 0.045, 360, 0)
	require.NoError(t, err)
	for elapsed := 1; elapsed <= 360; elapsed++ {
		remaining, err := RemainingPrincipal(400000, 0.045, 360, elapsed)
		require.NoError(t, err)
		assert.LessOrEqual(t, remaining, previous, "remaining principal rose at month %d", elapsed)
		previous = remaining
	}
}

func TestRemainingPrincipal_ZeroRateStraightLine(t *testing.T) {
	remaining, err := RemainingPrincipal(300000, 0, 300, 150)
	require.NoError(t, err)
	assert.InDelta(t, 150000, remaining, 0.001)
}

func TestRemainingPrincipal_ElapsedOutOfRange(t *testing.T) {
	_, err := RemainingPrincipal(400000, 0.045, 360, -1)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = RemainingPrincipal(400000, 0.045, 360, 361)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}

func TestCumulativeInterest_FullLifeMatchesPayments(t *testing.T) {
	// Total interest equals total payments minus principal.
	payment, err := MonthlyPayment(400000, 0.045, 360)
	require.NoError(t, err)

	total, err := CumulativeInterest(400000, 0.045, 360, 0, 360)
	require.NoError(t, err)
	assert.InDelta(t, payment*360-400000, total, 0.01)
}

func TestCumulativeInterest_SplitsAdd(t *testing.T) {
	full, err := CumulativeInterest(400000, 0.045, 360, 0, 360)
	require.NoError(t, err)
	early, err := CumulativeInterest(400000, 0.045, 360, 0, 60)
	require.NoError(t, err)
	late, err := CumulativeInterest(400000, 0.045, 360, 60, 360)
	require.NoError(t, err)
	assert.InDelta(t, full, early+late, 0.01)
}

func TestCumulativeInterest_ZeroRate(t *testing.T) {
	total, err := CumulativeInterest(300000, 0, 300, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestCumulativeInterest_EmptyRange(t *testing.T) {
	total, err := CumulativeInterest(400000, 0.045, 360, 120, 120)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestCumulativeInterest_InvalidRange(t *testing.T) {
	_, err := CumulativeInterest(400000, 0.045, 360, -1, 360)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = CumulativeInterest(400000, 0.045, 360, 0, 361)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)

	_, err = CumulativeInterest(400000, 0.045, 360, 200, 100)
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}

func TestSchedule(t *testing.T) {
	terms := models.LoanTerms{Principal: 200000, AnnualRate: 0.06, TermMonths: 240}
	points, err := Schedule(terms)
	require.NoError(t, err)
	require.Len(t, points, 240)

	assert.Equal(t, 1, points[0].PeriodIndex)
	assert.Equal(t, 240, points[239].PeriodIndex)
	assert.InDelta(t, 0, points[239].RemainingPrincipal, 0.01)

	// Interest paid to date is non-decreasing, remaining is non-increasing.
	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].InterestPaidToDate, points[i-1].InterestPaidToDate)
		assert.LessOrEqual(t, points[i].RemainingPrincipal, points[i-1].RemainingPrincipal)
	}

	total, err := CumulativeInterest(200000, 0.06, 240, 0, 240)
	require.NoError(t, err)
	assert.InDelta(t, total, points[239].InterestPaidToDate, 0.01)
}

func TestSchedule_InvalidTerms(t *testing.T) {
	_, err := Schedule(models.LoanTerms{Principal: 0, AnnualRate: 0.05, TermMonths: 360})
	assert.ErrorIs(t, err, ErrInvalidLoanParameters)
}
