package service

import (
	"context"
	"time"

	"github.com/refiline/refi-service/internal/finance"
	"github.com/refiline/refi-service/internal/models"
)

// AmortizationSchedule returns the full amortization table for a mortgage
// owned by the authenticated user.
func (s *Service) AmortizationSchedule(ctx context.Context, mortgageID int64) ([]models.AmortizationPoint, error) {
	mortgage, err := s.GetMortgage(ctx, mortgageID)
	if err != nil {
		return nil, err
	}
	return finance.Schedule(mortgage.Terms())
}

// AnalyzeRecoup evaluates a refinance proposal against a stored mortgage.
// Months elapsed is derived from the mortgage's origination date.
func (s *Service) AnalyzeRecoup(ctx context.Context, mortgageID int64, proposal models.RefinanceProposal) (models.RecoupResult, error) {
	mortgage, err := s.GetMortgage(ctx, mortgageID)
	if err != nil {
		return models.RecoupResult{}, err
	}

	monthsElapsed := mortgage.MonthsElapsed(time.Now())
	result, err := finance.ComputeRecoup(mortgage.Terms(), monthsElapsed, proposal)
	if err != nil {
		return models.RecoupResult{}, err
	}

	s.log.Infof("Recoup computed for mortgage %d at %d months elapsed", mortgageID, monthsElapsed)
	return result, nil
}

// Frontier computes the efficient frontier curve for a stored mortgage and
// collects it into a slice for serialization.
func (s *Service) Frontier(ctx context.Context, mortgageID int64, newTermMonths int, closingCost float64) ([]models.FrontierPoint, error) {
	mortgage, err := s.GetMortgage(ctx, mortgageID)
	if err != nil {
		return nil, err
	}

	proposal := models.RefinanceProposal{
		NewTermMonths: newTermMonths,
		ClosingCost:   closingCost,
	}
	seq, err := finance.GenerateFrontier(mortgage.Terms(), proposal)
	if err != nil {
		return nil, err
	}

	points := make([]models.FrontierPoint, 0, mortgage.TermMonths-1)
	for point := range seq {
		points = append(points, point)
	}

	s.log.Infof("Frontier computed for mortgage %d: %d points", mortgageID, len(points))
	return points, nil
}
