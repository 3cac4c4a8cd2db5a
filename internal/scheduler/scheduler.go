package scheduler

import (
	"time"

	"github.com/refiline/refi-service/internal/finance"
	"github.com/refiline/refi-service/internal/models"
	"github.com/refiline/refi-service/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// notifyCooldown keeps a subscription from re-firing every run while the
// market rate stays favorable.
const notifyCooldown = 7 * 24 * time.Hour

// RateSource supplies the prevailing market rate as a ratio.
type RateSource interface {
	CurrentRate() (float64, error)
}

// AlertMailer delivers refinance alert notifications.
type AlertMailer interface {
	SendRefinanceAlert(to, username, mortgageName string, marketRate, monthlySavings float64, breakEvenMonths int) error
}

// Scheduler runs the background rate check: fetch the market rate, evaluate
// every active alert subscription against it, and notify subscribers whose
// break-even threshold is met.
type Scheduler struct {
	repo   repository.Store
	rates  RateSource
	mailer AlertMailer
	log    *logrus.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewScheduler initializes a new scheduler
func NewScheduler(repo repository.Store, rates RateSource, mailer AlertMailer, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		rates:  rates,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// Start registers the rate check on the given cron spec and starts the cron
// loop.
func (s *Scheduler) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Infof("Alert scheduler started with spec %q", spec)
	return nil
}

// Stop halts the cron loop and waits for a running check to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce performs a single rate check over all active subscriptions.
func (s *Scheduler) RunOnce() {
	marketRate, err := s.rates.CurrentRate()
	if err != nil {
		s.log.Errorf("Failed to fetch market rate: %v", err)
		return
	}

	subs, err := s.repo.ListActiveAlertSubscriptions()
	if err != nil {
		s.log.Errorf("Failed to list alert subscriptions: %v", err)
		return
	}

	notified := 0
	for _, sub := range subs {
		if s.evaluate(sub, marketRate) {
			notified++
		}
	}
	s.log.Infof("Rate check complete: rate %.4f, %d subscriptions, %d notified", marketRate, len(subs), notified)
}

// evaluate checks one subscription against the market rate and notifies the
// owner when the simple break-even lands within their threshold. Returns
// whether a notification was sent.
func (s *Scheduler) evaluate(sub *models.AlertSubscription, marketRate float64) bool {
	now := s.now()
	if sub.LastNotifiedAt != nil && now.Sub(*sub.LastNotifiedAt) < notifyCooldown {
		return false
	}

	mortgage, err := s.repo.FindMortgageByID(sub.MortgageID)
	if err != nil {
		s.log.Errorf("Failed to load mortgage %d for subscription %d: %v", sub.MortgageID, sub.ID, err)
		return false
	}

	monthsElapsed := mortgage.MonthsElapsed(now)
	if monthsElapsed >= mortgage.TermMonths {
		return false
	}

	result, err := finance.ComputeRecoup(mortgage.Terms(), monthsElapsed, sub.Proposal(marketRate))
	if err != nil {
		s.log.Errorf("Failed to compute recoup for subscription %d: %v", sub.ID, err)
		return false
	}
	breakEven := result.SimpleBreakEvenMonths
	if !breakEven.Possible || breakEven.Months > sub.MaxBreakEvenMonths {
		return false
	}

	user, err := s.repo.FindUserByID(sub.UserID)
	if err != nil {
		s.log.Errorf("Failed to load user %d for subscription %d: %v", sub.UserID, sub.ID, err)
		return false
	}

	savings, err := s.monthlySavings(mortgage, monthsElapsed, sub.Proposal(marketRate))
	if err != nil {
		s.log.Errorf("Failed to compute savings for subscription %d: %v", sub.ID, err)
		return false
	}

	if err := s.mailer.SendRefinanceAlert(user.Email, user.Username, mortgage.Name, marketRate, savings, breakEven.Months); err != nil {
		return false
	}
	if err := s.repo.MarkAlertNotified(sub.ID, now); err != nil {
		s.log.Errorf("Failed to mark subscription %d notified: %v", sub.ID, err)
	}
	return true
}

func (s *Scheduler) monthlySavings(mortgage *models.Mortgage, monthsElapsed int, proposal models.RefinanceProposal) (float64, error) {
	oldPayment, err := finance.MonthlyPayment(mortgage.Principal, mortgage.AnnualRate, mortgage.TermMonths)
	if err != nil {
		return 0, err
	}
	remaining, err := finance.RemainingPrincipal(mortgage.Principal, mortgage.AnnualRate, mortgage.TermMonths, monthsElapsed)
	if err != nil {
		return 0, err
	}
	newPayment, err := finance.MonthlyPayment(remaining, proposal.NewRate, proposal.NewTermMonths)
	if err != nil {
		return 0, err
	}
	return oldPayment - newPayment, nil
}
