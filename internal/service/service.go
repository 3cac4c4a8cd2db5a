package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/refiline/refi-service/internal/config"
	"github.com/refiline/refi-service/internal/models"
	"github.com/refiline/refi-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service handles business logic
type Service struct {
	repo   repository.Store
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo repository.Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userIDFromContext extracts the authenticated user's ID set by the auth middleware
func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// CreateMortgage stores a new mortgage record for the authenticated user
func (s *Service) CreateMortgage(ctx context.Context, name string, terms models.LoanTerms, originationDate time.Time) (*models.Mortgage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if terms.Principal <= 0 {
		return nil, fmt.Errorf("principal must be positive")
	}
	if terms.TermMonths <= 0 {
		return nil, fmt.Errorf("term must be positive")
	}
	if terms.AnnualRate < 0 {
		return nil, fmt.Errorf("annual rate must not be negative")
	}
	if originationDate.After(time.Now()) {
		return nil, fmt.Errorf("origination date must not be in the future")
	}

	mortgage := &models.Mortgage{
		UserID:          userID,
		Name:            name,
		Principal:       terms.Principal,
		AnnualRate:      terms.AnnualRate,
		TermMonths:      terms.TermMonths,
		OriginationDate: originationDate,
	}

	if err := s.repo.CreateMortgage(mortgage); err != nil {
		return nil, err
	}

	s.log.Infof("Mortgage created for user %d: %s", userID, mortgage.Name)
	return mortgage, nil
}

// ListMortgages returns the authenticated user's mortgages
func (s *Service) ListMortgages(ctx context.Context) ([]*models.Mortgage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMortgagesByUser(userID)
}

// GetMortgage returns a mortgage owned by the authenticated user
func (s *Service) GetMortgage(ctx context.Context, id int64) (*models.Mortgage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	mortgage, err := s.repo.FindMortgageByID(id)
	if err != nil {
		return nil, err
	}
	if mortgage.UserID != userID {
		return nil, fmt.Errorf("mortgage does not belong to user")
	}
	return mortgage, nil
}

// DeleteMortgage removes a mortgage owned by the authenticated user
func (s *Service) DeleteMortgage(ctx context.Context, id int64) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMortgage(id, userID); err != nil {
		return err
	}
	s.log.Infof("Mortgage %d deleted by user %d", id, userID)
	return nil
}

// CreateAlertSubscription subscribes the authenticated user to rate alerts
// for one of their mortgages
func (s *Service) CreateAlertSubscription(ctx context.Context, mortgageID int64, newTermMonths int, closingCost float64, maxBreakEvenMonths int) (*models.AlertSubscription, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Verify mortgage belongs to user
	mortgage, err := s.repo.FindMortgageByID(mortgageID)
	if err != nil {
		return nil, err
	}
	if mortgage.UserID != userID {
		return nil, fmt.Errorf("mortgage does not belong to user")
	}

	if newTermMonths <= 0 {
		return nil, fmt.Errorf("new term must be positive")
	}
	if closingCost < 0 {
		return nil, fmt.Errorf("closing cost must not be negative")
	}
	if maxBreakEvenMonths <= 0 {
		return nil, fmt.Errorf("break-even threshold must be positive")
	}

	sub := &models.AlertSubscription{
		UserID:             userID,
		MortgageID:         mortgageID,
		NewTermMonths:      newTermMonths,
		ClosingCost:        closingCost,
		MaxBreakEvenMonths: maxBreakEvenMonths,
	}

	if err := s.repo.CreateAlertSubscription(sub); err != nil {
		return nil, err
	}

	s.log.Infof("Alert subscription created for user %d on mortgage %d", userID, mortgageID)
	return sub, nil
}

// ListAlertSubscriptions returns the authenticated user's alert subscriptions
func (s *Service) ListAlertSubscriptions(ctx context.Context) ([]*models.AlertSubscription, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAlertSubscriptionsByUser(userID)
}

// DeleteAlertSubscription removes an alert subscription owned by the
// authenticated user
func (s *Service) DeleteAlertSubscription(ctx context.Context, id int64) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAlertSubscription(id, userID); err != nil {
		return err
	}
	s.log.Infof("Alert subscription %d deleted by user %d", id, userID)
	return nil
}
