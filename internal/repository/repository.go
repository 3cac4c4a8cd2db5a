package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/refiline/refi-service/internal/models"
)

// Store is the persistence surface consumed by the service and scheduler
// layers. *Repository is the postgres implementation; tests substitute mocks.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)

	CreateMortgage(mortgage *models.Mortgage) error
	FindMortgageByID(id int64) (*models.Mortgage, error)
	ListMortgagesByUser(userID int64) ([]*models.Mortgage, error)
	DeleteMortgage(id, userID int64) error

	CreateAlertSubscription(sub *models.AlertSubscription) error
	ListAlertSubscriptionsByUser(userID int64) ([]*models.AlertSubscription, error)
	ListActiveAlertSubscriptions() ([]*models.AlertSubscription, error)
	DeleteAlertSubscription(id, userID int64) error
	MarkAlertNotified(id int64, at time.Time) error
}

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO refi.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM refi.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by ID
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM refi.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateMortgage creates a new mortgage record in the database
func (r *Repository) CreateMortgage(mortgage *models.Mortgage) error {
	query := `
		INSERT INTO refi.mortgages (user_id, name, principal, annual_rate, term_months, origination_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, mortgage.UserID, mortgage.Name, mortgage.Principal,
		mortgage.AnnualRate, mortgage.TermMonths, mortgage.OriginationDate).
		Scan(&mortgage.ID, &mortgage.CreatedAt, &mortgage.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mortgage: %w", err)
	}
	return nil
}

// FindMortgageByID retrieves a mortgage by ID
func (r *Repository) FindMortgageByID(id int64) (*models.Mortgage, error) {
	mortgage := &models.Mortgage{}
	query := `
		SELECT id, user_id, name, principal, annual_rate, term_months, origination_date, created_at, updated_at
		FROM refi.mortgages
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&mortgage.ID, &mortgage.UserID, &mortgage.Name, &mortgage.Principal,
			&mortgage.AnnualRate, &mortgage.TermMonths, &mortgage.OriginationDate,
			&mortgage.CreatedAt, &mortgage.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mortgage not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mortgage: %w", err)
	}
	return mortgage, nil
}

// ListMortgagesByUser retrieves all mortgages owned by a user
func (r *Repository) ListMortgagesByUser(userID int64) ([]*models.Mortgage, error) {
	query := `
		SELECT id, user_id, name, principal, annual_rate, term_months, origination_date, created_at, updated_at
		FROM refi.mortgages
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mortgages: %w", err)
	}
	defer rows.Close()

	var mortgages []*models.Mortgage
	for rows.Next() {
		mortgage := &models.Mortgage{}
		if err := rows.Scan(&mortgage.ID, &mortgage.UserID, &mortgage.Name, &mortgage.Principal,
			&mortgage.AnnualRate, &mortgage.TermMonths, &mortgage.OriginationDate,
			&mortgage.CreatedAt, &mortgage.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mortgage: %w", err)
		}
		mortgages = append(mortgages, mortgage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list mortgages: %w", err)
	}
	return mortgages, nil
}

// DeleteMortgage removes a mortgage owned by the given user
func (r *Repository) DeleteMortgage(id, userID int64) error {
	result, err := r.db.Exec(`DELETE FROM refi.mortgages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mortgage: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete mortgage: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mortgage not found")
	}
	return nil
}

// CreateAlertSubscription creates a new alert subscription in the database
func (r *Repository) CreateAlertSubscription(sub *models.AlertSubscription) error {
	query := `
		INSERT INTO refi.alert_subscriptions (user_id, mortgage_id, new_term_months, closing_cost, max_break_even_months, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, active, created_at, updated_at`
	err := r.db.QueryRow(query, sub.UserID, sub.MortgageID, sub.NewTermMonths,
		sub.ClosingCost, sub.MaxBreakEvenMonths).
		Scan(&sub.ID, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert subscription: %w", err)
	}
	return nil
}

// ListAlertSubscriptionsByUser retrieves all alert subscriptions owned by a user
func (r *Repository) ListAlertSubscriptionsByUser(userID int64) ([]*models.AlertSubscription, error) {
	query := `
		SELECT id, user_id, mortgage_id, new_term_months, closing_cost, max_break_even_months, active, last_notified_at, created_at, updated_at
		FROM refi.alert_subscriptions
		WHERE user_id = $1
		ORDER BY id`
	return r.listAlertSubscriptions(query, userID)
}

// ListActiveAlertSubscriptions retrieves every active subscription for the scheduler
func (r *Repository) ListActiveAlertSubscriptions() ([]*models.AlertSubscription, error) {
	query := `
		SELECT id, user_id, mortgage_id, new_term_months, closing_cost, max_break_even_months, active, last_notified_at, created_at, updated_at
		FROM refi.alert_subscriptions
		WHERE active = TRUE
		ORDER BY id`
	return r.listAlertSubscriptions(query)
}

func (r *Repository) listAlertSubscriptions(query string, args ...any) ([]*models.AlertSubscription, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.AlertSubscription
	for rows.Next() {
		sub := &models.AlertSubscription{}
		var lastNotified sql.NullTime
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.MortgageID, &sub.NewTermMonths,
			&sub.ClosingCost, &sub.MaxBreakEvenMonths, &sub.Active, &lastNotified,
			&sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert subscription: %w", err)
		}
		if lastNotified.Valid {
			sub.LastNotifiedAt = &lastNotified.Time
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list alert subscriptions: %w", err)
	}
	return subs, nil
}

// DeleteAlertSubscription removes an alert subscription owned by the given user
func (r *Repository) DeleteAlertSubscription(id, userID int64) error {
	result, err := r.db.Exec(`DELETE FROM refi.alert_subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete alert subscription: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert subscription not found")
	}
	return nil
}

// MarkAlertNotified records when a subscription last fired
func (r *Repository) MarkAlertNotified(id int64, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE refi.alert_subscriptions
		SET last_notified_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark alert notified: %w", err)
	}
	return nil
}
