package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/refiline/refi-service/internal/models"
)

// MockStore is an in-memory Store used in tests and local development.
type MockStore struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*models.User
	mortgages map[int64]*models.Mortgage
	alerts    map[int64]*models.AlertSubscription
}

// NewMockStore initializes an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{
		nextID:    1,
		users:     make(map[int64]*models.User),
		mortgages: make(map[int64]*models.Mortgage),
		alerts:    make(map[int64]*models.AlertSubscription),
	}
}

func (m *MockStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// CreateUser stores a new user
func (m *MockStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return fmt.Errorf("failed to create user: email taken")
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// FindUserByEmail retrieves a user by email
func (m *MockStore) FindUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

// FindUserByID retrieves a user by ID
func (m *MockStore) FindUserByID(id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

// CreateMortgage stores a new mortgage
func (m *MockStore) CreateMortgage(mortgage *models.Mortgage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mortgage.ID = m.id()
	mortgage.CreatedAt = time.Now()
	mortgage.UpdatedAt = mortgage.CreatedAt
	copied := *mortgage
	m.mortgages[mortgage.ID] = &copied
	return nil
}

// FindMortgageByID retrieves a mortgage by ID
func (m *MockStore) FindMortgageByID(id int64) (*models.Mortgage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mortgage, ok := m.mortgages[id]
	if !ok {
		return nil, fmt.Errorf("mortgage not found")
	}
	copied := *mortgage
	return &copied, nil
}

// ListMortgagesByUser retrieves all mortgages owned by a user
func (m *MockStore) ListMortgagesByUser(userID int64) ([]*models.Mortgage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mortgages []*models.Mortgage
	for id := int64(1); id < m.nextID; id++ {
		if mortgage, ok := m.mortgages[id]; ok && mortgage.UserID == userID {
			copied := *mortgage
			mortgages = append(mortgages, &copied)
		}
	}
	return mortgages, nil
}

// DeleteMortgage removes a mortgage owned by the given user
func (m *MockStore) DeleteMortgage(id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mortgage, ok := m.mortgages[id]
	if !ok || mortgage.UserID != userID {
		return fmt.Errorf("mortgage not found")
	}
	delete(m.mortgages, id)
	return nil
}

// CreateAlertSubscription stores a new alert subscription
func (m *MockStore) CreateAlertSubscription(sub *models.AlertSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub.ID = m.id()
	sub.Active = true
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	copied := *sub
	m.alerts[sub.ID] = &copied
	return nil
}

// ListAlertSubscriptionsByUser retrieves all alert subscriptions owned by a user
func (m *MockStore) ListAlertSubscriptionsByUser(userID int64) ([]*models.AlertSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var subs []*models.AlertSubscription
	for id := int64(1); id < m.nextID; id++ {
		if sub, ok := m.alerts[id]; ok && sub.UserID == userID {
			copied := *sub
			subs = append(subs, &copied)
		}
	}
	return subs, nil
}

// ListActiveAlertSubscriptions retrieves every active subscription
func (m *MockStore) ListActiveAlertSubscriptions() ([]*models.AlertSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var subs []*models.AlertSubscription
	for id := int64(1); id < m.nextID; id++ {
		if sub, ok := m.alerts[id]; ok && sub.Active {
			copied := *sub
			subs = append(subs, &copied)
		}
	}
	return subs, nil
}

// DeleteAlertSubscription removes an alert subscription owned by the given user
func (m *MockStore) DeleteAlertSubscription(id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.alerts[id]
	if !ok || sub.UserID != userID {
		return fmt.Errorf("alert subscription not found")
	}
	delete(m.alerts, id)
	return nil
}

// MarkAlertNotified records when a subscription last fired
func (m *MockStore) MarkAlertNotified(id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.alerts[id]
	if !ok {
		return fmt.Errorf("alert subscription not found")
	}
	sub.LastNotifiedAt = &at
	sub.UpdatedAt = at
	return nil
}
