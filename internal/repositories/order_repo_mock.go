package repositories

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// The session-id upsert is protected by the same mutex as everything else,
// so it is atomic the way the Mongo unique index makes the real one.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// GetBySessionID returns the order correlated with a provider session id.
func (r *MockOrderRepository) GetBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.StripeSessionID == sessionID {
			o := order
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// UpsertBySessionID inserts or overwrites the order keyed on the provider
// session id.
func (r *MockOrderRepository) UpsertBySessionID(_ context.Context, sessionID string, order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, existing := range r.orders {
		if existing.StripeSessionID == sessionID {
			updated := *order
			updated.ID = id
			updated.StripeSessionID = sessionID
			updated.CreatedAt = existing.CreatedAt
			updated.UpdatedAt = now
			r.orders[id] = updated
			return &updated, nil
		}
	}

	created := *order
	created.ID = uuid.New().String()
	created.StripeSessionID = sessionID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.orders[created.ID] = created
	return &created, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
