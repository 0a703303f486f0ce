package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrOrderNotFound is returned when an order lookup matches nothing.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// UpsertBySessionID atomically inserts or overwrites the order keyed
	// on the provider session id and returns the resulting record. This
	// must be a single conditional write, not a read-then-write: webhook
	// redeliveries arrive concurrently and must not create duplicates.
	UpsertBySessionID(ctx context.Context, sessionID string, order *models.Order) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}
