package repositories

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
)

// ErrMessageNotFound is returned when a contact message lookup matches
// nothing.
var ErrMessageNotFound = errors.New("contact message not found")

// ContactRepository defines the interface for contact message data access.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	// List returns messages newest first, optionally filtered by status
	// (empty status means all), with 1-based pagination.
	List(ctx context.Context, status string, page, pageSize int) ([]models.ContactMessage, int64, error)
	// UpdateStatus sets the status and optional lifecycle timestamps and
	// returns the updated message.
	UpdateStatus(ctx context.Context, id, status string, readAt, respondedAt *time.Time) (*models.ContactMessage, error)
	GetByID(ctx context.Context, id string) (*models.ContactMessage, error)
}
