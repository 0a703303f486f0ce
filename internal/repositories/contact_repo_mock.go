package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockContactRepository is an in-memory implementation of
// ContactRepository.
type MockContactRepository struct {
	messages map[string]models.ContactMessage
	mu       sync.RWMutex
}

// NewMockContactRepository creates a new instance of
// MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		messages: make(map[string]models.ContactMessage),
	}
}

// Create stores a new contact message.
func (r *MockContactRepository) Create(_ context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	r.messages[msg.ID] = *msg
	return nil
}

// List returns messages newest first, optionally filtered by status.
func (r *MockContactRepository) List(_ context.Context, status string, page, pageSize int) ([]models.ContactMessage, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.ContactMessage
	for _, msg := range r.messages {
		if status == "" || msg.Status == status {
			all = append(all, msg)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.ContactMessage{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// UpdateStatus sets the status and lifecycle timestamps of a message.
func (r *MockContactRepository) UpdateStatus(_ context.Context, id, status string, readAt, respondedAt *time.Time) (*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	msg.Status = status
	if readAt != nil {
		msg.ReadAt = readAt
	}
	if respondedAt != nil {
		msg.RespondedAt = respondedAt
	}
	msg.UpdatedAt = time.Now()
	r.messages[id] = msg
	return &msg, nil
}

// GetByID returns a contact message by its ID.
func (r *MockContactRepository) GetByID(_ context.Context, id string) (*models.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return &msg, nil
}
