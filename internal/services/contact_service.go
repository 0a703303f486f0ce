package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/mail"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ContactRequest is a public contact form submission. Website is a
// honeypot field: real users never see it, so a non-empty value marks a
// bot and the submission is silently dropped.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
	Website string `json:"website" validate:"omitempty,max=0"`
}

// ContactService persists contact form submissions and sends a best-effort
// notification e-mail.
type ContactService struct {
	repo     repositories.ContactRepository
	sender   mail.Sender
	from     string
	to       string
	validate *validator.Validate
}

// NewContactService creates a new ContactService. sender may be nil to
// disable notifications.
func NewContactService(repo repositories.ContactRepository, sender mail.Sender, from, to string) *ContactService {
	return &ContactService{
		repo:     repo,
		sender:   sender,
		from:     from,
		to:       to,
		validate: validator.New(),
	}
}

// Submit validates and stores a submission. Honeypot hits return a nil
// message with no error so the caller can pretend success. The
// notification mail is best effort: a send failure is logged, the
// submission still succeeds.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest, ip, userAgent string) (*models.ContactMessage, error) {
	if req.Website != "" {
		log.Printf("Contact honeypot triggered from %s", ip)
		return nil, nil
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.ContactStatusNew,
		IP:        ip,
		UserAgent: userAgent,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	if s.sender != nil && s.to != "" {
		subject := fmt.Sprintf("New contact message from %s", msg.Name)
		body := fmt.Sprintf("From: %s <%s>\n\n%s\n\nMessage ID: %s", msg.Name, msg.Email, msg.Message, msg.ID)
		if err := s.sender.Send(ctx, s.from, s.to, subject, body); err != nil {
			log.Printf("Contact notification mail failed: %v", err)
		}
	}
	return msg, nil
}

// ListMessages returns messages for the admin view.
func (s *ContactService) ListMessages(ctx context.Context, status string, page, pageSize int) ([]models.ContactMessage, int64, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.List(ctx, status, page, pageSize)
}

// UpdateStatus moves a message to a new status, stamping the matching
// lifecycle timestamp.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*models.ContactMessage, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidContactStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	now := time.Now()
	var readAt, respondedAt *time.Time
	switch status {
	case models.ContactStatusRead:
		readAt = &now
	case models.ContactStatusResolved:
		respondedAt = &now
	}
	return s.repo.UpdateStatus(ctx, id, status, readAt, respondedAt)
}
