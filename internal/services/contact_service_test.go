package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockContactRepository is a mock implementation of repositories.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.ContactMessage, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]models.ContactMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id, status string, readAt, respondedAt *time.Time) (*models.ContactMessage, error) {
	args := m.Called(ctx, id, status, readAt, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

// MockMailSender is a mock implementation of mail.Sender.
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, from, to, subject, body string) error {
	args := m.Called(ctx, from, to, subject, body)
	return args.Error(0)
}

func validContactRequest() services.ContactRequest {
	return services.ContactRequest{
		Name:    "  Hanako Tanaka ",
		Email:   "Hanako@Example.com",
		Message: "Do you ship to Hokkaido?",
	}
}

func TestContactServiceSubmit(t *testing.T) {
	repo := new(MockContactRepository)
	sender := new(MockMailSender)
	service := services.NewContactService(repo, sender, "noreply@example.com", "owner@example.com")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	sender.On("Send", mock.Anything, "noreply@example.com", "owner@example.com", mock.Anything, mock.Anything).
		Return(nil).Once()

	msg, err := service.Submit(context.Background(), validContactRequest(), "203.0.113.9", "test-agent")

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, "Hanako Tanaka", msg.Name)
	assert.Equal(t, "hanako@example.com", msg.Email)
	assert.Equal(t, models.ContactStatusNew, msg.Status)
	assert.Equal(t, "203.0.113.9", msg.IP)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestContactServiceSubmitHoneypot(t *testing.T) {
	repo := new(MockContactRepository)
	sender := new(MockMailSender)
	service := services.NewContactService(repo, sender, "noreply@example.com", "owner@example.com")

	req := validContactRequest()
	req.Website = "https://spam.example.com"

	msg, err := service.Submit(context.Background(), req, "203.0.113.9", "bot")

	// Bots get a silent success: nothing stored, nothing mailed.
	assert.NoError(t, err)
	assert.Nil(t, msg)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactServiceSubmitValidation(t *testing.T) {
	repo := new(MockContactRepository)
	service := services.NewContactService(repo, nil, "", "")

	req := validContactRequest()
	req.Email = "not-an-email"
	_, err := service.Submit(context.Background(), req, "", "")
	assert.Error(t, err)

	req = validContactRequest()
	req.Message = "hi"
	_, err = service.Submit(context.Background(), req, "", "")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactServiceSubmitMailFailureStillSucceeds(t *testing.T) {
	repo := new(MockContactRepository)
	sender := new(MockMailSender)
	service := services.NewContactService(repo, sender, "noreply@example.com", "owner@example.com")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("sendgrid: 503")).Once()

	msg, err := service.Submit(context.Background(), validContactRequest(), "", "")

	assert.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestContactServiceUpdateStatusStampsTimestamps(t *testing.T) {
	repo := new(MockContactRepository)
	service := services.NewContactService(repo, nil, "", "")

	repo.On("UpdateStatus", mock.Anything, "m1", models.ContactStatusRead,
		mock.MatchedBy(func(ts *time.Time) bool { return ts != nil }), (*time.Time)(nil)).
		Return(&models.ContactMessage{ID: "m1", Status: models.ContactStatusRead}, nil).Once()

	msg, err := service.UpdateStatus(context.Background(), "m1", "READ")
	assert.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, msg.Status)

	repo.On("UpdateStatus", mock.Anything, "m1", models.ContactStatusResolved,
		(*time.Time)(nil), mock.MatchedBy(func(ts *time.Time) bool { return ts != nil })).
		Return(&models.ContactMessage{ID: "m1", Status: models.ContactStatusResolved}, nil).Once()

	msg, err = service.UpdateStatus(context.Background(), "m1", "resolved")
	assert.NoError(t, err)
	assert.Equal(t, models.ContactStatusResolved, msg.Status)
	repo.AssertExpectations(t)
}

func TestContactServiceUpdateStatusRejectsUnknown(t *testing.T) {
	repo := new(MockContactRepository)
	service := services.NewContactService(repo, nil, "", "")

	_, err := service.UpdateStatus(context.Background(), "m1", "archived")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactServiceListClampsPageSize(t *testing.T) {
	repo := new(MockContactRepository)
	service := services.NewContactService(repo, nil, "", "")

	repo.On("List", mock.Anything, "", 1, 20).
		Return([]models.ContactMessage{}, int64(0), nil).Once()
	_, _, err := service.ListMessages(context.Background(), "", 1, 0)
	assert.NoError(t, err)

	repo.On("List", mock.Anything, "new", 2, 100).
		Return([]models.ContactMessage{}, int64(0), nil).Once()
	_, _, err = service.ListMessages(context.Background(), "new", 2, 500)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
