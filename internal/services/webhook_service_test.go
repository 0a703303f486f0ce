package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func paidSession() *payments.Session {
	return &payments.Session{
		ID:              "sess_abc",
		Currency:        "USD",
		AmountTotal:     5000,
		Paid:            true,
		CustomerEmail:   "buyer@example.com",
		PaymentIntentID: "pi_123",
		Metadata: map[string]string{
			"name":    "Taro Yamada",
			"phone":   "+81-80-1111-2222",
			"address": "4-5-6 Umeda, Osaka",
		},
		Lines: []payments.SessionLine{
			{Description: "Lavender Soap", Quantity: 2, UnitAmount: 2500, AmountTotal: 5000},
		},
	}
}

func TestWebhookCompletedSessionCreatesPaidOrder(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	events := new(MockEventPublisher)
	service := services.NewWebhookService(orderRepo, provider, events)

	payload := []byte(`{"type":"checkout.session.completed"}`)
	provider.On("VerifyEvent", payload, "sig").
		Return(&payments.Event{Type: payments.EventCheckoutCompleted, SessionID: "sess_abc"}, nil).
		Once()
	provider.On("GetSession", mock.Anything, "sess_abc").
		Return(paidSession(), nil).
		Once()
	events.On("Publish", "order.paid", mock.Anything).Return(nil).Once()

	order, err := service.HandleEvent(context.Background(), payload, "sig")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, "sess_abc", order.StripeSessionID)
	assert.Equal(t, "pi_123", order.PaymentIntentID)
	assert.Equal(t, int64(5000), order.TotalCents)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "Taro Yamada", order.Name)
	assert.Equal(t, "buyer@example.com", order.Email)
	assert.Equal(t, "+81-80-1111-2222", order.Phone)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, int64(2500), order.Items[0].PriceCents)
	assert.Equal(t, int64(2), order.Items[0].Quantity)
	assert.Equal(t, int64(5000), order.Items[0].LineTotalCents)

	provider.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestWebhookUnpaidSessionStaysPending(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	service := services.NewWebhookService(orderRepo, provider, nil)

	session := paidSession()
	session.Paid = false

	payload := []byte(`{}`)
	provider.On("VerifyEvent", payload, "sig").
		Return(&payments.Event{Type: payments.EventCheckoutCompleted, SessionID: "sess_abc"}, nil).
		Once()
	provider.On("GetSession", mock.Anything, "sess_abc").Return(session, nil).Once()

	order, err := service.HandleEvent(context.Background(), payload, "sig")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	service := services.NewWebhookService(orderRepo, provider, nil)

	payload := []byte(`{}`)
	provider.On("VerifyEvent", payload, "sig").
		Return(&payments.Event{Type: payments.EventCheckoutCompleted, SessionID: "sess_abc"}, nil).
		Twice()
	provider.On("GetSession", mock.Anything, "sess_abc").
		Return(paidSession(), nil).
		Twice()

	first, err := service.HandleEvent(context.Background(), payload, "sig")
	assert.NoError(t, err)
	second, err := service.HandleEvent(context.Background(), payload, "sig")
	assert.NoError(t, err)

	// The second delivery lands on the same order, not a duplicate.
	assert.Equal(t, first.ID, second.ID)
	orders, err := orderRepo.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestWebhookOutOfOrderDeliveryLastWriteWins(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	service := services.NewWebhookService(orderRepo, provider, nil)

	pending := paidSession()
	pending.Paid = false
	paid := paidSession()

	payload := []byte(`{}`)
	provider.On("VerifyEvent", payload, "sig").
		Return(&payments.Event{Type: payments.EventCheckoutCompleted, SessionID: "sess_abc"}, nil).
		Twice()
	provider.On("GetSession", mock.Anything, "sess_abc").Return(pending, nil).Once()
	provider.On("GetSession", mock.Anything, "sess_abc").Return(paid, nil).Once()

	first, err := service.HandleEvent(context.Background(), payload, "sig")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	second, err := service.HandleEvent(context.Background(), payload, "sig")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaid, second.Status)
	assert.Equal(t, first.ID, second.ID)
}

func TestWebhookInvalidSignature(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	service := services.NewWebhookService(orderRepo, provider, nil)

	payload := []byte(`{}`)
	provider.On("VerifyEvent", payload, "bad-sig").
		Return(nil, payments.ErrInvalidSignature).
		Once()

	_, err := service.HandleEvent(context.Background(), payload, "bad-sig")

	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	provider.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	orders, repoErr := orderRepo.GetAll(context.Background())
	assert.NoError(t, repoErr)
	assert.Empty(t, orders)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	provider := new(MockPaymentProvider)
	service := services.NewWebhookService(orderRepo, provider, nil)

	payload := []byte(`{}`)
	provider.On("VerifyEvent", payload, "sig").
		Return(&payments.Event{Type: "payment_intent.succeeded", SessionID: "sess_abc"}, nil).
		Once()

	order, err := service.HandleEvent(context.Background(), payload, "sig")

	assert.NoError(t, err)
	assert.Nil(t, order)
	provider.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	orders, repoErr := orderRepo.GetAll(context.Background())
	assert.NoError(t, repoErr)
	assert.Empty(t, orders)
}

func TestWebhookDerivesMissingUnitAmount(t *testing.T) {
	cases := []struct {
		name      string
		line      payments.SessionLine
		wantUnit  int64
		wantTotal int64
	}{
		{
			name:      "derived from line total",
			line:      payments.SessionLine{Quantity: 2, AmountTotal: 2999},
			wantUnit:  1500,
			wantTotal: 2999,
		},
		{
			name:      "derived from subtotal",
			line:      payments.SessionLine{Quantity: 3, AmountSubtotal: 3000},
			wantUnit:  1000,
			wantTotal: 3000,
		},
		{
			name:      "nothing to derive from",
			line:      payments.SessionLine{Quantity: 2},
			wantUnit:  0,
			wantTotal: 0,
		},
		{
			name:      "zero quantity treated as one",
			line:      payments.SessionLine{Quantity: 0, AmountTotal: 700},
			wantUnit:  700,
			wantTotal: 700,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := repositories.NewMockOrderRepository()
			provider := new(MockPaymentProvider)
			service := services.NewWebhookService(orderRepo, provider, nil)

			session := paidSession()
			session.Lines = []payments.SessionLine{tc.line}

			payload := []byte(`{}`)
			provider.On("VerifyEvent", payload, "sig").
				Return(&payments.Event{Type: payments.EventCheckoutCompleted, SessionID: "sess_abc"}, nil).
				Once()
			provider.On("GetSession", mock.Anything, "sess_abc").Return(session, nil).Once()

			order, err := service.HandleEvent(context.Background(), payload, "sig")

			assert.NoError(t, err)
			assert.Len(t, order.Items, 1)
			assert.Equal(t, tc.wantUnit, order.Items[0].PriceCents)
			assert.Equal(t, tc.wantTotal, order.Items[0].LineTotalCents)
			// An unnamed provider line still gets a display name.
			assert.Equal(t, "Item", order.Items[0].Name)
		})
	}
}
