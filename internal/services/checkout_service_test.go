package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentProvider is a mock implementation of payments.Provider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateSession(ctx context.Context, params payments.CreateSessionParams) (*payments.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

func (m *MockPaymentProvider) GetSession(ctx context.Context, id string) (*payments.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

func (m *MockPaymentProvider) VerifyEvent(payload []byte, sigHeader string) (*payments.Event, error) {
	args := m.Called(payload, sigHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Event), args.Error(1)
}

func testCheckoutConfig() services.CheckoutConfig {
	return services.CheckoutConfig{
		ClientURL:           "http://localhost:3000",
		DefaultCurrency:     "JPY",
		SupportedCurrencies: []string{"JPY", "USD", "EUR"},
		ProviderTimeout:     5 * time.Second,
	}
}

func seedCheckoutCatalog(t *testing.T, repo *repositories.MockProductRepository) {
	t.Helper()
	products := []models.Product{
		{
			ID:       "soap-1",
			Name:     "Lavender Soap",
			Category: "soap",
			ImageSrc: "/img/soap-1.jpg",
			Prices:   map[string]int64{"JPY": 1200, "USD": 899},
		},
		{
			ID:         "soap-2",
			Name:       "Charcoal Soap",
			Category:   "soap",
			PriceCents: int64Ptr(950),
		},
	}
	for i := range products {
		assert.NoError(t, repo.Create(context.Background(), &products[i]))
	}
}

func TestCheckoutCreateSession(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	var captured payments.CreateSessionParams
	provider.On("CreateSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(payments.CreateSessionParams)
		}).
		Return(&payments.Session{ID: "cs_test_1", RedirectURL: "https://pay.example.com/cs_test_1"}, nil).
		Once()

	session, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items: []models.CartLine{
			{ProductID: "soap-1", Quantity: 2},
			{ProductID: "soap-2", Quantity: 1},
		},
		Currency: "JPY",
		Customer: models.BuyerInfo{
			Name:    "Hanako Tanaka",
			Email:   "hanako@example.com",
			Phone:   "+81-90-0000-0000",
			Address: "1-2-3 Ginza, Tokyo",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, "https://pay.example.com/cs_test_1", session.RedirectURL)
	assert.Equal(t, "JPY", session.Currency)
	assert.Equal(t, int64(1200*2+950), session.TotalCents)
	assert.Len(t, session.Items, 2)
	assert.Equal(t, int64(1200), session.Items[0].PriceCents)
	assert.Equal(t, int64(2400), session.Items[0].LineTotalCents)

	// The rendered total always equals the sum of the line totals.
	var sum int64
	for _, item := range session.Items {
		sum += item.LineTotalCents
	}
	assert.Equal(t, session.TotalCents, sum)

	// What went to the provider: resolved prices, contact metadata, and
	// the configured redirect URLs.
	assert.Equal(t, "JPY", captured.Currency)
	assert.Equal(t, "hanako@example.com", captured.CustomerEmail)
	assert.Equal(t, "http://localhost:3000/success", captured.SuccessURL)
	assert.Equal(t, "http://localhost:3000/checkout", captured.CancelURL)
	assert.Equal(t, "Hanako Tanaka", captured.Metadata["name"])
	assert.Equal(t, "1-2-3 Ginza, Tokyo", captured.Metadata["address"])
	assert.Len(t, captured.Lines, 2)
	assert.Equal(t, int64(1200), captured.Lines[0].UnitAmount)
	assert.Equal(t, int64(2), captured.Lines[0].Quantity)

	provider.AssertExpectations(t)
}

func TestCheckoutCreateSessionEmptyCart(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.ErrorIs(t, err, services.ErrEmptyCart)
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckoutCreateSessionUnsupportedCurrency(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items:    []models.CartLine{{ProductID: "soap-1", Quantity: 1}},
		Currency: "XYZ",
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.ErrorIs(t, err, services.ErrUnsupportedCurrency)
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckoutCreateSessionDefaultCurrency(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	provider.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payments.Session{ID: "cs_test_2", RedirectURL: "https://pay.example.com/cs_test_2"}, nil).
		Once()

	session, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items:    []models.CartLine{{ProductID: "soap-1", Quantity: 1}},
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "JPY", session.Currency)
	provider.AssertExpectations(t)
}

func TestCheckoutCreateSessionUnknownItemFailsWholeCart(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	// One resolvable line plus one unknown id: the whole request fails
	// and nothing reaches the provider.
	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items: []models.CartLine{
			{ProductID: "soap-1", Quantity: 1},
			{ProductID: "no-such-product", Quantity: 1},
		},
		Currency: "JPY",
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.ErrorIs(t, err, services.ErrUnknownItem)
	assert.Contains(t, err.Error(), "no-such-product")
	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckoutCreateSessionClampsQuantity(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	provider.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payments.Session{ID: "cs_test_3"}, nil).
		Once()

	session, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items:    []models.CartLine{{ProductID: "soap-1", Quantity: 0}},
		Currency: "JPY",
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), session.Items[0].Quantity)
	assert.Equal(t, int64(1200), session.TotalCents)
}

func TestCheckoutCreateSessionProviderFailure(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	seedCheckoutCatalog(t, productRepo)
	provider := new(MockPaymentProvider)
	service := services.NewCheckoutService(productRepo, provider, testCheckoutConfig())

	provider.On("CreateSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("stripe: connection refused")).
		Once()

	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		Items:    []models.CartLine{{ProductID: "soap-1", Quantity: 1}},
		Currency: "JPY",
		Customer: models.BuyerInfo{Name: "Hanako"},
	})

	assert.ErrorIs(t, err, services.ErrSessionCreationFailed)
	provider.AssertExpectations(t)
}
