package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CheckoutRequest is what a client may submit: item references and buyer
// contact details. There is deliberately no price field anywhere in the
// request; unit amounts and totals are always recomputed from the catalog.
type CheckoutRequest struct {
	Items    []models.CartLine `json:"items" validate:"dive"`
	Currency string            `json:"currency"`
	Customer models.BuyerInfo  `json:"customer" validate:"required"`
}

// CheckoutConfig carries the process-wide checkout settings.
type CheckoutConfig struct {
	ClientURL           string
	DefaultCurrency     string
	SupportedCurrencies []string
	ProviderTimeout     time.Duration
}

// resolveCurrency applies the configured default and enforces the closed
// allow-list of supported currencies. Both checkout and direct order
// placement price against it.
func (c CheckoutConfig) resolveCurrency(requested string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(requested))
	if currency == "" {
		currency = c.DefaultCurrency
	}
	for _, supported := range c.SupportedCurrencies {
		if currency == supported {
			return currency, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
}

// CheckoutService turns a cart into a hosted checkout session with the
// payment provider.
type CheckoutService struct {
	productRepo repositories.ProductRepository
	provider    payments.Provider
	cfg         CheckoutConfig
	validate    *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(productRepo repositories.ProductRepository, provider payments.Provider, cfg CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		provider:    provider,
		cfg:         cfg,
		validate:    validator.New(),
	}
}

// CreateSession resolves prices for every cart line, asks the provider to
// mint a hosted checkout session, and returns the session with its
// redirect URL. The whole request fails atomically: no session is created
// unless every line resolves.
func (s *CheckoutService) CreateSession(ctx context.Context, req CheckoutRequest) (*models.CheckoutSession, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	currency, err := s.cfg.resolveCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	// One batched catalog read covers every line.
	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, line := range req.Items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	if len(byID) < len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, strings.Join(missing, ", "))
	}

	var (
		items        []models.LineItem
		providerLine []payments.SessionLine
		totalCents   int64
	)
	for _, line := range req.Items {
		product := byID[line.ProductID]
		unit, err := ResolveUnitAmount(&product, currency)
		if err != nil {
			return nil, err
		}
		qty := line.Quantity.Normalize()
		lineTotal := unit.Mul(qty)

		items = append(items, models.LineItem{
			ProductID:      product.ID,
			Name:           product.Name,
			ImageSrc:       product.ImageSrc,
			PriceCents:     unit.AmountMinor,
			Quantity:       qty,
			LineTotalCents: lineTotal.AmountMinor,
		})
		providerLine = append(providerLine, payments.SessionLine{
			Description: product.Name,
			Quantity:    qty,
			UnitAmount:  unit.AmountMinor,
		})
		totalCents += lineTotal.AmountMinor
	}

	// Buyer contact details ride along as opaque metadata; the
	// reconciler reads them back off the completed session.
	metadata := map[string]string{
		"name":    req.Customer.Name,
		"phone":   req.Customer.Phone,
		"address": req.Customer.Address,
	}

	providerCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()
	session, err := s.provider.CreateSession(providerCtx, payments.CreateSessionParams{
		Currency:      currency,
		Lines:         providerLine,
		CustomerEmail: req.Customer.Email,
		SuccessURL:    s.cfg.ClientURL + "/success",
		CancelURL:     s.cfg.ClientURL + "/checkout",
		Metadata:      metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	return &models.CheckoutSession{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
		Currency:    currency,
		Items:       items,
		TotalCents:  totalCents,
	}, nil
}
