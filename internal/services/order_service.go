package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// OrderRequest is a direct order placement (no hosted checkout). Like the
// checkout request it carries item references only; unit amounts are
// resolved from the catalog, never accepted from the client.
type OrderRequest struct {
	Items    []models.CartLine `json:"items" validate:"dive"`
	Currency string            `json:"currency"`
	Name     string            `json:"name" validate:"required"`
	Email    string            `json:"email" validate:"required,email"`
	Phone    string            `json:"phone" validate:"required"`
	Address  string            `json:"address" validate:"required"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
	cfg         CheckoutConfig
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher, cfg CheckoutConfig) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		cfg:         cfg,
		validate:    validator.New(),
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// CreateOrder places a direct order: every line is validated against the
// catalog and repriced server-side, then the order is stored as pending.
// userID may be empty for guest orders.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req OrderRequest) (*models.Order, error) {
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

	var (
		items      []models.LineItem
		totalCents int64
	)
	for _, line := range req.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, line.ProductID)
		}
		unit, err := ResolveUnitAmount(product, currency)
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
		totalCents += lineTotal.AmountMinor
	}

	order := &models.Order{
		UserID:     userID,
		Name:       req.Name,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
		Address:    req.Address,
		Currency:   currency,
		Items:      items,
		TotalCents: totalCents,
		Status:     models.StatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishCreated(order)
	return order, nil
}

// UpdateOrderStatus moves an order through its state machine. Only
// transitions the machine allows are accepted; everything else is an
// ErrInvalidTransition.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !models.CanTransition(order.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// publishCreated emits an order.created event, best effort.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.events == nil {
		log.Println("Event publisher is not configured. Skipping order event publication.")
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderID":    order.ID,
		"userID":     order.UserID,
		"status":     order.Status,
		"totalCents": order.TotalCents,
		"currency":   order.Currency,
	})
	if err != nil {
		log.Printf("Failed to marshal order created event: %v", err)
		return
	}
	if err := s.events.Publish("order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	} else {
		log.Printf("Successfully published order created event for order %s", order.ID)
	}
}
