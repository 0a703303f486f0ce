package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker.
// A nil publisher disables publishing.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// WebhookService reconciles asynchronous provider events with locally
// stored orders. Deliveries are at-least-once and may arrive out of
// order; the session-id upsert makes redelivery harmless.
type WebhookService struct {
	orderRepo repositories.OrderRepository
	provider  payments.Provider
	events    EventPublisher
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(orderRepo repositories.OrderRepository, provider payments.Provider, events EventPublisher) *WebhookService {
	return &WebhookService{
		orderRepo: orderRepo,
		provider:  provider,
		events:    events,
	}
}

// HandleEvent verifies and processes one webhook delivery. A signature
// failure is the only error the HTTP layer reports back to the provider;
// everything after verification is logged and acknowledged so provider
// retries do not amplify internal faults.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (*models.Order, error) {
	event, err := s.provider.VerifyEvent(payload, sigHeader)
	if err != nil {
		return nil, err
	}

	// Only a completed checkout persists anything. Unknown event kinds
	// are acknowledged untouched so new provider events cannot break us.
	if event.Type != payments.EventCheckoutCompleted {
		log.Printf("Ignoring webhook event of type %s", event.Type)
		return nil, nil
	}

	// The envelope payload may be summarized; fetch the authoritative,
	// fully itemized session.
	session, err := s.provider.GetSession(ctx, event.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session %s: %w", event.SessionID, err)
	}

	order := s.orderFromSession(session)
	saved, err := s.orderRepo.UpsertBySessionID(ctx, session.ID, order)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert order for session %s: %w", session.ID, err)
	}
	log.Printf("Order %s reconciled from session %s (status: %s)", saved.ID, session.ID, saved.Status)

	if saved.Status == models.StatusPaid {
		s.publishPaid(saved)
	}
	return saved, nil
}

// orderFromSession normalizes the provider's session into a canonical
// order record.
func (s *WebhookService) orderFromSession(session *payments.Session) *models.Order {
	items := make([]models.LineItem, 0, len(session.Lines))
	for _, line := range session.Lines {
		items = append(items, normalizeLine(session.ID, line))
	}

	status := models.StatusPending
	if session.Paid {
		status = models.StatusPaid
	}

	phone := session.Metadata["phone"]
	if phone == "" {
		phone = session.CustomerPhone
	}

	return &models.Order{
		Name:            session.Metadata["name"],
		Email:           session.CustomerEmail,
		Phone:           phone,
		Address:         session.Metadata["address"],
		Currency:        session.Currency,
		Items:           items,
		TotalCents:      session.AmountTotal,
		Status:          status,
		StripeSessionID: session.ID,
		PaymentIntentID: session.PaymentIntentID,
	}
}

// normalizeLine derives a line item from a provider line. The provider's
// per-line unit amount is preferred; when absent it is derived from the
// line totals. When those are missing too the unit defaults to zero,
// logged but never fatal.
func normalizeLine(sessionID string, line payments.SessionLine) models.LineItem {
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}

	unit := line.UnitAmount
	if unit == 0 {
		switch {
		case line.AmountTotal > 0:
			unit = roundedDiv(line.AmountTotal, qty)
		case line.AmountSubtotal > 0:
			unit = roundedDiv(line.AmountSubtotal, qty)
		default:
			log.Printf("Warning: no unit amount for line %q in session %s, defaulting to 0", line.Description, sessionID)
		}
	}

	lineTotal := line.AmountTotal
	if lineTotal == 0 {
		if line.AmountSubtotal > 0 {
			lineTotal = line.AmountSubtotal
		} else {
			lineTotal = unit * qty
		}
	}

	name := line.Description
	if name == "" {
		name = "Item"
	}

	return models.LineItem{
		Name:           name,
		PriceCents:     unit,
		Quantity:       qty,
		LineTotalCents: lineTotal,
	}
}

// roundedDiv divides to the nearest integer.
func roundedDiv(total, qty int64) int64 {
	return (total + qty/2) / qty
}

// publishPaid emits an order.paid event, best effort.
func (s *WebhookService) publishPaid(order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderID":    order.ID,
		"sessionID":  order.StripeSessionID,
		"status":     order.Status,
		"totalCents": order.TotalCents,
		"currency":   order.Currency,
	})
	if err != nil {
		log.Printf("Failed to marshal order paid event: %v", err)
		return
	}
	if err := s.events.Publish("order.paid", body); err != nil {
		log.Printf("Warning: failed to publish order paid event for order %s: %v", order.ID, err)
	}
}
