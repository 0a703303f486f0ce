package handlers

import (
	"errors"
	"log"

	"storefront/internal/payments"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives payment provider webhook deliveries.
type WebhookHandler struct {
	service *services.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// RegisterRoutes registers the webhook route with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	stripeRoutes := router.Group("/stripe")
	stripeRoutes.Post("/webhook", h.HandleWebhook)
}

// HandleWebhook verifies and reconciles one delivery. The raw request
// body goes to verification untouched, since signature checks break on any
// re-serialization. Only a signature failure is reported back to the
// provider; all later failures are logged and acknowledged with 200 so
// provider-side retries do not amplify internal faults.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	_, err := h.service.HandleEvent(c.Context(), payload, sigHeader)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			log.Printf("Webhook signature verification failed: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Webhook signature verification failed",
			})
		}
		log.Printf("Webhook handler failed: %v", err)
		return c.JSON(fiber.Map{
			"received": true,
			"warning":  "handler_error",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
