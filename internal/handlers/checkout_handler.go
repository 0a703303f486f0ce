package handlers

import (
	"errors"
	"log"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout session creation.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/create-session", h.HandleCreateSession)
}

// HandleCreateSession resolves the cart server-side and mints a hosted
// checkout session, returning the provider redirect URL.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session, err := h.service.CreateSession(c.Context(), req)
	if err != nil {
		return h.checkoutError(c, err)
	}

	return c.JSON(session)
}

// checkoutError maps service errors to HTTP statuses. Validation and
// catalog gaps are the client's to fix; provider failures surface as a
// generic error without leaking provider internals.
func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, err error) error {
	log.Printf("Error creating checkout session: %v", err)

	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnsupportedCurrency),
		errors.As(err, &validationErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid checkout request",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrNoPriceAvailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart contains items that cannot be purchased",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrSessionCreationFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Checkout session creation failed",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create checkout session",
		})
	}
}
