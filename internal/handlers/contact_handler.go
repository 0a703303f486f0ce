package handlers

import (
	"errors"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for the contact form.
type ContactHandler struct {
	service     *services.ContactService
	authService *services.AuthService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, authService *services.AuthService) *ContactHandler {
	return &ContactHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the contact routes with the Fiber app. extra
// middleware (the submission rate limiter) applies only to the public
// POST.
func (h *ContactHandler) RegisterRoutes(router fiber.Router, extra ...fiber.Handler) {
	contactRoutes := router.Group("/contact")

	submitHandlers := append(append([]fiber.Handler{}, extra...), h.HandleSubmit)
	contactRoutes.Post("/", submitHandlers...)

	adminRoutes := contactRoutes.Group("", middleware.AuthRequired(h.authService), middleware.AdminRequired())
	adminRoutes.Get("/", h.HandleListMessages)
	adminRoutes.Patch("/:id/status", h.HandleUpdateStatus)
}

// HandleSubmit accepts a contact form submission.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	var req services.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	msg, err := h.service.Submit(c.Context(), req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid input",
			})
		}
		log.Printf("Contact submit error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to submit message",
		})
	}

	// Honeypot hits come back with no message; pretend success.
	if msg == nil {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.JSON(fiber.Map{
		"ok": true,
		"id": msg.ID,
	})
}

// HandleListMessages returns paginated messages for the admin view.
func (h *ContactHandler) HandleListMessages(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	status := c.Query("status")

	messages, total, err := h.service.ListMessages(c.Context(), status, page, pageSize)
	if err != nil {
		log.Printf("Error listing contact messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch messages",
		})
	}

	return c.JSON(fiber.Map{
		"items":    messages,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// HandleUpdateStatus updates a message's status.
func (h *ContactHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	msg, err := h.service.UpdateStatus(c.Context(), c.Params("id"), updateData.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status",
			})
		case errors.Is(err, repositories.ErrMessageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Message not found",
			})
		default:
			log.Printf("Error updating contact message status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to update status",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Status updated",
		"doc":     msg,
	})
}
