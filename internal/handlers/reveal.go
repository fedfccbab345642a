package handlers

import (
	"github.com/giftdraw/backend/internal/services"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// RevealHandler serves the participant-facing, token-addressed endpoints.
// No authentication: the token is the credential.
type RevealHandler struct {
	Reveals *services.RevealService
	Audit   *services.AuditService
}

func NewRevealHandler(reveals *services.RevealService, audit *services.AuditService) *RevealHandler {
	return &RevealHandler{Reveals: reveals, Audit: audit}
}

func (h *RevealHandler) Reveal(c *fiber.Ctx) error {
	result := h.Reveals.Reveal(c.Context(), c.Params("token"))
	return utils.Success(c, fiber.StatusOK, result)
}

func (h *RevealHandler) MarkViewed(c *fiber.Ctx) error {
	if err := h.Reveals.MarkViewed(c.Context(), c.Params("token")); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed marking as viewed")
	}

	h.Audit.LogAsync(services.AuditEntry{
		Action:       "reveal.viewed",
		ResourceType: "participant",
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "marked as viewed"})
}
