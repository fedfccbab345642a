package handlers

import (
	"errors"

	"github.com/giftdraw/backend/internal/draw"
	"github.com/giftdraw/backend/internal/middleware"
	"github.com/giftdraw/backend/internal/services"
	"github.com/giftdraw/backend/pkg/logger"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type DrawHandler struct {
	Draws *services.DrawService
	Audit *services.AuditService
}

func NewDrawHandler(draws *services.DrawService, audit *services.AuditService) *DrawHandler {
	return &DrawHandler{Draws: draws, Audit: audit}
}

func (h *DrawHandler) Draw(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	group, err := h.Draws.Draw(c.Context(), groupID, currentUser.ID)
	if err != nil {
		var sizeErr *services.NotEnoughParticipantsError
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		case errors.Is(err, services.ErrGroupAlreadyDrawn):
			return utils.Error(c, fiber.StatusConflict, "group has already been drawn")
		case errors.As(err, &sizeErr):
			return utils.Error(c, fiber.StatusUnprocessableEntity, sizeErr.Error())
		case errors.Is(err, draw.ErrNoValidAssignment):
			logger.ErrorWithUser(currentUser.ID.String(), "draw_generation_exhausted", err, map[string]interface{}{
				"group_id": groupID.String(),
			})
			return utils.Error(c, fiber.StatusInternalServerError, "could not compute a valid draw, please try again")
		default:
			logger.ErrorWithUser(currentUser.ID.String(), "draw_failed", err, map[string]interface{}{
				"group_id": groupID.String(),
			})
			return utils.Error(c, fiber.StatusInternalServerError, "failed drawing group")
		}
	}

	logger.InfoWithUser(currentUser.ID.String(), "group_drawn", map[string]interface{}{
		"group_id": group.ID.String(),
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "group.draw",
		ResourceType: "group",
		ResourceID:   &group.ID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, group)
}
