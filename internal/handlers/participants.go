package handlers

import (
	"errors"
	"strings"

	"github.com/giftdraw/backend/internal/middleware"
	"github.com/giftdraw/backend/internal/models"
	"github.com/giftdraw/backend/internal/services"
	"github.com/giftdraw/backend/pkg/logger"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantsHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewParticipantsHandler(db *gorm.DB, audit *services.AuditService) *ParticipantsHandler {
	return &ParticipantsHandler{DB: db, Audit: audit}
}

type addParticipantRequest struct {
	Name string `json:"name"`
}

func (h *ParticipantsHandler) Add(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	var req addParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	viewToken, err := utils.GenerateViewToken()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating view token")
	}

	participant := models.Participant{
		GroupID:   groupID,
		Name:      req.Name,
		ViewToken: viewToken,
	}

	// The locked read serializes this insert against an in-flight draw:
	// whichever transaction commits first decides, and an insert that
	// loses the race sees is_drawn and is refused.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, "id = ? AND owner_id = ?", groupID, currentUser.ID).Error; err != nil {
			return err
		}
		if group.IsDrawn {
			return services.ErrGroupAlreadyDrawn
		}
		return tx.Create(&participant).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		if errors.Is(err, services.ErrGroupAlreadyDrawn) {
			return utils.Error(c, fiber.StatusConflict, "cannot add participants after the draw")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed adding participant")
	}

	logger.InfoWithUser(currentUser.ID.String(), "participant_added", map[string]interface{}{
		"group_id":       groupID.String(),
		"participant_id": participant.ID.String(),
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "participant.add",
		ResourceType: "participant",
		ResourceID:   &participant.ID,
		Details:      map[string]interface{}{"group_id": groupID.String(), "name": participant.Name},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, participant)
}

func (h *ParticipantsHandler) Remove(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}
	participantID, err := parseUUID(c.Params("participantId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid participant id")
	}

	var errParticipantNotFound = errors.New("participant not found")

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, "id = ? AND owner_id = ?", groupID, currentUser.ID).Error; err != nil {
			return err
		}
		if group.IsDrawn {
			return services.ErrGroupAlreadyDrawn
		}
		result := tx.Delete(&models.Participant{}, "id = ? AND group_id = ?", participantID, groupID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errParticipantNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		if errors.Is(err, services.ErrGroupAlreadyDrawn) {
			return utils.Error(c, fiber.StatusConflict, "cannot remove participants after the draw")
		}
		if errors.Is(err, errParticipantNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "participant not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed removing participant")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "participant.remove",
		ResourceType: "participant",
		ResourceID:   &participantID,
		Details:      map[string]interface{}{"group_id": groupID.String()},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "participant removed"})
}
