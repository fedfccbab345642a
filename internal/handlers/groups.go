package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/giftdraw/backend/internal/middleware"
	"github.com/giftdraw/backend/internal/models"
	"github.com/giftdraw/backend/internal/services"
	"github.com/giftdraw/backend/pkg/logger"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupsHandler struct {
	DB    *gorm.DB
	Audit *services.AuditService
}

func NewGroupsHandler(db *gorm.DB, audit *services.AuditService) *GroupsHandler {
	return &GroupsHandler{DB: db, Audit: audit}
}

type groupSummary struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	IsDrawn          bool       `json:"isDrawn"`
	DrawnAt          *time.Time `json:"drawnAt,omitempty"`
	ParticipantCount int        `json:"participantCount"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type participantDetail struct {
	ID                      uuid.UUID  `json:"id"`
	Name                    string     `json:"name"`
	ViewToken               string     `json:"viewToken"`
	AssignedParticipantName *string    `json:"assignedParticipantName,omitempty"`
	ViewedAt                *time.Time `json:"viewedAt,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
}

type groupDetail struct {
	groupSummary
	Participants []participantDetail `json:"participants"`
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	group := models.Group{
		Name:    req.Name,
		OwnerID: currentUser.ID,
	}

	if err := h.DB.Create(&group).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating group")
	}

	logger.InfoWithUser(currentUser.ID.String(), "group_created", map[string]interface{}{
		"group_id":   group.ID.String(),
		"group_name": group.Name,
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "group.create",
		ResourceType: "group",
		ResourceID:   &group.ID,
		Details:      map[string]interface{}{"name": group.Name},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, group)
}

func (h *GroupsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var groups []models.Group
	if err := h.DB.
		Preload("Participants").
		Where("owner_id = ?", currentUser.ID).
		Order("created_at DESC").
		Find(&groups).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing groups")
	}

	summaries := make([]groupSummary, len(groups))
	for i, group := range groups {
		summaries[i] = toGroupSummary(group)
	}

	return utils.Success(c, fiber.StatusOK, summaries)
}

func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	var group models.Group
	err = h.DB.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.AssignedParticipant").
		First(&group, "id = ? AND owner_id = ?", groupID, currentUser.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}

	detail := groupDetail{
		groupSummary: toGroupSummary(group),
		Participants: make([]participantDetail, len(group.Participants)),
	}
	for i, p := range group.Participants {
		entry := participantDetail{
			ID:        p.ID,
			Name:      p.Name,
			ViewToken: p.ViewToken,
			ViewedAt:  p.ViewedAt,
			CreatedAt: p.CreatedAt,
		}
		// Assigned names are only the organizer's to see once drawn.
		if group.IsDrawn && p.AssignedParticipant != nil {
			name := p.AssignedParticipant.Name
			entry.AssignedParticipantName = &name
		}
		detail.Participants[i] = entry
	}

	return utils.Success(c, fiber.StatusOK, detail)
}

type updateGroupRequest struct {
	Name *string `json:"name"`
}

func (h *GroupsHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	var req updateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == nil {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name cannot be empty")
	}

	result := h.DB.Model(&models.Group{}).
		Where("id = ? AND owner_id = ?", groupID, currentUser.ID).
		Update("name", name)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating group")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "group not found")
	}

	var updated models.Group
	if err := h.DB.First(&updated, "id = ?", groupID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading updated group")
	}

	return utils.Success(c, fiber.StatusOK, updated)
}

func (h *GroupsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, "id = ? AND owner_id = ?", groupID, currentUser.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", groupID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting group")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "group.delete",
		ResourceType: "group",
		ResourceID:   &groupID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "group deleted"})
}

func toGroupSummary(group models.Group) groupSummary {
	return groupSummary{
		ID:               group.ID,
		Name:             group.Name,
		IsDrawn:          group.IsDrawn,
		DrawnAt:          group.DrawnAt,
		ParticipantCount: len(group.Participants),
		CreatedAt:        group.CreatedAt,
		UpdatedAt:        group.UpdatedAt,
	}
}
