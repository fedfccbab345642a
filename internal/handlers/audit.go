package handlers

import (
	"strconv"

	"github.com/giftdraw/backend/internal/models"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// AuditHandler exposes the append-only audit trail to administrators.
type AuditHandler struct {
	DB *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{DB: db}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit := auditDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return utils.Error(c, fiber.StatusBadRequest, "invalid limit")
		}
		if parsed > auditMaxLimit {
			parsed = auditMaxLimit
		}
		limit = parsed
	}

	query := h.DB.Model(&models.AuditLog{}).
		Order("created_at DESC").
		Limit(limit)
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing audit entries")
	}

	return utils.Success(c, fiber.StatusOK, entries)
}
