package services

import (
	"testing"
	"time"

	"github.com/giftdraw/backend/internal/models"
	"github.com/google/uuid"
)

func TestAuditLogAsyncPersistsEntry(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	userID := uuid.New()
	resourceID := uuid.New()

	service.LogAsync(AuditEntry{
		UserID:       &userID,
		Action:       "group.draw",
		ResourceType: "group",
		ResourceID:   &resourceID,
		Details:      map[string]interface{}{"participants": 4},
		IPAddress:    "127.0.0.1",
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		var count int64
		if err := db.Model(&models.AuditLog{}).Where("action = ?", "group.draw").Count(&count).Error; err != nil {
			t.Fatalf("failed counting audit rows: %v", err)
		}
		if count == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("audit entry was not persisted in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var row models.AuditLog
	if err := db.First(&row, "action = ?", "group.draw").Error; err != nil {
		t.Fatalf("failed loading audit row: %v", err)
	}
	if row.UserID == nil || *row.UserID != userID {
		t.Fatalf("unexpected user on audit row: %+v", row)
	}
	if row.ResourceType != "group" {
		t.Fatalf("unexpected resource type: %q", row.ResourceType)
	}
}
