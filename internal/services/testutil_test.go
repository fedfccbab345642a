package services

import (
	"sync"
	"testing"

	"github.com/giftdraw/backend/internal/models"
	"github.com/giftdraw/backend/pkg/logger"
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testSetupOnce sync.Once

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Participant{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createTestOwner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "Owner",
		Role:         models.UserRoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test owner: %v", err)
	}
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, participantNames ...string) (*models.Group, []models.Participant) {
	t.Helper()

	group := &models.Group{Name: name, OwnerID: ownerID}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed creating test group: %v", err)
	}

	participants := make([]models.Participant, 0, len(participantNames))
	for _, participantName := range participantNames {
		token, err := utils.GenerateViewToken()
		if err != nil {
			t.Fatalf("failed generating view token: %v", err)
		}
		participant := models.Participant{
			GroupID:   group.ID,
			Name:      participantName,
			ViewToken: token,
		}
		if err := db.Create(&participant).Error; err != nil {
			t.Fatalf("failed creating test participant: %v", err)
		}
		participants = append(participants, participant)
	}

	return group, participants
}
