package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is one gift-exchange round. IsDrawn is set exactly once; after that
// the participant list and all assignments are frozen.
type Group struct {
	BaseModel
	Name         string        `json:"name" gorm:"type:varchar(255);not null"`
	OwnerID      uuid.UUID     `json:"ownerID" gorm:"type:uuid;not null;index"`
	IsDrawn      bool          `json:"isDrawn" gorm:"not null;default:false"`
	DrawnAt      *time.Time    `json:"drawnAt,omitempty"`
	Owner        User          `json:"-" gorm:"foreignKey:OwnerID"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:GroupID"`
}
