package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant belongs to exactly one group. ViewToken is the secret handle a
// participant uses to see their own assignment; it never expires.
// AssignedParticipantID is a non-owning reference to another participant in
// the same group, null until the group is drawn and never the participant's
// own ID.
type Participant struct {
	BaseModel
	GroupID               uuid.UUID    `json:"groupID" gorm:"type:uuid;not null;index"`
	Name                  string       `json:"name" gorm:"type:varchar(255);not null"`
	ViewToken             string       `json:"viewToken" gorm:"type:varchar(32);not null;uniqueIndex"`
	AssignedParticipantID *uuid.UUID   `json:"assignedParticipantID,omitempty" gorm:"type:uuid"`
	ViewedAt              *time.Time   `json:"viewedAt,omitempty"`
	Group                 Group        `json:"-" gorm:"foreignKey:GroupID"`
	AssignedParticipant   *Participant `json:"-" gorm:"foreignKey:AssignedParticipantID;references:ID"`
}

func (Participant) TableName() string {
	return "participants"
}
