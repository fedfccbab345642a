package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giftdraw/backend/internal/models"
	"gorm.io/gorm"
)

type RevealStatus string

const (
	// RevealStatusInvalid is the single outward state for every failed
	// lookup: unknown token, malformed token, storage error. Nothing about
	// the system is disclosed.
	RevealStatusInvalid RevealStatus = "invalid"

	// RevealStatusNotDrawn means the token is real but the group has not
	// been drawn yet.
	RevealStatusNotDrawn RevealStatus = "not_drawn"

	// RevealStatusReady means the assignment exists and is included.
	RevealStatusReady RevealStatus = "ready"
)

// RevealResult is the participant-facing view of their own draw. Fields
// beyond Status are populated per state and never beyond it.
type RevealResult struct {
	Status                  RevealStatus `json:"status"`
	ParticipantName         string       `json:"participantName,omitempty"`
	GroupName               string       `json:"groupName,omitempty"`
	AssignedParticipantName string       `json:"assignedParticipantName,omitempty"`
	DrawnAt                 *time.Time   `json:"drawnAt,omitempty"`
}

// RevealService resolves view tokens to assignments, gated on the group's
// draw state rather than on the assignment column itself.
type RevealService struct {
	DB *gorm.DB
}

func NewRevealService(db *gorm.DB) *RevealService {
	return &RevealService{DB: db}
}

// Reveal never returns an error: all failure modes collapse into the
// invalid status so the boundary cannot leak lookup details.
func (s *RevealService) Reveal(ctx context.Context, token string) *RevealResult {
	participant, err := s.lookup(ctx, token)
	if err != nil {
		return &RevealResult{Status: RevealStatusInvalid}
	}

	// The group flag gates the reveal. An assignment that is somehow
	// present on an undrawn group stays hidden.
	if !participant.Group.IsDrawn || participant.AssignedParticipant == nil {
		return &RevealResult{
			Status:          RevealStatusNotDrawn,
			ParticipantName: participant.Name,
			GroupName:       participant.Group.Name,
		}
	}

	return &RevealResult{
		Status:                  RevealStatusReady,
		ParticipantName:         participant.Name,
		GroupName:               participant.Group.Name,
		AssignedParticipantName: participant.AssignedParticipant.Name,
		DrawnAt:                 participant.Group.DrawnAt,
	}
}

// MarkViewed stamps viewed_at on the participant behind the token, but only
// once their reveal is actually ready. The marker is organizer-facing
// bookkeeping and never alters what a reveal returns. Unknown tokens are a
// no-op, mirroring the reveal boundary.
func (s *RevealService) MarkViewed(ctx context.Context, token string) error {
	participant, err := s.lookup(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("looking up participant: %w", err)
	}

	if !participant.Group.IsDrawn || participant.AssignedParticipantID == nil {
		return nil
	}

	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Model(&models.Participant{}).
		Where("id = ?", participant.ID).
		Updates(map[string]interface{}{
			"viewed_at":  now,
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("marking participant viewed: %w", err)
	}
	return nil
}

func (s *RevealService) lookup(ctx context.Context, token string) (*models.Participant, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var participant models.Participant
	err := s.DB.WithContext(ctx).
		Preload("Group").
		Preload("AssignedParticipant").
		First(&participant, "view_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}
