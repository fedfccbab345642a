package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/giftdraw/backend/internal/config"
	"github.com/giftdraw/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrGroupNotFound covers both a missing group and a group owned by someone
// else. The two cases are deliberately indistinguishable so callers cannot
// probe for group existence.
var ErrGroupNotFound = errors.New("group not found")

// ErrGroupAlreadyDrawn is the refusal for any mutation of a drawn group.
// There is no undo; the only way forward is accepting the existing draw.
var ErrGroupAlreadyDrawn = errors.New("group has already been drawn")

// NotEnoughParticipantsError reports a draw attempted below the configured
// minimum group size.
type NotEnoughParticipantsError struct {
	Required int
	Actual   int
}

func (e *NotEnoughParticipantsError) Error() string {
	return fmt.Sprintf("at least %d participants are required, group has %d", e.Required, e.Actual)
}

// AssignmentGenerator computes a fixed-point-free permutation over the given
// participant IDs. Implemented by draw.Generator.
type AssignmentGenerator interface {
	Generate(ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// DrawService owns the one-time OPEN -> DRAWN transition of a group. All
// writes of a draw happen in a single transaction, guarded by a conditional
// update on the group row, so concurrent draws resolve to exactly one winner.
type DrawService struct {
	DB              *gorm.DB
	Generator       AssignmentGenerator
	MinParticipants int
}

func NewDrawService(db *gorm.DB, generator AssignmentGenerator, cfg config.DrawConfig) *DrawService {
	min := cfg.MinParticipants
	if min < 3 {
		min = 3
	}
	return &DrawService{DB: db, Generator: generator, MinParticipants: min}
}

// Draw assigns every participant of the group another participant to give a
// gift to and marks the group drawn. It either commits completely or leaves
// the group untouched.
func (s *DrawService) Draw(ctx context.Context, groupID, ownerID uuid.UUID) (*models.Group, error) {
	var drawn models.Group

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock serializes every group mutation against this draw:
		// a concurrent add/remove blocks here until the draw commits, then
		// observes is_drawn and refuses.
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, "id = ? AND owner_id = ?", groupID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("loading group: %w", err)
		}

		if group.IsDrawn {
			return ErrGroupAlreadyDrawn
		}

		var participants []models.Participant
		if err := tx.Order("created_at ASC").Find(&participants, "group_id = ?", groupID).Error; err != nil {
			return fmt.Errorf("loading participants: %w", err)
		}

		if len(participants) < s.MinParticipants {
			return &NotEnoughParticipantsError{Required: s.MinParticipants, Actual: len(participants)}
		}

		ids := make([]uuid.UUID, len(participants))
		for i, p := range participants {
			ids[i] = p.ID
		}

		assignments, err := s.Generator.Generate(ids)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		for participantID, targetID := range assignments {
			result := tx.Model(&models.Participant{}).
				Where("id = ? AND group_id = ?", participantID, groupID).
				Updates(map[string]interface{}{
					"assigned_participant_id": targetID,
					"updated_at":              now,
				})
			if result.Error != nil {
				return fmt.Errorf("persisting assignment: %w", result.Error)
			}
			if result.RowsAffected != 1 {
				return fmt.Errorf("participant %s disappeared during commit", participantID)
			}
		}

		// Conditional update is the arbiter of the one-time transition:
		// a concurrent draw that committed first makes this a no-op.
		result := tx.Model(&models.Group{}).
			Where("id = ? AND is_drawn = ?", groupID, false).
			Updates(map[string]interface{}{
				"is_drawn":   true,
				"drawn_at":   now,
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("marking group drawn: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrGroupAlreadyDrawn
		}

		group.IsDrawn = true
		group.DrawnAt = &now
		group.UpdatedAt = now
		drawn = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &drawn, nil
}
