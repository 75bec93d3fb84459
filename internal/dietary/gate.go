// Package dietary keeps participants' dietary needs per event and decides whether a
// meal choice can still be changed.
package dietary

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/gdg-garage/outing-api/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Gate struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db, now: time.Now}
}

func validate(need *models.ParticipantRestauration) error {
	res := validation.New()
	if need.ParticipantID == 0 {
		res.AddFieldError("participant_id", "participant_id is required")
	}
	if need.EventID == 0 {
		res.AddFieldError("event_id", "event_id is required")
	}
	if need.SeverityLevel != "" && !need.SeverityLevel.Valid() {
		res.AddFieldError("severity_level", "severity_level must be one of MILD, MODERATE, SEVERE")
	}
	if res.HasErrors() {
		return &apperrors.ValidationError{Result: res}
	}
	return nil
}

func (g *Gate) CreateNeed(ctx context.Context, need *models.ParticipantRestauration) error {
	if err := validate(need); err != nil {
		return err
	}
	return apperrors.FromStore("insert dietary need", g.db.WithContext(ctx).Create(need).Error, "dietary need already exists")
}

func (g *Gate) GetNeed(ctx context.Context, id uint) (*models.ParticipantRestauration, error) {
	var need models.ParticipantRestauration
	if err := g.db.WithContext(ctx).First(&need, id).Error; err != nil {
		return nil, apperrors.FromStore("get dietary need", err, "")
	}
	return &need, nil
}

func (g *Gate) ListByEvent(ctx context.Context, eventID uint) ([]models.ParticipantRestauration, error) {
	var needs []models.ParticipantRestauration
	err := g.db.WithContext(ctx).Where("event_id = ?", eventID).Order("participant_id asc, id asc").Find(&needs).Error
	return needs, apperrors.FromStore("list dietary needs", err, "")
}

// UpdateNeed rewrites a need while its stored modification deadline has not passed.
// The stored deadline is kept; only ReviseNeed moves it.
func (g *Gate) UpdateNeed(ctx context.Context, need *models.ParticipantRestauration) error {
	existing, err := g.prepareUpdate(ctx, need)
	if err != nil {
		return err
	}
	if !withinDeadline(existing.ModificationDeadline, g.now()) {
		return apperrors.Conflict(deadlineMessage(existing))
	}
	need.ModificationDeadline = existing.ModificationDeadline
	return apperrors.FromStore("update dietary need", g.db.WithContext(ctx).Save(need).Error, "")
}

// ReviseNeed saves every field including the modification deadline, whether or
// not the stored deadline has passed. It is the organiser's override.
func (g *Gate) ReviseNeed(ctx context.Context, need *models.ParticipantRestauration) error {
	if _, err := g.prepareUpdate(ctx, need); err != nil {
		return err
	}
	return apperrors.FromStore("revise dietary need", g.db.WithContext(ctx).Save(need).Error, "")
}

func (g *Gate) prepareUpdate(ctx context.Context, need *models.ParticipantRestauration) (*models.ParticipantRestauration, error) {
	if err := validate(need); err != nil {
		return nil, err
	}
	existing, err := g.GetNeed(ctx, need.ID)
	if err != nil {
		return nil, err
	}
	need.CreatedAt = existing.CreatedAt
	return existing, nil
}

func deadlineMessage(need *models.ParticipantRestauration) string {
	return fmt.Sprintf("dietary need %d can no longer be changed (deadline %s)",
		need.ID, time.Time(*need.ModificationDeadline).Format(time.DateOnly))
}

func (g *Gate) DeleteNeed(ctx context.Context, id uint) error {
	res := g.db.WithContext(ctx).Delete(&models.ParticipantRestauration{}, id)
	if res.Error == nil && res.RowsAffected == 0 {
		return apperrors.FromStore("delete dietary need", gorm.ErrRecordNotFound, "")
	}
	return apperrors.FromStore("delete dietary need", res.Error, "")
}

// CanModifyMealChoice is true while today is on or before the need's modification
// deadline, or when no deadline is set. Missing records cannot be modified.
func (g *Gate) CanModifyMealChoice(ctx context.Context, id uint) bool {
	need, err := g.GetNeed(ctx, id)
	if err != nil {
		return false
	}
	return withinDeadline(need.ModificationDeadline, g.now())
}

func withinDeadline(deadline *datatypes.Date, now time.Time) bool {
	if deadline == nil {
		return true
	}
	y, m, d := time.Time(*deadline).Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := now.Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return !today.After(last)
}
