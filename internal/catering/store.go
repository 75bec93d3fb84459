package catering

import (
	"context"
	"time"

	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// store maps each variant onto its own table.
type store struct {
	db *gorm.DB
}

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(dayOf(t))
}

func fromDate(d datatypes.Date) time.Time {
	return dayOf(time.Time(d))
}

// menus

func menuFromRecord(rec models.CateringMenu) Restauration {
	return Restauration{ID: rec.ID, Kind: KindMenu, Active: rec.Active, Menu: &Menu{Name: rec.Name, OptionID: rec.OptionID}}
}

func menuRecord(r *Restauration) models.CateringMenu {
	return models.CateringMenu{ID: r.ID, Name: r.Menu.Name, OptionID: r.Menu.OptionID, Active: r.Active}
}

func (s *store) insertMenu(ctx context.Context, r *Restauration) error {
	rec := menuRecord(r)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	r.ID = rec.ID
	return nil
}

func (s *store) getMenu(ctx context.Context, id uint) (Restauration, error) {
	var rec models.CateringMenu
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return Restauration{}, err
	}
	return menuFromRecord(rec), nil
}

func (s *store) updateMenu(ctx context.Context, r *Restauration) error {
	var existing models.CateringMenu
	if err := s.db.WithContext(ctx).First(&existing, r.ID).Error; err != nil {
		return err
	}
	rec := menuRecord(r)
	rec.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *store) deleteMenu(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.CateringMenu{}, id)
}

func (s *store) activeMenus(ctx context.Context) ([]Restauration, error) {
	var recs []models.CateringMenu
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Restauration, 0, len(recs))
	for _, rec := range recs {
		out = append(out, menuFromRecord(rec))
	}
	return out, nil
}

// options

func optionFromRecord(rec models.CateringOption) Restauration {
	return Restauration{ID: rec.ID, Kind: KindOption, Active: rec.Active, Option: &Option{Label: rec.Label, EventTypeTag: rec.EventTypeTag}}
}

// hasEventTypeTag reports whether this deployment's options table carries the
// event_type_tag column. Older schemas do not.
func (s *store) hasEventTypeTag() bool {
	return s.db.Migrator().HasColumn(&models.CateringOption{}, "event_type_tag")
}

func (s *store) optionQuery(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.CateringOption{})
	if !s.hasEventTypeTag() {
		q = q.Select("id", "label", "active", "created_at", "updated_at")
	}
	return q
}

func (s *store) insertOption(ctx context.Context, r *Restauration) error {
	rec := models.CateringOption{Label: r.Option.Label, EventTypeTag: r.Option.EventTypeTag, Active: r.Active}
	q := s.db.WithContext(ctx)
	if !s.hasEventTypeTag() {
		q = q.Omit("EventTypeTag")
	}
	if err := q.Create(&rec).Error; err != nil {
		return err
	}
	r.ID = rec.ID
	return nil
}

func (s *store) getOption(ctx context.Context, id uint) (Restauration, error) {
	var rec models.CateringOption
	if err := s.optionQuery(ctx).First(&rec, id).Error; err != nil {
		return Restauration{}, err
	}
	return optionFromRecord(rec), nil
}

func (s *store) activeOptions(ctx context.Context) ([]Restauration, error) {
	var recs []models.CateringOption
	if err := s.optionQuery(ctx).Where("active = ?", true).Order("id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Restauration, 0, len(recs))
	for _, rec := range recs {
		out = append(out, optionFromRecord(rec))
	}
	return out, nil
}

// meals

func mealFromRecord(rec models.CateringMeal) Restauration {
	return Restauration{ID: rec.ID, Kind: KindMeal, Active: rec.Active, Meal: &Meal{
		MealName:      rec.MealName,
		Price:         rec.Price,
		Date:          fromDate(rec.Date),
		ParticipantID: rec.ParticipantID,
	}}
}

func mealRecord(r *Restauration) models.CateringMeal {
	return models.CateringMeal{
		ID:            r.ID,
		MealName:      r.Meal.MealName,
		Price:         r.Meal.Price.Round(2),
		Date:          toDate(r.Meal.Date),
		ParticipantID: r.Meal.ParticipantID,
		Active:        r.Active,
	}
}

func (s *store) insertMeal(ctx context.Context, r *Restauration) error {
	rec := mealRecord(r)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	r.ID = rec.ID
	return nil
}

func (s *store) getMeal(ctx context.Context, id uint) (Restauration, error) {
	var rec models.CateringMeal
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return Restauration{}, err
	}
	return mealFromRecord(rec), nil
}

func (s *store) updateMeal(ctx context.Context, r *Restauration) error {
	var existing models.CateringMeal
	if err := s.db.WithContext(ctx).First(&existing, r.ID).Error; err != nil {
		return err
	}
	rec := mealRecord(r)
	rec.CreatedAt = existing.CreatedAt
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *store) deleteMeal(ctx context.Context, id uint) error {
	return deleteByID(ctx, s.db, &models.CateringMeal{}, id)
}

func (s *store) mealsFor(ctx context.Context, participantID uint, date time.Time) ([]Restauration, error) {
	var recs []models.CateringMeal
	err := s.db.WithContext(ctx).
		Where("participant_id = ? AND date = ?", participantID, toDate(date)).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]Restauration, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mealFromRecord(rec))
	}
	return out, nil
}

func (s *store) countMealsFor(ctx context.Context, participantID uint, date time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CateringMeal{}).
		Where("participant_id = ? AND date = ?", participantID, toDate(date)).
		Count(&count).Error
	return count, err
}

// restrictions

func (s *store) insertRestriction(ctx context.Context, r *Restauration) error {
	rec := models.CateringRestriction{Label: r.Restriction.Label, Description: r.Restriction.Description, Active: r.Active}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	r.ID = rec.ID
	return nil
}

func (s *store) getRestriction(ctx context.Context, id uint) (Restauration, error) {
	var rec models.CateringRestriction
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return Restauration{}, err
	}
	return Restauration{ID: rec.ID, Kind: KindRestriction, Active: rec.Active, Restriction: &Restriction{
		Label:       rec.Label,
		Description: rec.Description,
	}}, nil
}

// presences

func (s *store) insertPresence(ctx context.Context, r *Restauration) error {
	rec := models.CateringPresence{
		ParticipantID:          r.Presence.ParticipantID,
		PresenceDate:           toDate(r.Presence.PresenceDate),
		MembershipActiveAtTime: r.Presence.MembershipActiveAtTime,
		Active:                 r.Active,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	r.ID = rec.ID
	return nil
}

func (s *store) getPresence(ctx context.Context, id uint) (Restauration, error) {
	var rec models.CateringPresence
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return Restauration{}, err
	}
	return Restauration{ID: rec.ID, Kind: KindPresence, Active: rec.Active, Presence: &Presence{
		ParticipantID:          rec.ParticipantID,
		PresenceDate:           fromDate(rec.PresenceDate),
		MembershipActiveAtTime: rec.MembershipActiveAtTime,
	}}, nil
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint) error {
	res := db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
