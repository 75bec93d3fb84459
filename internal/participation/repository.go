package participation

import (
	"context"
	"errors"

	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create inserts the participation and its first history snapshot.
	Create(ctx context.Context, p *models.Participation) error
	GetByID(ctx context.Context, id uint) (*models.Participation, error)
	ExistsForUserAndEvent(ctx context.Context, userID, eventID uint) (bool, error)
	// Save writes every field and appends a history snapshot.
	Save(ctx context.Context, p *models.Participation) error
	Delete(ctx context.Context, id uint) error
	ListByEvent(ctx context.Context, eventID uint) ([]models.Participation, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Participation, error)
	CountByStatus(ctx context.Context, eventID uint, status models.ParticipationStatus) (int64, error)
	History(ctx context.Context, participationID uint) ([]models.ParticipationHistory, error)
	// EventCapacity returns 0 when the event has no configured capacity.
	EventCapacity(ctx context.Context, eventID uint) (int, error)
	SetEventCapacity(ctx context.Context, eventID uint, capacity int) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func snapshot(p *models.Participation) models.ParticipationHistory {
	return models.ParticipationHistory{
		ParticipationID:     p.ID,
		UserID:              p.UserID,
		EventID:             p.EventID,
		ParticipationFields: p.ParticipationFields,
	}
}

func (r *GormRepository) Create(ctx context.Context, p *models.Participation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		history := snapshot(p)
		return tx.Create(&history).Error
	})
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*models.Participation, error) {
	var p models.Participation
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) ExistsForUserAndEvent(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) Save(ctx context.Context, p *models.Participation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		history := snapshot(p)
		return tx.Create(&history).Error
	})
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&models.Participation{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Unscoped().Where("participation_id = ?", id).Delete(&models.ParticipationHistory{}).Error
	})
}

func (r *GormRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.Participation, error) {
	var out []models.Participation
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at asc, id asc").Find(&out).Error
	return out, err
}

func (r *GormRepository) ListByUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	var out []models.Participation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("registered_at desc, id desc").Find(&out).Error
	return out, err
}

func (r *GormRepository) CountByStatus(ctx context.Context, eventID uint, status models.ParticipationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) History(ctx context.Context, participationID uint) ([]models.ParticipationHistory, error) {
	var out []models.ParticipationHistory
	err := r.db.WithContext(ctx).
		Where("participation_id = ?", participationID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) EventCapacity(ctx context.Context, eventID uint) (int, error) {
	var event models.Event
	err := r.db.WithContext(ctx).First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return event.Capacity, nil
}

func (r *GormRepository) SetEventCapacity(ctx context.Context, eventID uint, capacity int) error {
	event := models.Event{ID: eventID, Capacity: capacity}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"capacity", "updated_at"}),
	}).Create(&event).Error
}
