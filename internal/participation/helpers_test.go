package participation

import (
	"context"
	"errors"
	"testing"

	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMembership struct {
	active map[uint]bool
	err    error
}

func (f *fakeMembership) IsMembershipActive(ctx context.Context, userID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[userID], nil
}

func setupService(t *testing.T) (*Service, *gorm.DB, *fakeMembership) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := &fakeMembership{active: map[uint]bool{}}
	return NewService(NewGormRepository(db), fake, Options{}), db, fake
}

func simpleRequest(userID, eventID uint) CreateRequest {
	return CreateRequest{
		UserID:        userID,
		EventID:       eventID,
		Kind:          models.ParticipationSimple,
		SocialContext: models.SocialFamily,
	}
}

func seedConfirmed(t *testing.T, db *gorm.DB, eventID uint, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := models.Participation{
			UserID:  uint(1000 + i),
			EventID: eventID,
			ParticipationFields: models.ParticipationFields{
				Kind:          models.ParticipationSimple,
				SocialContext: models.SocialSolo,
				AdultCount:    1,
				Status:        models.StatusConfirmed,
			},
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed confirmed participation: %v", err)
		}
	}
}

var errLookupDown = errors.New("membership service unavailable")
