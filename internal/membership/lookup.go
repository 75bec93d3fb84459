// Package membership answers whether a user currently holds an active subscription.
package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/gorm"
)

type Lookup interface {
	IsMembershipActive(ctx context.Context, userID uint) (bool, error)
}

type GormLookup struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLookup(db *gorm.DB) *GormLookup {
	return &GormLookup{db: db, now: time.Now}
}

func (l *GormLookup) IsMembershipActive(ctx context.Context, userID uint) (bool, error) {
	var subs []models.Subscription
	if err := l.db.WithContext(ctx).Where("user_id = ? AND active = ?", userID, true).Find(&subs).Error; err != nil {
		return false, fmt.Errorf("load subscriptions: %w", err)
	}

	now := l.now()
	for _, s := range subs {
		if s.ActiveAt(now) {
			return true, nil
		}
	}
	return false, nil
}
