package models

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	gorm.Model
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Active   bool       `json:"active"`
}

func (s Subscription) ActiveAt(t time.Time) bool {
	if !s.Active || t.Before(s.StartsAt) {
		return false
	}
	return s.EndsAt == nil || !t.After(*s.EndsAt)
}
