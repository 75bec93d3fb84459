package models

import (
	"gorm.io/gorm"
)

type ParticipationHistory struct {
	gorm.Model
	ParticipationID     uint `gorm:"index" json:"participation_id"`
	UserID              uint `json:"user_id"`
	EventID             uint `json:"event_id"`
	ParticipationFields `gorm:"embedded"`
}
