package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// One table per catering variant.

type CateringMenu struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	OptionID  *uint  `gorm:"index"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CateringOption struct {
	ID           uint    `gorm:"primaryKey"`
	Label        string  `gorm:"not null"`
	EventTypeTag *string `gorm:"index"`
	Active       bool    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CateringMeal struct {
	ID            uint            `gorm:"primaryKey"`
	MealName      string          `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Date          datatypes.Date  `gorm:"not null;uniqueIndex:idx_meal_participant_date"`
	ParticipantID uint            `gorm:"not null;uniqueIndex:idx_meal_participant_date"`
	Active        bool            `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CateringRestriction struct {
	ID          uint   `gorm:"primaryKey"`
	Label       string `gorm:"not null"`
	Description string
	Active      bool `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CateringPresence struct {
	ID                     uint           `gorm:"primaryKey"`
	ParticipantID          uint           `gorm:"not null;index"`
	PresenceDate           datatypes.Date `gorm:"not null"`
	MembershipActiveAtTime bool
	Active                 bool `gorm:"not null"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
