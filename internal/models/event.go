package models

import (
	"time"
)

// Event only carries what admission needs; the event catalogue itself lives elsewhere.
type Event struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `json:"name"`
	StartsAt  *time.Time `json:"starts_at"`
	Capacity  int        `json:"capacity"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
