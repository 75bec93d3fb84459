package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&Subscription{},
		&Participation{},
		&ParticipationHistory{},
		&CateringMenu{},
		&CateringOption{},
		&CateringMeal{},
		&CateringRestriction{},
		&CateringPresence{},
		&ParticipantRestauration{},
	)
}
