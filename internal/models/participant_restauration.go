package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SeverityLevel string

const (
	SeverityMild     SeverityLevel = "MILD"
	SeverityModerate SeverityLevel = "MODERATE"
	SeveritySevere   SeverityLevel = "SEVERE"
)

func (s SeverityLevel) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// ParticipantRestauration is a participant's dietary need for one event.
type ParticipantRestauration struct {
	gorm.Model
	ParticipantID          uint            `gorm:"not null;index" json:"participant_id"`
	EventID                uint            `gorm:"not null;index" json:"event_id"`
	NeedLabel              string          `json:"need_label"`
	NeedDescription        string          `json:"need_description"`
	RestrictionLabel       string          `json:"restriction_label"`
	RestrictionDescription string          `json:"restriction_description"`
	SeverityLevel          SeverityLevel   `gorm:"type:varchar(16)" json:"severity_level"`
	RestrictionActive      bool            `json:"restriction_active"`
	ProposedMenuID         *uint           `json:"proposed_menu_id"`
	ChoiceMadeAt           *time.Time      `json:"choice_made_at"`
	ModificationDeadline   *datatypes.Date `json:"modification_deadline"`
	Cancelled              bool            `json:"cancelled"`
}
