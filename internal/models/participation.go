package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ParticipationKind string

const (
	ParticipationSimple  ParticipationKind = "SIMPLE"
	ParticipationLodging ParticipationKind = "LODGING"
	ParticipationGroup   ParticipationKind = "GROUP"
)

func (k ParticipationKind) Valid() bool {
	switch k {
	case ParticipationSimple, ParticipationLodging, ParticipationGroup:
		return true
	}
	return false
}

type SocialContext string

const (
	SocialSolo         SocialContext = "SOLO"
	SocialCouple       SocialContext = "COUPLE"
	SocialFamily       SocialContext = "FAMILY"
	SocialFriends      SocialContext = "FRIENDS"
	SocialOrganization SocialContext = "ORGANIZATION"
)

func (s SocialContext) Valid() bool {
	switch s {
	case SocialSolo, SocialCouple, SocialFamily, SocialFriends, SocialOrganization:
		return true
	}
	return false
}

type ParticipationStatus string

const (
	StatusPending    ParticipationStatus = "PENDING"
	StatusConfirmed  ParticipationStatus = "CONFIRMED"
	StatusWaitlisted ParticipationStatus = "WAITLISTED"
	StatusCancelled  ParticipationStatus = "CANCELLED"
)

const (
	TierMember   = "MEMBER"
	TierStandard = "STANDARD"
)

// ParticipationFields is the mutable part of a participation, shared with its history snapshots.
type ParticipationFields struct {
	Kind                   ParticipationKind   `gorm:"type:varchar(16);not null" json:"kind"`
	SocialContext          SocialContext       `gorm:"type:varchar(16);not null" json:"social_context"`
	AdultCount             int                 `json:"adult_count"`
	ChildCount             int                 `json:"child_count"`
	DogCount               int                 `json:"dog_count"`
	TotalParticipants      int                 `json:"total_participants"`
	LodgingNights          int                 `json:"lodging_nights"`
	ComputedAmount         decimal.Decimal     `gorm:"type:decimal(10,2)" json:"computed_amount"`
	Currency               string              `gorm:"type:varchar(8)" json:"currency"`
	SubscriptionTierChosen string              `gorm:"type:varchar(16)" json:"subscription_tier_chosen"`
	Status                 ParticipationStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	BadgeCode              *string             `gorm:"type:varchar(16)" json:"badge_code"`
	Comment                string              `json:"comment"`
	SpecialNeeds           string              `json:"special_needs"`
}

type Participation struct {
	gorm.Model
	UserID              uint      `gorm:"not null;uniqueIndex:idx_participation_user_event" json:"user_id"`
	EventID             uint      `gorm:"not null;uniqueIndex:idx_participation_user_event;index" json:"event_id"`
	RegisteredAt        time.Time `json:"registered_at"`
	ParticipationFields `gorm:"embedded"`
}
