// Package catering stores catering records of several variants behind one
// Restauration type. The variant decides which payload is set and which table
// the record lives in.
package catering

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindMenu        Kind = "MENU"
	KindOption      Kind = "OPTION"
	KindMeal        Kind = "MEAL"
	KindRestriction Kind = "RESTRICTION"
	KindPresence    Kind = "PRESENCE"
)

var Kinds = []Kind{KindMenu, KindOption, KindMeal, KindRestriction, KindPresence}

type Menu struct {
	Name     string `json:"name"`
	OptionID *uint  `json:"option_id,omitempty"`
}

type Option struct {
	Label        string  `json:"label"`
	EventTypeTag *string `json:"event_type_tag,omitempty"`
}

type Meal struct {
	MealName      string          `json:"meal_name"`
	Price         decimal.Decimal `json:"price"`
	Date          time.Time       `json:"date"`
	ParticipantID uint            `json:"participant_id"`
}

type Restriction struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type Presence struct {
	ParticipantID          uint      `json:"participant_id"`
	PresenceDate           time.Time `json:"presence_date"`
	MembershipActiveAtTime bool      `json:"membership_active_at_time"`
}

// Restauration is a tagged union: Kind names the one payload pointer that is set.
type Restauration struct {
	ID     uint `json:"id"`
	Kind   Kind `json:"kind"`
	Active bool `json:"active"`

	Menu        *Menu        `json:"menu,omitempty"`
	Option      *Option      `json:"option,omitempty"`
	Meal        *Meal        `json:"meal,omitempty"`
	Restriction *Restriction `json:"restriction,omitempty"`
	Presence    *Presence    `json:"presence,omitempty"`
}

func NewMenu(name string, optionID *uint) Restauration {
	return Restauration{Kind: KindMenu, Active: true, Menu: &Menu{Name: name, OptionID: optionID}}
}

func NewOption(label string, eventTypeTag *string) Restauration {
	return Restauration{Kind: KindOption, Active: true, Option: &Option{Label: label, EventTypeTag: eventTypeTag}}
}

func NewMeal(name string, price decimal.Decimal, date time.Time, participantID uint) Restauration {
	return Restauration{Kind: KindMeal, Active: true, Meal: &Meal{
		MealName:      name,
		Price:         price,
		Date:          dayOf(date),
		ParticipantID: participantID,
	}}
}

func NewRestriction(label, description string) Restauration {
	return Restauration{Kind: KindRestriction, Active: true, Restriction: &Restriction{Label: label, Description: description}}
}

func NewPresence(participantID uint, date time.Time, membershipActive bool) Restauration {
	return Restauration{Kind: KindPresence, Active: true, Presence: &Presence{
		ParticipantID:          participantID,
		PresenceDate:           dayOf(date),
		MembershipActiveAtTime: membershipActive,
	}}
}

// dayOf truncates t to its calendar day at UTC midnight.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
