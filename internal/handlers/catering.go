package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/catering"
	"github.com/shopspring/decimal"
)

type CateringHandler struct {
	router *catering.Router
}

func NewCateringHandler(router *catering.Router) *CateringHandler {
	return &CateringHandler{router: router}
}

// parseKind accepts the kind in any case, singular or plural ("meal", "MEALS").
func parseKind(raw string) catering.Kind {
	kind := strings.ToUpper(strings.TrimSpace(raw))
	for _, k := range catering.Kinds {
		if kind == string(k) || kind == string(k)+"S" {
			return k
		}
	}
	return catering.Kind(kind)
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, invalid(field, field+" must be a date (YYYY-MM-DD)")
	}
	return t, nil
}

type MenuBody struct {
	Name     string `json:"name,omitempty"`
	OptionID *uint  `json:"option_id,omitempty"`
}

type OptionBody struct {
	Label        string  `json:"label,omitempty"`
	EventTypeTag *string `json:"event_type_tag,omitempty"`
}

type MealBody struct {
	MealName      string `json:"meal_name,omitempty"`
	Price         string `json:"price,omitempty" doc:"Decimal amount, e.g. 12.50"`
	Date          string `json:"date,omitempty" doc:"YYYY-MM-DD"`
	ParticipantID uint   `json:"participant_id,omitempty"`
}

type RestrictionBody struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

type PresenceBody struct {
	ParticipantID          uint   `json:"participant_id,omitempty"`
	PresenceDate           string `json:"presence_date,omitempty" doc:"YYYY-MM-DD"`
	MembershipActiveAtTime bool   `json:"membership_active_at_time,omitempty"`
}

// CateringBody carries the payload matching the kind in the path; the others are ignored.
type CateringBody struct {
	Active      *bool            `json:"active,omitempty" doc:"Defaults to true"`
	Menu        *MenuBody        `json:"menu,omitempty"`
	Option      *OptionBody      `json:"option,omitempty"`
	Meal        *MealBody        `json:"meal,omitempty"`
	Restriction *RestrictionBody `json:"restriction,omitempty"`
	Presence    *PresenceBody    `json:"presence,omitempty"`
}

func (b CateringBody) restauration(kind catering.Kind) (catering.Restauration, error) {
	r := catering.Restauration{Kind: kind, Active: true}
	if b.Active != nil {
		r.Active = *b.Active
	}

	switch kind {
	case catering.KindMenu:
		if b.Menu != nil {
			r.Menu = &catering.Menu{Name: b.Menu.Name, OptionID: b.Menu.OptionID}
		}
	case catering.KindOption:
		if b.Option != nil {
			r.Option = &catering.Option{Label: b.Option.Label, EventTypeTag: b.Option.EventTypeTag}
		}
	case catering.KindMeal:
		if b.Meal != nil {
			price := decimal.Zero
			if b.Meal.Price != "" {
				var err error
				if price, err = decimal.NewFromString(b.Meal.Price); err != nil {
					return r, invalid("price", "price must be a decimal number")
				}
			}
			date, err := parseDate("date", b.Meal.Date)
			if err != nil {
				return r, err
			}
			meal := catering.NewMeal(b.Meal.MealName, price, date, b.Meal.ParticipantID)
			r.Meal = meal.Meal
		}
	case catering.KindRestriction:
		if b.Restriction != nil {
			r.Restriction = &catering.Restriction{Label: b.Restriction.Label, Description: b.Restriction.Description}
		}
	case catering.KindPresence:
		if b.Presence != nil {
			date, err := parseDate("presence_date", b.Presence.PresenceDate)
			if err != nil {
				return r, err
			}
			presence := catering.NewPresence(b.Presence.ParticipantID, date, b.Presence.MembershipActiveAtTime)
			r.Presence = presence.Presence
		}
	}
	return r, nil
}

type CateringResponse struct {
	Body catering.Restauration
}

type CateringListResponse struct {
	Body []catering.Restauration
}

type CreateCateringRequest struct {
	Kind string `path:"kind" doc:"MENU, OPTION, MEAL, RESTRICTION or PRESENCE"`
	Body CateringBody
}

func (h *CateringHandler) HandleCreate(ctx context.Context, input *CreateCateringRequest) (*CateringResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	r, err := input.Body.restauration(parseKind(input.Kind))
	if err != nil {
		return nil, err
	}
	created, err := h.router.Create(ctx, r)
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringResponse{Body: created}, nil
}

type CateringIDRequest struct {
	Kind string `path:"kind"`
	ID   uint   `path:"id"`
}

func (h *CateringHandler) HandleGet(ctx context.Context, input *CateringIDRequest) (*CateringResponse, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	r, err := h.router.Get(ctx, input.ID, parseKind(input.Kind))
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringResponse{Body: r}, nil
}

type UpdateCateringRequest struct {
	Kind string `path:"kind"`
	ID   uint   `path:"id"`
	Body CateringBody
}

func (h *CateringHandler) HandleUpdate(ctx context.Context, input *UpdateCateringRequest) (*CateringResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	r, err := input.Body.restauration(parseKind(input.Kind))
	if err != nil {
		return nil, err
	}
	r.ID = input.ID
	updated, err := h.router.Update(ctx, r)
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringResponse{Body: updated}, nil
}

func (h *CateringHandler) HandleDelete(ctx context.Context, input *CateringIDRequest) (*DeleteResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.router.Delete(ctx, input.ID, parseKind(input.Kind)); err != nil {
		return nil, apiError(err)
	}
	res := &DeleteResponse{}
	res.Body.Message = "Catering record deleted"
	return res, nil
}

func (h *CateringHandler) HandleActiveMenus(ctx context.Context, input *struct{}) (*CateringListResponse, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	menus, err := h.router.ActiveMenus(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringListResponse{Body: menus}, nil
}

type OptionsRequest struct {
	EventType string `query:"event_type" doc:"Event type tag; all active options when blank or unmatched"`
}

func (h *CateringHandler) HandleOptions(ctx context.Context, input *OptionsRequest) (*CateringListResponse, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	options, err := h.router.OptionsByEventType(ctx, input.EventType)
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringListResponse{Body: options}, nil
}

type MealsRequest struct {
	ParticipantID uint   `query:"participant_id" required:"true"`
	Date          string `query:"date" required:"true" doc:"YYYY-MM-DD"`
}

func (h *CateringHandler) HandleMeals(ctx context.Context, input *MealsRequest) (*CateringListResponse, error) {
	if _, err := requireOwner(ctx, input.ParticipantID); err != nil {
		return nil, err
	}
	date, err := parseDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, huma.Error422UnprocessableEntity("date is required")
	}
	meals, err := h.router.MealsForParticipantAndDate(ctx, input.ParticipantID, date)
	if err != nil {
		return nil, apiError(err)
	}
	return &CateringListResponse{Body: meals}, nil
}
