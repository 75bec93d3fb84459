package handlers

import (
	"context"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/gdg-garage/outing-api/internal/notifier"
	"github.com/gdg-garage/outing-api/internal/participation"
	"gorm.io/gorm"
)

type ParticipationHandler struct {
	db       *gorm.DB
	service  *participation.Service
	notifier notifier.Notifier
}

func NewParticipationHandler(db *gorm.DB, service *participation.Service, notifier notifier.Notifier) *ParticipationHandler {
	return &ParticipationHandler{db: db, service: service, notifier: notifier}
}

type ParticipationView struct {
	ID                     uint      `json:"id"`
	UserID                 uint      `json:"user_id"`
	EventID                uint      `json:"event_id"`
	Kind                   string    `json:"kind"`
	SocialContext          string    `json:"social_context"`
	AdultCount             int       `json:"adult_count"`
	ChildCount             int       `json:"child_count"`
	DogCount               int       `json:"dog_count"`
	TotalParticipants      int       `json:"total_participants"`
	LodgingNights          int       `json:"lodging_nights"`
	ComputedAmount         string    `json:"computed_amount" doc:"Amount with two decimals"`
	Currency               string    `json:"currency"`
	SubscriptionTierChosen string    `json:"subscription_tier_chosen"`
	Status                 string    `json:"status"`
	BadgeCode              *string   `json:"badge_code,omitempty"`
	Comment                string    `json:"comment"`
	SpecialNeeds           string    `json:"special_needs"`
	RegisteredAt           time.Time `json:"registered_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func viewOf(p *models.Participation) ParticipationView {
	return ParticipationView{
		ID:                     p.ID,
		UserID:                 p.UserID,
		EventID:                p.EventID,
		Kind:                   string(p.Kind),
		SocialContext:          string(p.SocialContext),
		AdultCount:             p.AdultCount,
		ChildCount:             p.ChildCount,
		DogCount:               p.DogCount,
		TotalParticipants:      p.TotalParticipants,
		LodgingNights:          p.LodgingNights,
		ComputedAmount:         p.ComputedAmount.StringFixed(2),
		Currency:               p.Currency,
		SubscriptionTierChosen: p.SubscriptionTierChosen,
		Status:                 string(p.Status),
		BadgeCode:              p.BadgeCode,
		Comment:                p.Comment,
		SpecialNeeds:           p.SpecialNeeds,
		RegisteredAt:           p.RegisteredAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

type ParticipationResponse struct {
	Body ParticipationView
}

func respond(p *models.Participation) *ParticipationResponse {
	return &ParticipationResponse{Body: viewOf(p)}
}

// notify reports a participation change. Failures never fail the request.
func (h *ParticipationHandler) notify(ctx context.Context, p *models.Participation) {
	if h.notifier == nil {
		return
	}
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, p.UserID).Error; err != nil {
		log.Printf("Notification skipped, user %d not found: %v", p.UserID, err)
		return
	}
	if err := h.notifier.NotifyParticipation(ctx, user, *p); err != nil {
		log.Printf("Failed to notify participation %d: %v", p.ID, err)
	}
}

type CreateParticipationRequest struct {
	Body struct {
		UserID        uint   `json:"user_id,omitempty" doc:"Defaults to the caller; admins may register another user"`
		EventID       uint   `json:"event_id,omitempty" doc:"Event to join"`
		Kind          string `json:"kind,omitempty" doc:"SIMPLE, LODGING or GROUP"`
		SocialContext string `json:"social_context,omitempty" doc:"SOLO, COUPLE, FAMILY, FRIENDS or ORGANIZATION"`
		AdultCount    int    `json:"adult_count,omitempty" doc:"Adults in the party; values below 1 count as 1"`
		ChildCount    int    `json:"child_count,omitempty" doc:"Children in the party"`
		DogCount      int    `json:"dog_count,omitempty"`
		LodgingNights int    `json:"lodging_nights,omitempty"`
		Currency      string `json:"currency,omitempty" doc:"Admins only; defaults to the configured currency"`
		Comment       string `json:"comment,omitempty"`
		SpecialNeeds  string `json:"special_needs,omitempty"`
	}
}

func (h *ParticipationHandler) HandleCreate(ctx context.Context, input *CreateParticipationRequest) (*ParticipationResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := actingUser(principal, input.Body.UserID)
	if err != nil {
		return nil, err
	}
	if input.Body.Currency != "" && !principal.IsAdmin() {
		return nil, huma.Error403Forbidden("Access denied: only admins choose the currency")
	}

	p, err := h.service.Create(ctx, participation.CreateRequest{
		UserID:        userID,
		EventID:       input.Body.EventID,
		Kind:          models.ParticipationKind(input.Body.Kind),
		SocialContext: models.SocialContext(input.Body.SocialContext),
		AdultCount:    input.Body.AdultCount,
		ChildCount:    input.Body.ChildCount,
		DogCount:      input.Body.DogCount,
		LodgingNights: input.Body.LodgingNights,
		Currency:      input.Body.Currency,
		Comment:       input.Body.Comment,
		SpecialNeeds:  input.Body.SpecialNeeds,
	})
	if err != nil {
		return nil, apiError(err)
	}

	h.notify(ctx, p)
	return respond(p), nil
}

type QuoteRequest struct {
	UserID     uint `query:"user_id" doc:"Price for another user (admins only)"`
	AdultCount int  `query:"adults" doc:"Adults in the party"`
	ChildCount int  `query:"children" doc:"Children in the party"`
}

type QuoteResponse struct {
	Body struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Tier     string `json:"tier"`
	}
}

func (h *ParticipationHandler) HandleQuote(ctx context.Context, input *QuoteRequest) (*QuoteResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := actingUser(principal, input.UserID)
	if err != nil {
		return nil, err
	}

	quote, err := h.service.Quote(ctx, userID, input.AdultCount, input.ChildCount)
	if err != nil {
		return nil, apiError(err)
	}

	res := &QuoteResponse{}
	res.Body.Amount = quote.Amount.StringFixed(2)
	res.Body.Currency = h.service.Currency()
	res.Body.Tier = quote.Tier
	return res, nil
}

type ListParticipationsRequest struct {
	EventID uint `query:"event_id" doc:"List an event's participations (admins only)"`
	UserID  uint `query:"user_id" doc:"Defaults to the caller"`
}

type ListParticipationsResponse struct {
	Body []ParticipationView
}

func (h *ParticipationHandler) HandleList(ctx context.Context, input *ListParticipationsRequest) (*ListParticipationsResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var list []models.Participation
	if input.EventID != 0 {
		if _, err := requireAdmin(ctx); err != nil {
			return nil, err
		}
		list, err = h.service.ListByEvent(ctx, input.EventID)
	} else {
		userID, aerr := actingUser(principal, input.UserID)
		if aerr != nil {
			return nil, aerr
		}
		list, err = h.service.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, apiError(err)
	}

	res := &ListParticipationsResponse{Body: make([]ParticipationView, 0, len(list))}
	for i := range list {
		res.Body = append(res.Body, viewOf(&list[i]))
	}
	return res, nil
}

type ParticipationIDRequest struct {
	ID uint `path:"id" doc:"Participation ID"`
}

// load fetches a participation the caller may see.
func (h *ParticipationHandler) load(ctx context.Context, id uint) (*models.Participation, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	p, err := h.service.Get(ctx, id)
	if err != nil {
		return nil, apiError(err)
	}
	if _, err := requireOwner(ctx, p.UserID); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *ParticipationHandler) HandleGet(ctx context.Context, input *ParticipationIDRequest) (*ParticipationResponse, error) {
	p, err := h.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return respond(p), nil
}

type UpdateParticipationRequest struct {
	ID   uint `path:"id" doc:"Participation ID"`
	Body struct {
		SocialContext *string `json:"social_context,omitempty"`
		AdultCount    *int    `json:"adult_count,omitempty"`
		ChildCount    *int    `json:"child_count,omitempty"`
		DogCount      *int    `json:"dog_count,omitempty"`
		LodgingNights *int    `json:"lodging_nights,omitempty"`
		Comment       *string `json:"comment,omitempty"`
		SpecialNeeds  *string `json:"special_needs,omitempty"`
	}
}

func (h *ParticipationHandler) HandleUpdate(ctx context.Context, input *UpdateParticipationRequest) (*ParticipationResponse, error) {
	if _, err := h.load(ctx, input.ID); err != nil {
		return nil, err
	}

	req := participation.UpdateRequest{
		AdultCount:    input.Body.AdultCount,
		ChildCount:    input.Body.ChildCount,
		DogCount:      input.Body.DogCount,
		LodgingNights: input.Body.LodgingNights,
		Comment:       input.Body.Comment,
		SpecialNeeds:  input.Body.SpecialNeeds,
	}
	if input.Body.SocialContext != nil {
		sc := models.SocialContext(*input.Body.SocialContext)
		req.SocialContext = &sc
	}

	p, err := h.service.Update(ctx, input.ID, req)
	if err != nil {
		return nil, apiError(err)
	}
	return respond(p), nil
}

type HistoryEntry struct {
	ID            uint      `json:"id"`
	Status        string    `json:"status"`
	AdultCount    int       `json:"adult_count"`
	ChildCount    int       `json:"child_count"`
	Amount        string    `json:"computed_amount"`
	SocialContext string    `json:"social_context"`
	Comment       string    `json:"comment"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type HistoryResponse struct {
	Body []HistoryEntry
}

func (h *ParticipationHandler) HandleHistory(ctx context.Context, input *ParticipationIDRequest) (*HistoryResponse, error) {
	if _, err := h.load(ctx, input.ID); err != nil {
		return nil, err
	}

	history, err := h.service.History(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}

	res := &HistoryResponse{Body: make([]HistoryEntry, 0, len(history))}
	for _, entry := range history {
		res.Body = append(res.Body, HistoryEntry{
			ID:            entry.ID,
			Status:        string(entry.Status),
			AdultCount:    entry.AdultCount,
			ChildCount:    entry.ChildCount,
			Amount:        entry.ComputedAmount.StringFixed(2),
			SocialContext: string(entry.SocialContext),
			Comment:       entry.Comment,
			RecordedAt:    entry.CreatedAt,
		})
	}
	return res, nil
}

type transitionFunc func(ctx context.Context, id uint) (*models.Participation, error)

func (h *ParticipationHandler) adminTransition(ctx context.Context, id uint, apply transitionFunc) (*ParticipationResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := apply(ctx, id)
	if err != nil {
		return nil, apiError(err)
	}
	h.notify(ctx, p)
	return respond(p), nil
}

func (h *ParticipationHandler) HandleConfirm(ctx context.Context, input *ParticipationIDRequest) (*ParticipationResponse, error) {
	return h.adminTransition(ctx, input.ID, h.service.Confirm)
}

func (h *ParticipationHandler) HandleWaitlist(ctx context.Context, input *ParticipationIDRequest) (*ParticipationResponse, error) {
	return h.adminTransition(ctx, input.ID, h.service.Waitlist)
}

func (h *ParticipationHandler) HandlePromote(ctx context.Context, input *ParticipationIDRequest) (*ParticipationResponse, error) {
	return h.adminTransition(ctx, input.ID, h.service.Promote)
}

type CancelRequest struct {
	ID     uint   `path:"id" doc:"Participation ID"`
	Reason string `query:"reason" doc:"Appended to the comment"`
}

func (h *ParticipationHandler) HandleCancel(ctx context.Context, input *CancelRequest) (*ParticipationResponse, error) {
	if _, err := h.load(ctx, input.ID); err != nil {
		return nil, err
	}
	p, err := h.service.Cancel(ctx, input.ID, input.Reason)
	if err != nil {
		return nil, apiError(err)
	}
	h.notify(ctx, p)
	return respond(p), nil
}

type BadgeRequest struct {
	ID      uint `path:"id" doc:"Participation ID"`
	Reissue bool `query:"reissue" doc:"Replace an existing badge code"`
}

func (h *ParticipationHandler) HandleBadge(ctx context.Context, input *BadgeRequest) (*ParticipationResponse, error) {
	apply := h.service.AssignBadge
	if input.Reissue {
		apply = h.service.ReissueBadge
	}
	return h.adminTransition(ctx, input.ID, apply)
}

type DeleteResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ParticipationHandler) HandleDelete(ctx context.Context, input *ParticipationIDRequest) (*DeleteResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.service.Delete(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	res := &DeleteResponse{}
	res.Body.Message = "Participation deleted"
	return res, nil
}

type EventIDRequest struct {
	ID uint `path:"id" doc:"Event ID"`
}

type AvailabilityResponse struct {
	Body struct {
		EventID        uint `json:"event_id"`
		AvailableSlots int  `json:"available_slots"`
		CanRegister    bool `json:"can_register"`
	}
}

func (h *ParticipationHandler) HandleAvailability(ctx context.Context, input *EventIDRequest) (*AvailabilityResponse, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	slots, err := h.service.AvailableSlots(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	open, err := h.service.CanRegister(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}

	res := &AvailabilityResponse{}
	res.Body.EventID = input.ID
	res.Body.AvailableSlots = slots
	res.Body.CanRegister = open
	return res, nil
}

type SetCapacityRequest struct {
	ID   uint `path:"id" doc:"Event ID"`
	Body struct {
		Capacity int `json:"capacity,omitempty" doc:"Maximum number of confirmed participations"`
	}
}

func (h *ParticipationHandler) HandleSetCapacity(ctx context.Context, input *SetCapacityRequest) (*AvailabilityResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.service.SetCapacity(ctx, input.ID, input.Body.Capacity); err != nil {
		return nil, apiError(err)
	}
	return h.HandleAvailability(ctx, &EventIDRequest{ID: input.ID})
}
