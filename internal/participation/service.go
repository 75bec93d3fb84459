// Package participation admits members to events: it validates and prices
// registrations, then drives them through PENDING, WAITLISTED, CONFIRMED and CANCELLED.
package participation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/membership"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/gdg-garage/outing-api/internal/tariff"
	"github.com/gdg-garage/outing-api/internal/validation"
)

const (
	DefaultCapacity = 100
	DefaultCurrency = "TND"
)

type Options struct {
	DefaultCapacity int
	Currency        string
}

type Service struct {
	repo            Repository
	membership      membership.Lookup
	defaultCapacity int
	currency        string
	now             func() time.Time
	newBadge        func() string
}

func NewService(repo Repository, lookup membership.Lookup, opts Options) *Service {
	if opts.DefaultCapacity <= 0 {
		opts.DefaultCapacity = DefaultCapacity
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	return &Service{
		repo:            repo,
		membership:      lookup,
		defaultCapacity: opts.DefaultCapacity,
		currency:        opts.Currency,
		now:             time.Now,
		newBadge:        newBadgeCode,
	}
}

// Currency is the currency new participations are priced in unless they name one.
func (s *Service) Currency() string {
	return s.currency
}

type CreateRequest struct {
	UserID        uint
	EventID       uint
	Kind          models.ParticipationKind
	SocialContext models.SocialContext
	AdultCount    int
	ChildCount    int
	DogCount      int
	LodgingNights int
	Currency      string
	RegisteredAt  *time.Time
	Comment       string
	SpecialNeeds  string
}

func duplicateMessage(userID, eventID uint) string {
	return fmt.Sprintf("user %d is already registered for event %d", userID, eventID)
}

func validateCounts(res *validation.Result, children, dogs, nights int) {
	if children < 0 {
		res.AddFieldError("child_count", "child_count cannot be negative")
	}
	if dogs < 0 {
		res.AddFieldError("dog_count", "dog_count cannot be negative")
	}
	if nights < 0 {
		res.AddFieldError("lodging_nights", "lodging_nights cannot be negative")
	}
}

// Create validates, prices and stores a new participation in PENDING.
// Every validation failure is reported together; a request whose only problem is an
// existing registration for the same user and event fails with a ConflictError.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Participation, error) {
	res := validation.New()
	if req.UserID == 0 {
		res.AddFieldError("user_id", "user_id is required")
	}
	if req.EventID == 0 {
		res.AddFieldError("event_id", "event_id is required")
	}
	if req.Kind == "" {
		res.AddFieldError("kind", "kind is required")
	} else if !req.Kind.Valid() {
		res.AddFieldError("kind", "kind must be one of SIMPLE, LODGING, GROUP")
	}
	if req.SocialContext == "" {
		res.AddFieldError("social_context", "social_context is required")
	} else if !req.SocialContext.Valid() {
		res.AddFieldError("social_context", "social_context must be one of SOLO, COUPLE, FAMILY, FRIENDS, ORGANIZATION")
	}
	validateCounts(res, req.ChildCount, req.DogCount, req.LodgingNights)

	duplicate := false
	if req.UserID > 0 && req.EventID > 0 {
		exists, err := s.repo.ExistsForUserAndEvent(ctx, req.UserID, req.EventID)
		if err != nil {
			return nil, apperrors.FromStore("check existing participation", err, "")
		}
		if exists {
			duplicate = true
			res.AddGlobalError(duplicateMessage(req.UserID, req.EventID))
		}
	}

	if res.HasErrors() {
		if duplicate && len(res.Messages()) == 1 {
			return nil, apperrors.Conflict(res.Messages()...)
		}
		return nil, &apperrors.ValidationError{Result: res}
	}

	adults := req.AdultCount
	if adults <= 0 {
		adults = 1
	}

	member, err := s.membership.IsMembershipActive(ctx, req.UserID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "membership lookup", Err: err}
	}
	quote := tariff.Compute(adults, req.ChildCount, member)

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}
	registeredAt := s.now()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	p := &models.Participation{
		UserID:       req.UserID,
		EventID:      req.EventID,
		RegisteredAt: registeredAt,
		ParticipationFields: models.ParticipationFields{
			Kind:                   req.Kind,
			SocialContext:          req.SocialContext,
			AdultCount:             adults,
			ChildCount:             req.ChildCount,
			DogCount:               req.DogCount,
			TotalParticipants:      adults + req.ChildCount,
			LodgingNights:          req.LodgingNights,
			ComputedAmount:         quote.Amount,
			Currency:               currency,
			SubscriptionTierChosen: quote.Tier,
			Status:                 models.StatusPending,
			Comment:                req.Comment,
			SpecialNeeds:           req.SpecialNeeds,
		},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperrors.FromStore("insert participation", err, duplicateMessage(req.UserID, req.EventID))
	}
	return p, nil
}

// Quote prices a party without storing anything.
func (s *Service) Quote(ctx context.Context, userID uint, adults, children int) (tariff.Quote, error) {
	if adults <= 0 {
		adults = 1
	}
	if children < 0 {
		res := validation.New()
		res.AddFieldError("child_count", "child_count cannot be negative")
		return tariff.Quote{}, &apperrors.ValidationError{Result: res}
	}

	member := false
	if userID > 0 {
		var err error
		member, err = s.membership.IsMembershipActive(ctx, userID)
		if err != nil {
			return tariff.Quote{}, &apperrors.PersistenceError{Op: "membership lookup", Err: err}
		}
	}
	return tariff.Compute(adults, children, member), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Participation, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromStore("get participation", err, "")
	}
	return p, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID uint) ([]models.Participation, error) {
	out, err := s.repo.ListByEvent(ctx, eventID)
	return out, apperrors.FromStore("list participations", err, "")
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	return out, apperrors.FromStore("list participations", err, "")
}

func (s *Service) History(ctx context.Context, id uint) ([]models.ParticipationHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.repo.History(ctx, id)
	return out, apperrors.FromStore("list participation history", err, "")
}

type UpdateRequest struct {
	SocialContext *models.SocialContext
	AdultCount    *int
	ChildCount    *int
	DogCount      *int
	LodgingNights *int
	Comment       *string
	SpecialNeeds  *string
}

// Update edits the party and free-text fields. Counts are re-priced with the current
// membership status. The user/event pair is never re-checked for duplicates here.
// CANCELLED participations are frozen.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*models.Participation, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.StatusCancelled {
		return nil, fmt.Errorf("update %s participation: %w", p.Status, apperrors.ErrInvalidTransition)
	}

	if req.SocialContext != nil {
		p.SocialContext = *req.SocialContext
	}
	if req.AdultCount != nil {
		p.AdultCount = *req.AdultCount
	}
	if req.ChildCount != nil {
		p.ChildCount = *req.ChildCount
	}
	if req.DogCount != nil {
		p.DogCount = *req.DogCount
	}
	if req.LodgingNights != nil {
		p.LodgingNights = *req.LodgingNights
	}
	if req.Comment != nil {
		p.Comment = *req.Comment
	}
	if req.SpecialNeeds != nil {
		p.SpecialNeeds = *req.SpecialNeeds
	}

	res := validation.New()
	if !p.SocialContext.Valid() {
		res.AddFieldError("social_context", "social_context must be one of SOLO, COUPLE, FAMILY, FRIENDS, ORGANIZATION")
	}
	validateCounts(res, p.ChildCount, p.DogCount, p.LodgingNights)
	if res.HasErrors() {
		return nil, &apperrors.ValidationError{Result: res}
	}

	if p.AdultCount <= 0 {
		p.AdultCount = 1
	}
	p.TotalParticipants = p.AdultCount + p.ChildCount

	if req.AdultCount != nil || req.ChildCount != nil {
		member, err := s.membership.IsMembershipActive(ctx, p.UserID)
		if err != nil {
			return nil, &apperrors.PersistenceError{Op: "membership lookup", Err: err}
		}
		quote := tariff.Compute(p.AdultCount, p.ChildCount, member)
		p.ComputedAmount = quote.Amount
		p.SubscriptionTierChosen = quote.Tier
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperrors.FromStore("update participation", err, "")
	}
	return p, nil
}

// Delete physically removes a participation and its history.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return apperrors.FromStore("delete participation", s.repo.Delete(ctx, id), "")
}

func appendReason(comment, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return comment
	}
	note := "Cancelled: " + reason
	if comment == "" {
		return note
	}
	return comment + "\n" + note
}
