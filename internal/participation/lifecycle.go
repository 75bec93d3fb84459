package participation

import (
	"context"
	"fmt"
	"slices"

	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/gdg-garage/outing-api/internal/validation"
)

var (
	confirmableFrom = []models.ParticipationStatus{models.StatusPending, models.StatusWaitlisted}
	cancellableFrom = []models.ParticipationStatus{models.StatusPending, models.StatusWaitlisted, models.StatusConfirmed}
	waitlistFrom    = []models.ParticipationStatus{models.StatusPending}
	promotableFrom  = []models.ParticipationStatus{models.StatusWaitlisted}
)

func (s *Service) transition(
	ctx context.Context,
	id uint,
	from []models.ParticipationStatus,
	to models.ParticipationStatus,
	apply func(p *models.Participation) error,
) (*models.Participation, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(from, p.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", p.Status, to, apperrors.ErrInvalidTransition)
	}
	if apply != nil {
		if err := apply(p); err != nil {
			return nil, err
		}
	}
	p.Status = to
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperrors.FromStore("save participation", err, "")
	}
	return p, nil
}

func (s *Service) requireFreeSlot(ctx context.Context) func(p *models.Participation) error {
	return func(p *models.Participation) error {
		free, err := s.AvailableSlots(ctx, p.EventID)
		if err != nil {
			return err
		}
		if free <= 0 {
			return apperrors.Conflict(fmt.Sprintf("event %d is full", p.EventID))
		}
		return nil
	}
}

// Confirm moves a PENDING or WAITLISTED participation to CONFIRMED if the event
// still has a free slot.
func (s *Service) Confirm(ctx context.Context, id uint) (*models.Participation, error) {
	return s.transition(ctx, id, confirmableFrom, models.StatusConfirmed, s.requireFreeSlot(ctx))
}

// Promote confirms a WAITLISTED participation.
func (s *Service) Promote(ctx context.Context, id uint) (*models.Participation, error) {
	return s.transition(ctx, id, promotableFrom, models.StatusConfirmed, s.requireFreeSlot(ctx))
}

func (s *Service) Waitlist(ctx context.Context, id uint) (*models.Participation, error) {
	return s.transition(ctx, id, waitlistFrom, models.StatusWaitlisted, nil)
}

// Cancel is allowed from any non-terminal state; reason is appended to the comment.
func (s *Service) Cancel(ctx context.Context, id uint, reason string) (*models.Participation, error) {
	return s.transition(ctx, id, cancellableFrom, models.StatusCancelled, func(p *models.Participation) error {
		p.Comment = appendReason(p.Comment, reason)
		return nil
	})
}

func (s *Service) capacity(ctx context.Context, eventID uint) (int, error) {
	capacity, err := s.repo.EventCapacity(ctx, eventID)
	if err != nil {
		return 0, apperrors.FromStore("load event capacity", err, "")
	}
	if capacity <= 0 {
		return s.defaultCapacity, nil
	}
	return capacity, nil
}

// AvailableSlots is the event capacity minus its CONFIRMED participations, floored at zero.
func (s *Service) AvailableSlots(ctx context.Context, eventID uint) (int, error) {
	capacity, err := s.capacity(ctx, eventID)
	if err != nil {
		return 0, err
	}
	confirmed, err := s.repo.CountByStatus(ctx, eventID, models.StatusConfirmed)
	if err != nil {
		return 0, apperrors.FromStore("count confirmed participations", err, "")
	}
	return max(capacity-int(confirmed), 0), nil
}

func (s *Service) CanRegister(ctx context.Context, eventID uint) (bool, error) {
	free, err := s.AvailableSlots(ctx, eventID)
	return free > 0, err
}

// SetCapacity overrides the default capacity for one event. Zero restores the default.
func (s *Service) SetCapacity(ctx context.Context, eventID uint, capacity int) error {
	res := validation.New()
	if eventID == 0 {
		res.AddFieldError("event_id", "event_id is required")
	}
	if capacity < 0 {
		res.AddFieldError("capacity", "capacity cannot be negative")
	}
	if res.HasErrors() {
		return &apperrors.ValidationError{Result: res}
	}
	return apperrors.FromStore("set event capacity", s.repo.SetEventCapacity(ctx, eventID, capacity), "")
}
