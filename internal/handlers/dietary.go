package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/dietary"
	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/datatypes"
)

type DietaryHandler struct {
	gate *dietary.Gate
}

func NewDietaryHandler(gate *dietary.Gate) *DietaryHandler {
	return &DietaryHandler{gate: gate}
}

type DietaryNeedBody struct {
	ParticipantID          uint       `json:"participant_id,omitempty" doc:"Defaults to the caller"`
	EventID                uint       `json:"event_id,omitempty"`
	NeedLabel              string     `json:"need_label,omitempty"`
	NeedDescription        string     `json:"need_description,omitempty"`
	RestrictionLabel       string     `json:"restriction_label,omitempty"`
	RestrictionDescription string     `json:"restriction_description,omitempty"`
	SeverityLevel          string     `json:"severity_level,omitempty" doc:"MILD, MODERATE or SEVERE"`
	RestrictionActive      bool       `json:"restriction_active,omitempty"`
	ProposedMenuID         *uint      `json:"proposed_menu_id,omitempty"`
	ChoiceMadeAt           *time.Time `json:"choice_made_at,omitempty"`
	ModificationDeadline   string     `json:"modification_deadline,omitempty" doc:"Last day the meal choice can change (YYYY-MM-DD)"`
	Cancelled              bool       `json:"cancelled,omitempty"`
}

// apply copies the body onto need. The modification deadline is handled separately.
func (b DietaryNeedBody) apply(need *models.ParticipantRestauration) {
	need.ParticipantID = b.ParticipantID
	need.EventID = b.EventID
	need.NeedLabel = b.NeedLabel
	need.NeedDescription = b.NeedDescription
	need.RestrictionLabel = b.RestrictionLabel
	need.RestrictionDescription = b.RestrictionDescription
	need.SeverityLevel = models.SeverityLevel(b.SeverityLevel)
	need.RestrictionActive = b.RestrictionActive
	need.ProposedMenuID = b.ProposedMenuID
	need.ChoiceMadeAt = b.ChoiceMadeAt
	need.Cancelled = b.Cancelled
}

// deadline parses the requested modification deadline, nil when none was sent.
func (b DietaryNeedBody) deadline() (*datatypes.Date, error) {
	parsed, err := parseDate("modification_deadline", b.ModificationDeadline)
	if err != nil || parsed.IsZero() {
		return nil, err
	}
	d := datatypes.Date(parsed)
	return &d, nil
}

func sameDay(a, b *datatypes.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return time.Time(*a).Format(time.DateOnly) == time.Time(*b).Format(time.DateOnly)
}

func deadlineAdminOnly() error {
	return huma.Error403Forbidden("Access denied: only admins set the modification deadline")
}

type DietaryNeedResponse struct {
	Body models.ParticipantRestauration
}

type CreateDietaryNeedRequest struct {
	Body DietaryNeedBody
}

func (h *DietaryHandler) HandleCreate(ctx context.Context, input *CreateDietaryNeedRequest) (*DietaryNeedResponse, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	participantID, err := actingUser(principal, input.Body.ParticipantID)
	if err != nil {
		return nil, err
	}

	deadline, err := input.Body.deadline()
	if err != nil {
		return nil, err
	}
	if deadline != nil && !principal.IsAdmin() {
		return nil, deadlineAdminOnly()
	}

	need := models.ParticipantRestauration{ModificationDeadline: deadline}
	input.Body.apply(&need)
	need.ParticipantID = participantID

	if err := h.gate.CreateNeed(ctx, &need); err != nil {
		return nil, apiError(err)
	}
	return &DietaryNeedResponse{Body: need}, nil
}

type DietaryNeedIDRequest struct {
	ID uint `path:"id" doc:"Dietary need ID"`
}

func (h *DietaryHandler) load(ctx context.Context, id uint) (*models.ParticipantRestauration, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	need, err := h.gate.GetNeed(ctx, id)
	if err != nil {
		return nil, apiError(err)
	}
	if _, err := requireOwner(ctx, need.ParticipantID); err != nil {
		return nil, err
	}
	return need, nil
}

func (h *DietaryHandler) HandleGet(ctx context.Context, input *DietaryNeedIDRequest) (*DietaryNeedResponse, error) {
	need, err := h.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DietaryNeedResponse{Body: *need}, nil
}

type UpdateDietaryNeedRequest struct {
	ID   uint `path:"id" doc:"Dietary need ID"`
	Body DietaryNeedBody
}

// HandleUpdate lets owners change a need until its modification deadline. Admins
// may change it at any time and are the only ones who can move the deadline.
func (h *DietaryHandler) HandleUpdate(ctx context.Context, input *UpdateDietaryNeedRequest) (*DietaryNeedResponse, error) {
	need, err := h.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	principal, _ := requirePrincipal(ctx)
	participantID, err := actingUser(principal, input.Body.ParticipantID)
	if err != nil {
		return nil, err
	}
	if input.Body.ParticipantID == 0 {
		participantID = need.ParticipantID
	}

	deadline, err := input.Body.deadline()
	if err != nil {
		return nil, err
	}

	input.Body.apply(need)
	need.ParticipantID = participantID

	if principal.IsAdmin() {
		if deadline != nil {
			need.ModificationDeadline = deadline
		}
		err = h.gate.ReviseNeed(ctx, need)
	} else {
		if deadline != nil && !sameDay(deadline, need.ModificationDeadline) {
			return nil, deadlineAdminOnly()
		}
		err = h.gate.UpdateNeed(ctx, need)
	}
	if err != nil {
		return nil, apiError(err)
	}
	return &DietaryNeedResponse{Body: *need}, nil
}

func (h *DietaryHandler) HandleDelete(ctx context.Context, input *DietaryNeedIDRequest) (*DeleteResponse, error) {
	if _, err := h.load(ctx, input.ID); err != nil {
		return nil, err
	}
	if err := h.gate.DeleteNeed(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	res := &DeleteResponse{}
	res.Body.Message = "Dietary need deleted"
	return res, nil
}

type ListDietaryNeedsRequest struct {
	EventID uint `query:"event_id" required:"true"`
}

type ListDietaryNeedsResponse struct {
	Body []models.ParticipantRestauration
}

func (h *DietaryHandler) HandleList(ctx context.Context, input *ListDietaryNeedsRequest) (*ListDietaryNeedsResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	needs, err := h.gate.ListByEvent(ctx, input.EventID)
	if err != nil {
		return nil, apiError(err)
	}
	if needs == nil {
		needs = []models.ParticipantRestauration{}
	}
	return &ListDietaryNeedsResponse{Body: needs}, nil
}

type CanModifyResponse struct {
	Body struct {
		ID        uint `json:"id"`
		CanModify bool `json:"can_modify"`
	}
}

func (h *DietaryHandler) HandleCanModify(ctx context.Context, input *DietaryNeedIDRequest) (*CanModifyResponse, error) {
	if _, err := h.load(ctx, input.ID); err != nil {
		return nil, err
	}
	res := &CanModifyResponse{}
	res.Body.ID = input.ID
	res.Body.CanModify = h.gate.CanModifyMealChoice(ctx, input.ID)
	return res, nil
}
