package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/models"
)

func TestHandleCreate(t *testing.T) {
	env := setupEnv(t)
	h := env.handlers.Participation

	t.Run("StandardTier", func(t *testing.T) {
		resp, err := h.HandleCreate(env.as(env.member), createRequest(1))
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.UserID != env.member.ID {
			t.Errorf("expected participation for the caller, got user %d", resp.Body.UserID)
		}
		if resp.Body.ComputedAmount != "25.00" || resp.Body.SubscriptionTierChosen != models.TierStandard {
			t.Errorf("expected 25.00 standard, got %s %s", resp.Body.ComputedAmount, resp.Body.SubscriptionTierChosen)
		}
		if resp.Body.Status != string(models.StatusPending) {
			t.Errorf("expected PENDING, got %s", resp.Body.Status)
		}
		if len(env.notifier.notified) != 1 {
			t.Errorf("expected 1 notification, got %d", len(env.notifier.notified))
		}
	})

	t.Run("AdminRegistersMember", func(t *testing.T) {
		env.subscribe(t, env.other)
		req := createRequest(1)
		req.Body.UserID = env.other.ID
		req.Body.AdultCount = 2
		req.Body.ChildCount = 1

		resp, err := h.HandleCreate(env.as(env.admin), req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		// (2*25 + 15) * 0.70
		if resp.Body.ComputedAmount != "45.50" || resp.Body.SubscriptionTierChosen != models.TierMember {
			t.Errorf("expected 45.50 member, got %s %s", resp.Body.ComputedAmount, resp.Body.SubscriptionTierChosen)
		}
	})

	t.Run("ForbiddenForAnotherUser", func(t *testing.T) {
		req := createRequest(2)
		req.Body.UserID = env.admin.ID
		_, err := h.HandleCreate(env.as(env.member), req)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := h.HandleCreate(env.as(env.member), createRequest(1))
		expectStatus(t, err, http.StatusConflict)
	})

	t.Run("AllValidationErrors", func(t *testing.T) {
		req := &CreateParticipationRequest{}
		req.Body.ChildCount = -1
		_, err := h.HandleCreate(env.as(env.member), req)
		expectStatus(t, err, http.StatusUnprocessableEntity)

		var model *huma.ErrorModel
		if !errors.As(err, &model) {
			t.Fatalf("expected huma.ErrorModel, got %T", err)
		}
		// event_id, kind, social_context, child_count
		if len(model.Errors) != 4 {
			t.Errorf("expected 4 error details, got %d: %+v", len(model.Errors), model.Errors)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := h.HandleCreate(context.Background(), createRequest(3))
		expectStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("CurrencyIsAdminOnly", func(t *testing.T) {
		req := createRequest(5)
		req.Body.Currency = "EUR"
		_, err := h.HandleCreate(env.as(env.member), req)
		expectStatus(t, err, http.StatusForbidden)

		req.Body.UserID = env.member.ID
		resp, err := h.HandleCreate(env.as(env.admin), req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.Currency != "EUR" {
			t.Errorf("expected EUR, got %s", resp.Body.Currency)
		}
	})
}

func TestHandleTransitions(t *testing.T) {
	env := setupEnv(t)
	h := env.handlers.Participation

	created, err := h.HandleCreate(env.as(env.member), createRequest(1))
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	id := &ParticipationIDRequest{ID: created.Body.ID}

	t.Run("MemberCannotConfirm", func(t *testing.T) {
		_, err := h.HandleConfirm(env.as(env.member), id)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("OtherMemberCannotRead", func(t *testing.T) {
		_, err := h.HandleGet(env.as(env.other), id)
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("AdminConfirms", func(t *testing.T) {
		resp, err := h.HandleConfirm(env.as(env.admin), id)
		if err != nil {
			t.Fatalf("HandleConfirm returned error: %v", err)
		}
		if resp.Body.Status != string(models.StatusConfirmed) {
			t.Errorf("expected CONFIRMED, got %s", resp.Body.Status)
		}
	})

	t.Run("Badge", func(t *testing.T) {
		first, err := h.HandleBadge(env.as(env.admin), &BadgeRequest{ID: id.ID})
		if err != nil {
			t.Fatalf("HandleBadge returned error: %v", err)
		}
		again, _ := h.HandleBadge(env.as(env.admin), &BadgeRequest{ID: id.ID})
		if first.Body.BadgeCode == nil || *again.Body.BadgeCode != *first.Body.BadgeCode {
			t.Errorf("expected the badge code to be kept")
		}
	})

	t.Run("OwnerCancels", func(t *testing.T) {
		resp, err := h.HandleCancel(env.as(env.member), &CancelRequest{ID: id.ID, Reason: "sick"})
		if err != nil {
			t.Fatalf("HandleCancel returned error: %v", err)
		}
		if resp.Body.Status != string(models.StatusCancelled) || resp.Body.Comment != "Cancelled: sick" {
			t.Errorf("unexpected cancelled participation: %+v", resp.Body)
		}
	})

	t.Run("ConfirmCancelled", func(t *testing.T) {
		_, err := h.HandleConfirm(env.as(env.admin), id)
		expectStatus(t, err, http.StatusConflict)
	})

	t.Run("UpdateCancelled", func(t *testing.T) {
		adults := 4
		update := &UpdateParticipationRequest{ID: id.ID}
		update.Body.AdultCount = &adults
		_, err := h.HandleUpdate(env.as(env.member), update)
		expectStatus(t, err, http.StatusConflict)
	})

	t.Run("History", func(t *testing.T) {
		resp, err := h.HandleHistory(env.as(env.member), id)
		if err != nil {
			t.Fatalf("HandleHistory returned error: %v", err)
		}
		// create, confirm, badge, cancel
		if len(resp.Body) != 4 {
			t.Fatalf("expected 4 history entries, got %d", len(resp.Body))
		}
		if resp.Body[0].Status != string(models.StatusCancelled) {
			t.Errorf("expected newest entry first, got %s", resp.Body[0].Status)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if _, err := h.HandleDelete(env.as(env.member), id); statusOf(err) != http.StatusForbidden {
			t.Errorf("expected 403 for member delete, got %v", err)
		}
		if _, err := h.HandleDelete(env.as(env.admin), id); err != nil {
			t.Fatalf("HandleDelete returned error: %v", err)
		}
		_, err := h.HandleGet(env.as(env.admin), id)
		expectStatus(t, err, http.StatusNotFound)
	})

	// create, confirm, two badge requests, cancel
	if len(env.notifier.notified) != 5 {
		t.Errorf("expected 5 notifications, got %d", len(env.notifier.notified))
	}
}

func TestHandleCapacity(t *testing.T) {
	env := setupEnv(t)
	h := env.handlers.Participation

	capacity := &SetCapacityRequest{ID: 5}
	capacity.Body.Capacity = 1
	if _, err := h.HandleSetCapacity(env.as(env.member), capacity); statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %v", err)
	}
	resp, err := h.HandleSetCapacity(env.as(env.admin), capacity)
	if err != nil {
		t.Fatalf("HandleSetCapacity returned error: %v", err)
	}
	if resp.Body.AvailableSlots != 1 || !resp.Body.CanRegister {
		t.Errorf("expected 1 free slot, got %+v", resp.Body)
	}

	first, _ := h.HandleCreate(env.as(env.member), createRequest(5))
	second, _ := h.HandleCreate(env.as(env.other), createRequest(5))

	if _, err := h.HandleConfirm(env.as(env.admin), &ParticipationIDRequest{ID: first.Body.ID}); err != nil {
		t.Fatalf("HandleConfirm returned error: %v", err)
	}
	_, err = h.HandleConfirm(env.as(env.admin), &ParticipationIDRequest{ID: second.Body.ID})
	expectStatus(t, err, http.StatusConflict)

	waitlisted, err := h.HandleWaitlist(env.as(env.admin), &ParticipationIDRequest{ID: second.Body.ID})
	if err != nil {
		t.Fatalf("HandleWaitlist returned error: %v", err)
	}
	if waitlisted.Body.Status != string(models.StatusWaitlisted) {
		t.Errorf("expected WAITLISTED, got %s", waitlisted.Body.Status)
	}

	availability, err := h.HandleAvailability(env.as(env.other), &EventIDRequest{ID: 5})
	if err != nil {
		t.Fatalf("HandleAvailability returned error: %v", err)
	}
	if availability.Body.AvailableSlots != 0 || availability.Body.CanRegister {
		t.Errorf("expected a full event, got %+v", availability.Body)
	}

	capacity.Body.Capacity = -1
	_, err = h.HandleSetCapacity(env.as(env.admin), capacity)
	expectStatus(t, err, http.StatusUnprocessableEntity)
}

func TestHandleQuoteAndUpdate(t *testing.T) {
	env := setupEnv(t)
	h := env.handlers.Participation

	quote, err := h.HandleQuote(env.as(env.member), &QuoteRequest{AdultCount: 2, ChildCount: 2})
	if err != nil {
		t.Fatalf("HandleQuote returned error: %v", err)
	}
	if quote.Body.Amount != "80.00" || quote.Body.Currency != "TND" {
		t.Errorf("expected 80.00 TND, got %s %s", quote.Body.Amount, quote.Body.Currency)
	}

	created, _ := h.HandleCreate(env.as(env.member), createRequest(1))
	update := &UpdateParticipationRequest{ID: created.Body.ID}
	adults, children := 2, 2
	update.Body.AdultCount = &adults
	update.Body.ChildCount = &children

	resp, err := h.HandleUpdate(env.as(env.member), update)
	if err != nil {
		t.Fatalf("HandleUpdate returned error: %v", err)
	}
	if resp.Body.ComputedAmount != quote.Body.Amount || resp.Body.TotalParticipants != 4 {
		t.Errorf("expected re-priced party of 4 at %s, got %+v", quote.Body.Amount, resp.Body)
	}

	list, err := h.HandleList(env.as(env.member), &ListParticipationsRequest{})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(list.Body) != 1 {
		t.Errorf("expected 1 participation, got %d", len(list.Body))
	}
	if _, err := h.HandleList(env.as(env.member), &ListParticipationsRequest{EventID: 1}); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected 403 listing an event as member, got %v", err)
	}
}
