package handlers

import (
	"net/http"
	"testing"

	"github.com/gdg-garage/outing-api/internal/catering"
)

func TestParseKind(t *testing.T) {
	cases := map[string]catering.Kind{
		"meal":         catering.KindMeal,
		"MEALS":        catering.KindMeal,
		"options":      catering.KindOption,
		"presences":    catering.KindPresence,
		"restrictions": catering.KindRestriction,
		" menu ":       catering.KindMenu,
		"dessert":      catering.Kind("DESSERT"),
	}
	for raw, want := range cases {
		if got := parseKind(raw); got != want {
			t.Errorf("parseKind(%q) = %q, want %q", raw, got, want)
		}
	}
}

func mealRequest(participantID uint, date, price string) *CreateCateringRequest {
	req := &CreateCateringRequest{Kind: "meals"}
	req.Body.Meal = &MealBody{MealName: "Lunch", Price: price, Date: date, ParticipantID: participantID}
	return req
}

func TestCateringHandlers(t *testing.T) {
	env := setupEnv(t)
	h := env.handlers.Catering
	admin := env.as(env.admin)

	t.Run("MembersCannotWrite", func(t *testing.T) {
		_, err := h.HandleCreate(env.as(env.member), mealRequest(env.member.ID, "2024-05-01", "12.50"))
		expectStatus(t, err, http.StatusForbidden)
	})

	var mealID uint
	t.Run("CreateMeal", func(t *testing.T) {
		resp, err := h.HandleCreate(admin, mealRequest(env.member.ID, "2024-05-01", "12.50"))
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.Kind != catering.KindMeal || resp.Body.ID == 0 || !resp.Body.Active {
			t.Fatalf("unexpected meal: %+v", resp.Body)
		}
		if resp.Body.Meal.Price.StringFixed(2) != "12.50" {
			t.Errorf("expected price 12.50, got %s", resp.Body.Meal.Price)
		}
		mealID = resp.Body.ID
	})

	t.Run("OneMealPerDay", func(t *testing.T) {
		_, err := h.HandleCreate(admin, mealRequest(env.member.ID, "2024-05-01", "9"))
		expectStatus(t, err, http.StatusConflict)
	})

	t.Run("BadInput", func(t *testing.T) {
		_, err := h.HandleCreate(admin, mealRequest(env.member.ID, "01/05/2024", "9"))
		expectStatus(t, err, http.StatusUnprocessableEntity)

		_, err = h.HandleCreate(admin, mealRequest(env.member.ID, "2024-05-02", "nine"))
		expectStatus(t, err, http.StatusUnprocessableEntity)

		_, err = h.HandleCreate(admin, &CreateCateringRequest{Kind: "menu"})
		expectStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("MemberReadsOwnMeals", func(t *testing.T) {
		resp, err := h.HandleMeals(env.as(env.member), &MealsRequest{ParticipantID: env.member.ID, Date: "2024-05-01"})
		if err != nil {
			t.Fatalf("HandleMeals returned error: %v", err)
		}
		if len(resp.Body) != 1 {
			t.Errorf("expected 1 meal, got %d", len(resp.Body))
		}

		_, err = h.HandleMeals(env.as(env.other), &MealsRequest{ParticipantID: env.member.ID, Date: "2024-05-01"})
		expectStatus(t, err, http.StatusForbidden)
	})

	t.Run("UpdateAndDeleteMeal", func(t *testing.T) {
		update := &UpdateCateringRequest{Kind: "meal", ID: mealID}
		update.Body.Meal = &MealBody{MealName: "Dinner", Price: "14", Date: "2024-05-01", ParticipantID: env.member.ID}
		resp, err := h.HandleUpdate(admin, update)
		if err != nil {
			t.Fatalf("HandleUpdate returned error: %v", err)
		}
		if resp.Body.Meal.MealName != "Dinner" {
			t.Errorf("expected Dinner, got %s", resp.Body.Meal.MealName)
		}

		if _, err := h.HandleDelete(admin, &CateringIDRequest{Kind: "meal", ID: mealID}); err != nil {
			t.Fatalf("HandleDelete returned error: %v", err)
		}
		_, err = h.HandleGet(admin, &CateringIDRequest{Kind: "meal", ID: mealID})
		expectStatus(t, err, http.StatusNotFound)
	})

	t.Run("OptionsAreImmutable", func(t *testing.T) {
		tag := "hike"
		create := &CreateCateringRequest{Kind: "option"}
		create.Body.Option = &OptionBody{Label: "Picnic", EventTypeTag: &tag}
		created, err := h.HandleCreate(admin, create)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}

		update := &UpdateCateringRequest{Kind: "option", ID: created.Body.ID}
		update.Body.Option = &OptionBody{Label: "Changed"}
		_, err = h.HandleUpdate(admin, update)
		expectStatus(t, err, http.StatusMethodNotAllowed)

		_, err = h.HandleDelete(admin, &CateringIDRequest{Kind: "option", ID: created.Body.ID})
		expectStatus(t, err, http.StatusMethodNotAllowed)

		options, err := h.HandleOptions(env.as(env.member), &OptionsRequest{EventType: "HIKE"})
		if err != nil {
			t.Fatalf("HandleOptions returned error: %v", err)
		}
		if len(options.Body) != 1 || options.Body[0].Option.Label != "Picnic" {
			t.Errorf("unexpected options: %+v", options.Body)
		}
	})

	t.Run("ActiveMenus", func(t *testing.T) {
		for _, name := range []string{"ojja", "Brik"} {
			req := &CreateCateringRequest{Kind: "menu"}
			req.Body.Menu = &MenuBody{Name: name}
			if _, err := h.HandleCreate(admin, req); err != nil {
				t.Fatalf("HandleCreate returned error: %v", err)
			}
		}
		inactive := false
		req := &CreateCateringRequest{Kind: "menu"}
		req.Body.Active = &inactive
		req.Body.Menu = &MenuBody{Name: "Archived"}
		h.HandleCreate(admin, req)

		menus, err := h.HandleActiveMenus(env.as(env.member), &struct{}{})
		if err != nil {
			t.Fatalf("HandleActiveMenus returned error: %v", err)
		}
		if len(menus.Body) != 2 || menus.Body[0].Menu.Name != "Brik" {
			t.Errorf("unexpected menus: %+v", menus.Body)
		}
	})
}
