package catering

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/validation"
	"gorm.io/gorm"
)

// variant is the set of operations one Restauration kind supports. A nil update or
// remove means the kind cannot be changed once stored.
type variant struct {
	validate func(r Restauration, res *validation.Result)
	insert   func(ctx context.Context, r *Restauration) error
	get      func(ctx context.Context, id uint) (Restauration, error)
	update   func(ctx context.Context, r *Restauration) error
	remove   func(ctx context.Context, id uint) error
}

type Router struct {
	store    *store
	variants map[Kind]variant
}

func NewRouter(db *gorm.DB) *Router {
	s := &store{db: db}
	rt := &Router{store: s}
	rt.variants = map[Kind]variant{
		KindMenu: {
			validate: validateMenu,
			insert:   s.insertMenu,
			get:      s.getMenu,
			update:   s.updateMenu,
			remove:   s.deleteMenu,
		},
		KindOption: {
			validate: validateOption,
			insert:   s.insertOption,
			get:      s.getOption,
		},
		KindMeal: {
			validate: validateMeal,
			insert:   rt.insertMeal,
			get:      s.getMeal,
			update:   s.updateMeal,
			remove:   s.deleteMeal,
		},
		KindRestriction: {
			validate: validateRestriction,
			insert:   s.insertRestriction,
			get:      s.getRestriction,
		},
		KindPresence: {
			validate: validatePresence,
			insert:   s.insertPresence,
			get:      s.getPresence,
		},
	}
	return rt
}

func validateMenu(r Restauration, res *validation.Result) {
	if r.Menu == nil {
		res.AddGlobalError("menu payload is required")
		return
	}
	if strings.TrimSpace(r.Menu.Name) == "" {
		res.AddFieldError("name", "name is required")
	}
}

func validateOption(r Restauration, res *validation.Result) {
	if r.Option == nil {
		res.AddGlobalError("option payload is required")
		return
	}
	if strings.TrimSpace(r.Option.Label) == "" {
		res.AddFieldError("label", "label is required")
	}
}

func validateMeal(r Restauration, res *validation.Result) {
	if r.Meal == nil {
		res.AddGlobalError("meal payload is required")
		return
	}
	if r.Meal.Price.IsNegative() {
		res.AddFieldError("price", "price cannot be negative")
	}
	if r.Meal.ParticipantID == 0 {
		res.AddFieldError("participant_id", "participant_id is required")
	}
	if r.Meal.Date.IsZero() {
		res.AddFieldError("date", "date is required")
	}
}

func validateRestriction(r Restauration, res *validation.Result) {
	if r.Restriction == nil {
		res.AddGlobalError("restriction payload is required")
		return
	}
	if strings.TrimSpace(r.Restriction.Label) == "" {
		res.AddFieldError("label", "label is required")
	}
}

func validatePresence(r Restauration, res *validation.Result) {
	if r.Presence == nil {
		res.AddGlobalError("presence payload is required")
		return
	}
	if r.Presence.ParticipantID == 0 {
		res.AddFieldError("participant_id", "participant_id is required")
	}
	if r.Presence.PresenceDate.IsZero() {
		res.AddFieldError("presence_date", "presence_date is required")
	}
}

func mealConflictMessage(participantID uint, date time.Time) string {
	return fmt.Sprintf("participant %d already has a meal on %s", participantID, date.Format(time.DateOnly))
}

func (rt *Router) insertMeal(ctx context.Context, r *Restauration) error {
	count, err := rt.store.countMealsFor(ctx, r.Meal.ParticipantID, r.Meal.Date)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict(mealConflictMessage(r.Meal.ParticipantID, r.Meal.Date))
	}
	return rt.store.insertMeal(ctx, r)
}

func (rt *Router) check(v variant, r Restauration) error {
	res := validation.New()
	v.validate(r, res)
	if res.HasErrors() {
		return &apperrors.ValidationError{Result: res}
	}
	return nil
}

func conflictMessage(r Restauration) string {
	if r.Kind == KindMeal && r.Meal != nil {
		return mealConflictMessage(r.Meal.ParticipantID, r.Meal.Date)
	}
	return fmt.Sprintf("%s record already exists", strings.ToLower(string(r.Kind)))
}

// Create stores r in the table of its kind and returns it with its id. A record
// without a known kind is returned unchanged and nothing is written.
func (rt *Router) Create(ctx context.Context, r Restauration) (Restauration, error) {
	v, ok := rt.variants[r.Kind]
	if !ok {
		return r, nil
	}
	if err := rt.check(v, r); err != nil {
		return r, err
	}
	if err := v.insert(ctx, &r); err != nil {
		if apperrors.IsConflict(err) {
			return r, err
		}
		return r, apperrors.FromStore("insert "+strings.ToLower(string(r.Kind)), err, conflictMessage(r))
	}
	return r, nil
}

func (rt *Router) Get(ctx context.Context, id uint, kind Kind) (Restauration, error) {
	v, ok := rt.variants[kind]
	if !ok {
		return Restauration{}, fmt.Errorf("unknown catering kind %q: %w", kind, apperrors.ErrNotFound)
	}
	r, err := v.get(ctx, id)
	if err != nil {
		return Restauration{}, apperrors.FromStore("get "+strings.ToLower(string(kind)), err, "")
	}
	return r, nil
}

// Update rewrites a MENU or MEAL record. Other kinds fail with UnsupportedOperationError.
func (rt *Router) Update(ctx context.Context, r Restauration) (Restauration, error) {
	v, ok := rt.variants[r.Kind]
	if !ok || v.update == nil {
		return r, &apperrors.UnsupportedOperationError{Operation: "update", Kind: string(r.Kind)}
	}
	if err := rt.check(v, r); err != nil {
		return r, err
	}
	if err := v.update(ctx, &r); err != nil {
		return r, apperrors.FromStore("update "+strings.ToLower(string(r.Kind)), err, conflictMessage(r))
	}
	return r, nil
}

// Delete removes a MENU or MEAL record. Other kinds fail with UnsupportedOperationError.
func (rt *Router) Delete(ctx context.Context, id uint, kind Kind) error {
	v, ok := rt.variants[kind]
	if !ok || v.remove == nil {
		return &apperrors.UnsupportedOperationError{Operation: "delete", Kind: string(kind)}
	}
	return apperrors.FromStore("delete "+strings.ToLower(string(kind)), v.remove(ctx, id), "")
}

// ActiveMenus returns active menus ordered by name, ignoring case.
func (rt *Router) ActiveMenus(ctx context.Context) ([]Restauration, error) {
	menus, err := rt.store.activeMenus(ctx)
	if err != nil {
		return nil, apperrors.FromStore("list menus", err, "")
	}
	slices.SortStableFunc(menus, func(a, b Restauration) int {
		return strings.Compare(strings.ToLower(a.Menu.Name), strings.ToLower(b.Menu.Name))
	})
	return menus, nil
}

// OptionsByEventType returns the active options tagged with tag. When tag is blank or
// nothing matches, every active option is returned.
func (rt *Router) OptionsByEventType(ctx context.Context, tag string) ([]Restauration, error) {
	options, err := rt.store.activeOptions(ctx)
	if err != nil {
		return nil, apperrors.FromStore("list options", err, "")
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return options, nil
	}

	var matched []Restauration
	for _, o := range options {
		if o.Option.EventTypeTag != nil && strings.EqualFold(strings.TrimSpace(*o.Option.EventTypeTag), tag) {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		return options, nil
	}
	return matched, nil
}

func (rt *Router) MealsForParticipantAndDate(ctx context.Context, participantID uint, date time.Time) ([]Restauration, error) {
	meals, err := rt.store.mealsFor(ctx, participantID, date)
	if err != nil {
		return nil, apperrors.FromStore("list meals", err, "")
	}
	return meals, nil
}

func (rt *Router) HasMealForParticipantAndDate(ctx context.Context, participantID uint, date time.Time) (bool, error) {
	count, err := rt.store.countMealsFor(ctx, participantID, date)
	if err != nil {
		return false, apperrors.FromStore("count meals", err, "")
	}
	return count > 0, nil
}
