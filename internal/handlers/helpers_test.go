package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/outing-api/internal/auth"
	"github.com/gdg-garage/outing-api/internal/catering"
	"github.com/gdg-garage/outing-api/internal/config"
	"github.com/gdg-garage/outing-api/internal/dietary"
	"github.com/gdg-garage/outing-api/internal/membership"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/gdg-garage/outing-api/internal/participation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	notified []models.Participation
}

func (f *fakeNotifier) NotifyParticipation(ctx context.Context, user models.User, p models.Participation) error {
	f.notified = append(f.notified, p)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	handlers Handlers
	notifier *fakeNotifier
	admin    models.User
	member   models.User
	other    models.User
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := &testEnv{db: db, notifier: &fakeNotifier{}}
	env.admin = models.User{ExternalID: "admin", Username: "admin", Role: models.RoleAdmin}
	env.member = models.User{ExternalID: "member", Username: "member", Email: "member@example.org", Role: models.RoleMember}
	env.other = models.User{ExternalID: "other", Username: "other", Role: models.RoleMember}
	for _, u := range []*models.User{&env.admin, &env.member, &env.other} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	service := participation.NewService(participation.NewGormRepository(db), membership.NewGormLookup(db), participation.Options{})
	env.handlers = Handlers{
		Auth:          auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db),
		Participation: NewParticipationHandler(db, service, env.notifier),
		Catering:      NewCateringHandler(catering.NewRouter(db)),
		Dietary:       NewDietaryHandler(dietary.NewGate(db)),
	}
	return env
}

func (e *testEnv) as(u models.User) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: u.ID, Role: u.Role})
}

func (e *testEnv) subscribe(t *testing.T, u models.User) {
	t.Helper()
	sub := models.Subscription{UserID: u.ID, StartsAt: time.Now().Add(-24 * time.Hour), Active: true}
	if err := e.db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	if got := statusOf(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

func createRequest(eventID uint) *CreateParticipationRequest {
	req := &CreateParticipationRequest{}
	req.Body.EventID = eventID
	req.Body.Kind = "SIMPLE"
	req.Body.SocialContext = "SOLO"
	return req
}
