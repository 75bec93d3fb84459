package auth

import (
	"context"
	"testing"

	"github.com/gdg-garage/outing-api/internal/config"
	"github.com/gdg-garage/outing-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	db.AutoMigrate(&models.User{})
	return db
}

func TestUpsertUser(t *testing.T) {
	db := setupDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", AdminExternalIDs: []string{"admin-sub"}}
	handler := NewAuthHandler(cfg, db)
	ctx := context.Background()

	t.Run("CreatesMember", func(t *testing.T) {
		user, err := handler.UpsertUser(ctx, Profile{Subject: "member-sub", Name: "Amira", Email: "amira@example.org"})
		if err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
		if user.Role != models.RoleMember {
			t.Errorf("expected member role, got %q", user.Role)
		}
		if user.Username != "Amira" {
			t.Errorf("expected name fallback for username, got %q", user.Username)
		}
	})

	t.Run("UpdatesExisting", func(t *testing.T) {
		first, _ := handler.UpsertUser(ctx, Profile{Subject: "member-sub", Username: "amira"})
		second, err := handler.UpsertUser(ctx, Profile{Subject: "member-sub", Username: "amira2", Email: "new@example.org"})
		if err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected the same user, got ids %d and %d", first.ID, second.ID)
		}
		var count int64
		db.Model(&models.User{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 user, got %d", count)
		}
	})

	t.Run("PromotesAdmin", func(t *testing.T) {
		user, err := handler.UpsertUser(ctx, Profile{ID: "admin-sub", Username: "boss"})
		if err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
		if !user.IsAdmin() {
			t.Errorf("expected admin role, got %q", user.Role)
		}
	})

	t.Run("MissingSubject", func(t *testing.T) {
		if _, err := handler.UpsertUser(ctx, Profile{Username: "ghost"}); err == nil {
			t.Error("expected error for profile without subject")
		}
	})
}

func TestHandleMe(t *testing.T) {
	db := setupDB(t)

	user := models.User{
		ExternalID: "123456",
		Username:   "testuser",
		Email:      "test@example.com",
		Avatar:     "avatar_url",
		Role:       models.RoleAdmin,
	}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("Authenticated", func(t *testing.T) {
		ctx := WithPrincipal(context.Background(), Principal{UserID: user.ID, Role: user.Role})
		resp, err := handler.HandleMe(ctx, &struct{}{})
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Username != user.Username {
			t.Errorf("expected username %s, got %s", user.Username, resp.Body.Username)
		}
		if resp.Body.Role != models.RoleAdmin {
			t.Errorf("expected role admin, got %s", resp.Body.Role)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := handler.HandleMe(context.Background(), &struct{}{})
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})
}

func TestParseToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	user := models.User{Role: models.RoleAdmin}
	user.ID = 9
	token, err := handler.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	principal, expiresAt, err := handler.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if principal.UserID != 9 || !principal.IsAdmin() {
		t.Errorf("unexpected principal %+v", principal)
	}
	if expiresAt.IsZero() {
		t.Error("expected an expiry")
	}

	other := NewAuthHandler(&config.Config{JWTSecret: "other-secret"}, nil)
	if _, _, err := other.ParseToken(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}
