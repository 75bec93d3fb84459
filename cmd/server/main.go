package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gdg-garage/outing-api/internal/auth"
	"github.com/gdg-garage/outing-api/internal/catering"
	"github.com/gdg-garage/outing-api/internal/config"
	"github.com/gdg-garage/outing-api/internal/database"
	"github.com/gdg-garage/outing-api/internal/dietary"
	"github.com/gdg-garage/outing-api/internal/handlers"
	"github.com/gdg-garage/outing-api/internal/membership"
	"github.com/gdg-garage/outing-api/internal/notifier"
	"github.com/gdg-garage/outing-api/internal/participation"
	"github.com/go-chi/chi/v5"
)

func membershipLookup(cfg *config.Config, base membership.Lookup) membership.Lookup {
	if cfg.RedisURL == "" {
		return base
	}
	rdb, err := membership.NewRedisClient(context.Background(), cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("Membership cache disabled: %v", err)
		return base
	}
	return membership.NewCachedLookup(base, rdb, cfg.MembershipCacheTTL)
}

func notifiers(cfg *config.Config) notifier.Multi {
	var out notifier.Multi

	if cfg.DiscordBotToken != "" {
		discordNotifier, err := notifier.NewDiscordNotifierFromToken(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			out = append(out, discordNotifier)
		}
	}

	if cfg.TelegramBotToken != "" {
		telegramNotifier, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Telegram notifier not initialized: %v", err)
		} else {
			out = append(out, telegramNotifier)
		}
	}

	if cfg.ResendAPIKey != "" {
		out = append(out, notifier.NewEmailNotifier(cfg.ResendAPIKey, cfg.ResendFrom))
	}

	return out
}

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Domain services
	lookup := membershipLookup(cfg, membership.NewGormLookup(db))
	participations := participation.NewService(participation.NewGormRepository(db), lookup, participation.Options{
		DefaultCapacity: cfg.DefaultEventCapacity,
		Currency:        cfg.DefaultCurrency,
	})

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	h := handlers.Handlers{
		Auth:          authHandler,
		Participation: handlers.NewParticipationHandler(db, participations, notifiers(cfg)),
		Catering:      handlers.NewCateringHandler(catering.NewRouter(db)),
		Dietary:       handlers.NewDietaryHandler(dietary.NewGate(db)),
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
