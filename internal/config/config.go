package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                 string `mapstructure:"PORT"`
	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabasePath         string `mapstructure:"DATABASE_PATH"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	DatabaseAuthToken    string `mapstructure:"DATABASE_AUTH_TOKEN"`
	DefaultEventCapacity int    `mapstructure:"DEFAULT_EVENT_CAPACITY"`
	DefaultCurrency      string `mapstructure:"DEFAULT_CURRENCY"`

	JWTSecret         string   `mapstructure:"JWT_SECRET"`
	OAuthClientID     string   `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string   `mapstructure:"OAUTH_REDIRECT_URL"`
	OAuthAuthURL      string   `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string   `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL  string   `mapstructure:"OAUTH_USERINFO_URL"`
	OAuthScopes       []string `mapstructure:"OAUTH_SCOPES"`
	AdminExternalIDs  []string `mapstructure:"ADMIN_EXTERNAL_IDS"`
	FrontendURL       string   `mapstructure:"FRONTEND_URL"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	TelegramBotToken              string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID                int64  `mapstructure:"TELEGRAM_CHAT_ID"`
	ResendAPIKey                  string `mapstructure:"RESEND_API_KEY"`
	ResendFrom                    string `mapstructure:"RESEND_FROM"`

	RedisURL           string        `mapstructure:"REDIS_URL"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	MembershipCacheTTL time.Duration `mapstructure:"MEMBERSHIP_CACHE_TTL"`
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "outing.db")
	viper.SetDefault("DEFAULT_EVENT_CAPACITY", 100)
	viper.SetDefault("DEFAULT_CURRENCY", "TND")
	viper.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/callback")
	viper.SetDefault("OAUTH_SCOPES", []string{"openid", "profile", "email"})
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/")
	viper.SetDefault("RESEND_FROM", "Outings <noreply@example.org>")
	viper.SetDefault("MEMBERSHIP_CACHE_TTL", "5m")

	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("DATABASE_AUTH_TOKEN")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("OAUTH_CLIENT_ID")
	viper.BindEnv("OAUTH_CLIENT_SECRET")
	viper.BindEnv("OAUTH_AUTH_URL")
	viper.BindEnv("OAUTH_TOKEN_URL")
	viper.BindEnv("OAUTH_USERINFO_URL")
	viper.BindEnv("ADMIN_EXTERNAL_IDS")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("TELEGRAM_BOT_TOKEN")
	viper.BindEnv("TELEGRAM_CHAT_ID")
	viper.BindEnv("RESEND_API_KEY")
	viper.BindEnv("REDIS_URL")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if config.DefaultEventCapacity <= 0 {
		config.DefaultEventCapacity = 100
	}

	return &config
}
