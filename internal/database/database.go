package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gdg-garage/outing-api/internal/config"
	"github.com/gdg-garage/outing-api/internal/models"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Open picks the dialector from DATABASE_DRIVER. Unique-constraint violations are
// translated to gorm.ErrDuplicatedKey so the services can report conflicts.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	return gorm.Open(dialector, GormConfig())
}

func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case "", "sqlite":
		return sqlite.Open(cfg.DatabasePath), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
		return postgres.Open(cfg.DatabaseURL), nil
	case "libsql":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for libsql")
		}
		dsn := cfg.DatabaseURL
		if cfg.DatabaseAuthToken != "" {
			dsn += "?authToken=" + url.QueryEscape(cfg.DatabaseAuthToken)
		}
		conn, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open libsql: %w", err)
		}
		return sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn}), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}
