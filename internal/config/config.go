package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodhub/internal/models"
	pkgconfig "github.com/Skotchmaster/foodhub/pkg/config"
	pkgdb "github.com/Skotchmaster/foodhub/pkg/db"
)

type Config struct {
	ServerPort string

	DatabaseURL string
	SQLitePath  string
	RedisAddr   string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	JWTSecret     string
	SessionTTL    time.Duration
	AuthDemoMode  bool
	AuthMockDelay time.Duration

	SimulationInterval time.Duration
	Location           *time.Location
	PublicURL          string
	LogLevel           string
	SeedDemoData       bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("config_env_file_missing", "reason", "using process environment", "error", err)
	}

	cfg := &Config{
		ServerPort:         pkgconfig.EnvDefault("SERVER_PORT", "8080"),
		DatabaseURL:        pkgconfig.EnvDefault("DATABASE_URL", ""),
		SQLitePath:         pkgconfig.EnvDefault("SQLITE_PATH", "foodhub.db"),
		RedisAddr:          pkgconfig.EnvDefault("REDIS_ADDR", ""),
		KafkaBrokers:       pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "")),
		ESURL:              pkgconfig.EnvDefault("ES_URL", ""),
		ESUser:             pkgconfig.EnvDefault("ES_USER", ""),
		ESPassword:         pkgconfig.EnvDefault("ES_PASSWORD", ""),
		ESIndex:            pkgconfig.EnvDefault("ES_INDEX", "menu_items"),
		JWTSecret:          pkgconfig.EnvDefault("JWT_SECRET", ""),
		SessionTTL:         pkgconfig.EnvDurationDefault("SESSION_TTL", 168*time.Hour),
		AuthDemoMode:       pkgconfig.EnvBoolDefault("AUTH_DEMO_MODE", false),
		AuthMockDelay:      pkgconfig.EnvDurationDefault("AUTH_MOCK_DELAY", 800*time.Millisecond),
		SimulationInterval: pkgconfig.EnvDurationDefault("SIMULATION_INTERVAL", 0),
		PublicURL:          pkgconfig.EnvDefault("PUBLIC_URL", "http://localhost:8080"),
		LogLevel:           pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		SeedDemoData:       pkgconfig.EnvBoolDefault("SEED_DEMO_DATA", false),
	}

	if err := pkgconfig.CheckRequired(pkgconfig.Required{Env: "JWT_SECRET", Value: cfg.JWTSecret}); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(pkgconfig.EnvDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// InitDB opens the database, migrates every table and seeds the courier roster.
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := Seed(ctx, db, cfg.SeedDemoData); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return db, nil
}
