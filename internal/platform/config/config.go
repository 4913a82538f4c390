package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                     string
	DatabaseURL              string
	JWTSecret                string
	TokenTTL                 time.Duration
	FrontendDir              string
	MigrationsDir            string
	Environment              string
	SeedOwnerName            string
	SeedOwnerEmail           string
	SeedOwnerPassword        string
	RunMigrations            bool
	RunSeed                  bool
	MaxBodyBytes             int64
	RateLimitPerMinute       int
	AIBaseURL                string
	AIAPIKey                 string
	AIModel                  string
	PushEnabled              bool
	PushEndpoint             string
	PushServerKey            string
	ScheduleReminderInterval time.Duration
	MetricsEnabled           bool
}

func Load() Config {
	return Config{
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		TokenTTL:                 getEnvDuration("TOKEN_TTL", 12*time.Hour),
		FrontendDir:              getEnv("FRONTEND_DIR", "frontend/dist"),
		MigrationsDir:            getEnv("MIGRATIONS_DIR", "migrations"),
		Environment:              getEnv("APP_ENV", "development"),
		SeedOwnerName:            getEnv("SEED_OWNER_NAME", "Owner"),
		SeedOwnerEmail:           getEnv("SEED_OWNER_EMAIL", ""),
		SeedOwnerPassword:        getEnv("SEED_OWNER_PASSWORD", ""),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                  getEnvBool("RUN_SEED", true),
		MaxBodyBytes:             int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		AIBaseURL:                getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		AIAPIKey:                 getEnv("AI_API_KEY", ""),
		AIModel:                  getEnv("AI_MODEL", "gemini-2.0-flash"),
		PushEnabled:              getEnvBool("PUSH_ENABLED", false),
		PushEndpoint:             getEnv("PUSH_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		PushServerKey:            getEnv("PUSH_SERVER_KEY", ""),
		ScheduleReminderInterval: getEnvDuration("SCHEDULE_REMINDER_INTERVAL", 0),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedOwnerPassword) == "" {
			return fmt.Errorf("SEED_OWNER_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PushEnabled && strings.TrimSpace(c.PushServerKey) == "" {
		return fmt.Errorf("PUSH_SERVER_KEY must be set when PUSH_ENABLED is true")
	}
	return nil
}
