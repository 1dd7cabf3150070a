package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string

	// Timeline tuning
	OverfetchMultiplier int           // per-source overfetch factor before merging
	OverfetchCap        int           // hard ceiling on per-source fetch size
	SourceTimeout       time.Duration // per-source fetch deadline

	SessionTTL time.Duration
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SQLitePath:          os.Getenv("SQLITE_PATH"),
		RedisURL:            os.Getenv("REDIS_URL"),
		OverfetchMultiplier: getEnvInt("TIMELINE_OVERFETCH_MULTIPLIER", 3),
		OverfetchCap:        getEnvInt("TIMELINE_OVERFETCH_CAP", 1000),
		SourceTimeout:       getEnvDuration("TIMELINE_SOURCE_TIMEOUT", 5*time.Second),
		SessionTTL:          getEnvDuration("SESSION_TTL", 30*24*time.Hour),
	}

	if cfg.OverfetchMultiplier < 1 {
		cfg.OverfetchMultiplier = 1
	}
	if cfg.OverfetchCap < 1 {
		cfg.OverfetchCap = 1
	}

	// In production, require database and redis URLs
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
		if cfg.RedisURL == "" {
			panic("REDIS_URL is required in production")
		}
	}

	// Sessions and chat messages live in Redis, so a local default keeps
	// development working without a .env file.
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379"
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
