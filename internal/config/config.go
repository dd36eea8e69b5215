// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the billing service.
type Config struct {
	Environment string
	HTTPAddr    string

	// Database
	DatabaseURL string

	// Bootstrap
	SeedDefaultServices bool

	// Overdue scheduler
	OverdueEnabled      bool
	OverduePollInterval time.Duration
	OverdueBatchSize    int

	// Public bill endpoint rate limiting
	PublicRateLimit  int
	PublicRateWindow time.Duration

	// Tracing
	TracingEnabled     bool
	TracingEndpoint    string
	TracingProtocol    string
	TracingSampleRatio float64
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Environment:         getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SeedDefaultServices: getBool("SEED_DEFAULT_SERVICES", true),
		OverdueEnabled:      getBool("OVERDUE_WORKER_ENABLED", true),
		OverduePollInterval: getDuration("OVERDUE_POLL_INTERVAL", time.Minute),
		OverdueBatchSize:    getInt("OVERDUE_BATCH_SIZE", 100),
		PublicRateLimit:     getInt("PUBLIC_RATE_LIMIT", 30),
		PublicRateWindow:    getDuration("PUBLIC_RATE_WINDOW", time.Minute),
		TracingEnabled:      getBool("TRACING_ENABLED", false),
		TracingEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TracingProtocol:     getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		TracingSampleRatio:  getFloat("TRACING_SAMPLE_RATIO", 0.1),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
