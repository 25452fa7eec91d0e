package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
// Note: persistence is optional - without DATABASE_URL the service runs
// stateless and generated patterns only live in the generation response.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Ableton control channel (AbletonOSC remote script, UDP)
	AbletonHost string
	AbletonPort int

	// Musical defaults
	Tempo int // BPM

	// Persistence (optional)
	DatabaseURL string

	// Observability
	SentryDSN string // Sentry DSN for error tracking
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		AbletonHost: getEnv("ABLETON_OSC_HOST", "127.0.0.1"),
		AbletonPort: getEnvInt("ABLETON_OSC_PORT", 11000),
		Tempo:       getEnvInt("TEMPO", 120),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

// PersistenceEnabled reports whether generated patterns are stored.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
