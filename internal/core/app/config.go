package app

import (
	"os"
	"strconv"
	"time"

	"github.com/stafflane/stafflane/pkg/jwtx"
)

type Config struct {
	Issuer       string        // Issuer claim for session tokens
	SessionTTL   time.Duration // Session token lifetime (default: 7 days)
	DatabaseFile string        // Path to SQLite database file (default: ./stafflane.db)

	// Bootstrap seed for an empty store. Ignored once any identity exists.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapTenantName    string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:                 getEnvOrDefault("STAFFLANE_ISSUER", "stafflane"),
		SessionTTL:             getEnvDurationOrDefault("STAFFLANE_SESSION_TTL", jwtx.DefaultSessionTokenTTL),
		DatabaseFile:           getEnvOrDefault("STAFFLANE_DATABASE_FILE", "stafflane.db"),
		BootstrapAdminEmail:    os.Getenv("STAFFLANE_BOOTSTRAP_EMAIL"),
		BootstrapAdminPassword: os.Getenv("STAFFLANE_BOOTSTRAP_PASSWORD"),
		BootstrapTenantName:    getEnvOrDefault("STAFFLANE_BOOTSTRAP_TENANT", "Default"),
		Env:                    getEnvOrDefault("ENV", "dev"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                   getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:    getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
