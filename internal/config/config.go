// Package config loads application configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Placeholder values used when the backend endpoint or credentials are not
// configured. The server still starts; Load records a warning instead.
const (
	PlaceholderDatabaseURL = "mongodb://localhost:27017"
	PlaceholderJWTSecret   = "your-jwt-secret-here"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL selects and addresses the trip backend: a mongodb:// URL
	// for the document collection, or a postgres:// URL for the JSONB table.
	DatabaseURL string

	// DatabaseName is the Mongo database holding the trips collection.
	DatabaseName string

	// TripsCollection is the Mongo collection name. Defaults to "trips".
	TripsCollection string

	// AuthJWTSecret is the HS256 key shared with the identity provider.
	AuthJWTSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ShutdownTimeout is the grace period for in-flight requests.
	ShutdownTimeout time.Duration

	// Warnings lists non-fatal configuration problems for the caller to log.
	Warnings []string
}

// Load reads .env (if present) and the environment.
// Missing endpoint or credential values fall back to placeholders and add a
// warning. Only malformed numeric or duration values return an error.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseName:    getEnv("DATABASE_NAME", "trucklog"),
		TripsCollection: getEnv("TRIPS_COLLECTION", "trips"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081,http://localhost:19006")),
	}

	var err error
	if cfg.MaxBodyBytes, err = cast.ToInt64E(getEnv("MAX_BODY_BYTES", "1048576")); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config: MAX_BODY_BYTES must be a positive integer: %q", os.Getenv("MAX_BODY_BYTES"))
	}
	if cfg.ShutdownTimeout, err = cast.ToDurationE(getEnv("SHUTDOWN_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg.DatabaseURL = firstEnv("TRUCKLOG_DATABASE_URL", "DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = PlaceholderDatabaseURL
		cfg.Warnings = append(cfg.Warnings, "DATABASE_URL not set; using placeholder "+PlaceholderDatabaseURL)
	}

	cfg.AuthJWTSecret = firstEnv("TRUCKLOG_AUTH_JWT_SECRET", "AUTH_JWT_SECRET")
	if cfg.AuthJWTSecret == "" || strings.Contains(cfg.AuthJWTSecret, "your-jwt-secret") {
		cfg.AuthJWTSecret = PlaceholderJWTSecret
		cfg.Warnings = append(cfg.Warnings, "AUTH_JWT_SECRET not set or a placeholder; tokens from the identity provider will be rejected")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
