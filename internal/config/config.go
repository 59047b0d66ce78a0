// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the service.
type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// How long a mutation may wait for a group's exclusive section before
	// failing with a busy error.
	GroupLockTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		SQLiteDBPath:     getEnv("DB_PATH", "./data/splits.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenDuration:    getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		GroupLockTimeout: getEnvDuration("GROUP_LOCK_TIMEOUT", 5*time.Second),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}
	if c.TokenDuration <= 0 {
		problems = append(problems, "TOKEN_DURATION must be positive")
	}
	if c.GroupLockTimeout <= 0 {
		problems = append(problems, "GROUP_LOCK_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return d
}
