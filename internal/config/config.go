// Package config provides application configuration loading from environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the backend.
type Config struct {
	Port             string
	DatabaseDSN      string
	JWTSecret        string
	TokenExpiry      time.Duration
	ResetTokenExpiry time.Duration
	CORSAllowOrigins []string
	LogFormat        string
	GinMode          string
	EnablePprof      bool
	Seed             bool
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Load reads configuration from environment variables. A .env file in the
// working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             os.Getenv("PORT"),
		DatabaseDSN:      os.Getenv("DB_DSN"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenExpiry:      time.Hour,
		ResetTokenExpiry: 30 * time.Minute,
		LogFormat:        os.Getenv("LOG_FORMAT"),
		GinMode:          os.Getenv("GIN_MODE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "data/budget.db?_pragma=foreign_keys(1)"
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	if expiry := os.Getenv("TOKEN_EXPIRY"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err == nil && d > 0 {
			cfg.TokenExpiry = d
		}
	}

	if expiry := os.Getenv("RESET_TOKEN_EXPIRY"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err == nil && d > 0 {
			cfg.ResetTokenExpiry = d
		}
	}

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		cfg.CORSAllowOrigins = strings.Fields(origins)
	}

	if enable, err := strconv.ParseBool(os.Getenv("ENABLE_PPROF")); err == nil {
		cfg.EnablePprof = enable
	}

	if seed, err := strconv.ParseBool(os.Getenv("SEED")); err == nil {
		cfg.Seed = seed
	}

	return cfg, nil
}
