// Package config loads service configuration from the environment.
// A .env file in the working directory is honored if present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds every tunable the binaries need.
type Config struct {
	// ListenAddr is the address the RPC server binds to.
	ListenAddr string

	// DBPath is the SQLite database file.
	DBPath string

	// JWTSecret signs session tokens. Must be set outside of development.
	JWTSecret string

	// TokenDuration is how long issued session tokens stay valid.
	TokenDuration time.Duration

	// MaxAmount is the ceiling for any single split or settlement amount.
	// Writes above it are rejected.
	MaxAmount decimal.Decimal

	// PurgeRetention is how long soft-deleted records are kept before the
	// cleanup tool removes them for good.
	PurgeRetention time.Duration
}

// Load reads configuration from the environment, applying defaults suitable
// for local development.
func Load() (*Config, error) {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	tokenDuration, err := getEnvDuration("TOKEN_DURATION", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	purgeRetention, err := getEnvDuration("PURGE_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	maxAmount, err := getEnvDecimal("MAX_AMOUNT", decimal.NewFromInt(1_000_000))
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:     getEnvString("LISTEN_ADDR", ":8080"),
		DBPath:         getEnvString("DB_PATH", "./data/tally.db"),
		JWTSecret:      getEnvString("JWT_SECRET", "dev-secret-change-me"),
		TokenDuration:  tokenDuration,
		MaxAmount:      maxAmount,
		PurgeRetention: purgeRetention,
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal for %s: %w", key, err)
	}
	return d, nil
}
