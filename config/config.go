// Package config loads and validates environment variables at startup.
// Fail-fast: a missing required variable aborts start-up with an error.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"kindred_server/models"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendDynamo   = "dynamo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Port string
	Env  string

	StoreBackend string

	// DynamoDB
	AWSRegion     string
	ProfilesTable string
	MatchesTable  string

	// Postgres
	DatabaseURL string

	// Redis (optional; match events are not published when empty)
	RedisURL string

	// Auth
	JWTSecret   string
	JWTAudience string

	// S3 (optional; photo routes are disabled when empty)
	S3BucketName string

	PlaceholderScore float64
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load() // optional .env for local
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendDynamo)),
		AWSRegion:     os.Getenv("AWS_REGION"),
		ProfilesTable: getEnv("PROFILES_TABLE", models.ProfilesTable),
		MatchesTable:  getEnv("MATCHES_TABLE", models.MatchesTable),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTAudience:   os.Getenv("JWT_AUDIENCE"),
		S3BucketName:  os.Getenv("S3_BUCKET_NAME"),

		PlaceholderScore: models.PlaceholderMatchScore,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.StoreBackend {
	case BackendDynamo:
		if cfg.AWSRegion == "" {
			return nil, fmt.Errorf("AWS_REGION is required for the %s backend", BackendDynamo)
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if raw := os.Getenv("MATCH_PLACEHOLDER_SCORE"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MATCH_PLACEHOLDER_SCORE: %w", err)
		}
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 1 {
			return nil, fmt.Errorf("MATCH_PLACEHOLDER_SCORE must be within [0,1], got %v", score)
		}
		cfg.PlaceholderScore = score
	}

	return cfg, nil
}

// PhotosEnabled reports whether an S3 bucket is configured.
func (c *Config) PhotosEnabled() bool { return c.S3BucketName != "" }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
