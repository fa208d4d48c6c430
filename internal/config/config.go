// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, Load returns an error and the
// process exits. A local .env file, when present, is loaded first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the availability service.
type Config struct {
	Port                string
	GRPCPort            string
	DatabaseURL         string
	RedisURL            string
	JobCacheTTL         time.Duration
	CacheRefreshMinutes int // How often the cron job re-warms the job cache
	LogLevel            string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	ttl, err := positiveInt("JOB_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	refresh, err := positiveInt("CACHE_REFRESH_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                getEnv("AVAILABILITY_PORT", "8083"),
		GRPCPort:            getEnv("AVAILABILITY_GRPC_PORT", "9083"),
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		JobCacheTTL:         time.Duration(ttl) * time.Second,
		CacheRefreshMinutes: refresh,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
