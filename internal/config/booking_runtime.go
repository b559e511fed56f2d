package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTAccessTTL    = "24h"
	defaultSlotGranularity = "60m"
	defaultCheckInGrace    = "15m"
	defaultCreateRetries   = "2"
	defaultHorizonDays     = "14"
)

// BookingRuntimeConfig holds the env-driven knobs for the open-studio
// booking engine. Everything has a development default; production
// deployments override via environment.
type BookingRuntimeConfig struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	JWTSecret       string
	JWTAccessTTL    time.Duration
	SlotGranularity time.Duration
	CheckInGrace    time.Duration
	CreateRetries   int
	HorizonDays     int
}

func LoadBookingRuntimeConfig() (*BookingRuntimeConfig, error) {
	cfg := &BookingRuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", "8080"))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", "openstudio.db"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.SlotGranularity, err = parseDurationEnv("SLOT_GRANULARITY", defaultSlotGranularity)
	if err != nil {
		return nil, err
	}
	if cfg.SlotGranularity < time.Minute {
		return nil, fmt.Errorf("SLOT_GRANULARITY must be at least 1m, got %s", cfg.SlotGranularity)
	}

	cfg.CheckInGrace, err = parseDurationEnv("CHECK_IN_GRACE", defaultCheckInGrace)
	if err != nil {
		return nil, err
	}

	cfg.CreateRetries, err = parseIntEnv("BOOKING_CREATE_RETRIES", defaultCreateRetries)
	if err != nil {
		return nil, err
	}
	if cfg.CreateRetries < 0 || cfg.CreateRetries > 5 {
		return nil, fmt.Errorf("BOOKING_CREATE_RETRIES must be between 0 and 5, got %d", cfg.CreateRetries)
	}

	cfg.HorizonDays, err = parseIntEnv("SESSION_HORIZON_DAYS", defaultHorizonDays)
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return n, nil
}
