package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"skipper/internal/domain/booking"
	"skipper/internal/domain/schedule"
	"skipper/internal/domain/shared/timerange"
)

// Config aggregates application configuration values loaded from environment
// variables.
type Config struct {
	Env          string
	HTTPAddr     string
	StorageMode  string
	MongoURI     string
	MongoDB      string
	// MongoConnectTimeout bounds the initial connect and the index build.
	MongoConnectTimeout time.Duration
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	// AdminKeyHashes are bcrypt hashes of accepted admin API keys.
	AdminKeyHashes []string

	Booking  booking.Rules
	Schedule schedule.Rules
	Boundary timerange.Boundary
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		StorageMode:  strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "skipper"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "skipper.events"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "skipper-backend"),
		Boundary:     timerange.ParseBoundary(getEnv("OVERLAP_BOUNDARY", string(timerange.BoundaryHalfOpen))),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if keys := getEnv("ADMIN_KEY_HASHES", ""); keys != "" {
		for _, raw := range strings.Split(keys, ",") {
			if v := strings.TrimSpace(raw); v != "" {
				cfg.AdminKeyHashes = append(cfg.AdminKeyHashes, v)
			}
		}
	}

	var err error
	if cfg.MongoConnectTimeout, err = parseDurationEnv("MONGO_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Booking.MinDuration, err = parseDurationEnv("BOOKING_MIN_DURATION", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Booking.MaxDuration, err = parseDurationEnv("BOOKING_MAX_DURATION", 8*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Booking.EarliestHour, err = parseIntEnv("BOOKING_EARLIEST_HOUR", 8); err != nil {
		return Config{}, err
	}
	if cfg.Booking.LatestHour, err = parseIntEnv("BOOKING_LATEST_HOUR", 20); err != nil {
		return Config{}, err
	}

	if cfg.Schedule.SlotStep, err = parseDurationEnv("SLOT_STEP", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Schedule.TurnaroundBuffer, err = parseDurationEnv("TURNAROUND_BUFFER", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Schedule.CustomerRestriction, err = parseDurationEnv("CUSTOMER_RESTRICTION", 2*time.Hour); err != nil {
		return Config{}, err
	}
	cfg.Schedule.EarliestStartHour = cfg.Booking.EarliestHour
	cfg.Schedule.LatestEndHour = cfg.Booking.LatestHour
	cfg.Schedule.Boundary = cfg.Boundary

	if cfg.Booking.EarliestHour < 0 || cfg.Booking.EarliestHour > 23 {
		return Config{}, fmt.Errorf("BOOKING_EARLIEST_HOUR out of range: %d", cfg.Booking.EarliestHour)
	}
	if cfg.Booking.LatestHour < 1 || cfg.Booking.LatestHour > 24 {
		return Config{}, fmt.Errorf("BOOKING_LATEST_HOUR out of range: %d", cfg.Booking.LatestHour)
	}
	if cfg.Booking.LatestHour <= cfg.Booking.EarliestHour {
		return Config{}, fmt.Errorf("booking hours window is empty: %d..%d", cfg.Booking.EarliestHour, cfg.Booking.LatestHour)
	}
	if cfg.StorageMode == "mongo" && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required in mongo storage mode")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
