package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skipper/internal/domain/shared/timerange"
)

// clearEnv blanks every variable Load reads so the ambient environment cannot
// leak into the assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "STORAGE_MODE", "MONGO_URI", "MONGO_DB",
		"MONGO_CONNECT_TIMEOUT", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"KAFKA_GROUP_ID", "ADMIN_KEY_HASHES", "OVERLAP_BOUNDARY",
		"BOOKING_MIN_DURATION", "BOOKING_MAX_DURATION",
		"BOOKING_EARLIEST_HOUR", "BOOKING_LATEST_HOUR",
		"SLOT_STEP", "TURNAROUND_BUFFER", "CUSTOMER_RESTRICTION",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.StorageMode)
	assert.Equal(t, 10*time.Second, cfg.MongoConnectTimeout)
	assert.Equal(t, timerange.BoundaryHalfOpen, cfg.Boundary)
	assert.Equal(t, time.Hour, cfg.Booking.MinDuration)
	assert.Equal(t, 8*time.Hour, cfg.Booking.MaxDuration)
	assert.Equal(t, 8, cfg.Booking.EarliestHour)
	assert.Equal(t, 20, cfg.Booking.LatestHour)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.SlotStep)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.TurnaroundBuffer)
	assert.Equal(t, 2*time.Hour, cfg.Schedule.CustomerRestriction)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("OVERLAP_BOUNDARY", "CLOSED")
	t.Setenv("BOOKING_LATEST_HOUR", "22")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.MongoConnectTimeout)
	assert.Equal(t, timerange.BoundaryClosed, cfg.Boundary)
	assert.Equal(t, 22, cfg.Booking.LatestHour)
	assert.Equal(t, 22, cfg.Schedule.LatestEndHour, "slot rules follow the booking window")
}

func TestLoadRejectsEmptyHoursWindow(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKING_EARLIEST_HOUR", "20")
	t.Setenv("BOOKING_LATEST_HOUR", "8")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_MODE", "mongo")

	_, err := Load()
	assert.Error(t, err)
}
