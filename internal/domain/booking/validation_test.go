package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skipper/internal/domain/shared/timerange"
)

var testRules = Rules{
	MinDuration:  time.Hour,
	MaxDuration:  8 * time.Hour,
	EarliestHour: 8,
	LatestHour:   20,
}

func TestValidateRangeAccepts(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)
	r := timerange.Must(
		time.Date(2030, time.June, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 12, 0, 0, 0, time.UTC),
	)
	assert.NoError(t, ValidateRange(r, TypeCustomer, testRules, now))
}

func TestValidateRangeRejectsPastStart(t *testing.T) {
	now := time.Date(2030, time.June, 10, 11, 0, 0, 0, time.UTC)
	r := timerange.Must(
		time.Date(2030, time.June, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 12, 0, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, ValidateRange(r, TypeCustomer, testRules, now), ErrStartInPast)
}

func TestValidateRangeDurationBounds(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)

	short := timerange.Must(
		time.Date(2030, time.June, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 10, 30, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, ValidateRange(short, TypeCustomer, testRules, now), ErrTooShort)

	long := timerange.Must(
		time.Date(2030, time.June, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 19, 0, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, ValidateRange(long, TypeCustomer, testRules, now), ErrTooLong)
}

func TestValidateRangeRejectsMultiDay(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)
	rules := Rules{MinDuration: time.Hour, MaxDuration: 48 * time.Hour, EarliestHour: 0, LatestHour: 24}
	r := timerange.Must(
		time.Date(2030, time.June, 10, 20, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 11, 10, 0, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, ValidateRange(r, TypeOwner, rules, now), ErrSpansMultipleDays)
}

func TestValidateRangeMidnightEndIsSameDay(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)
	rules := Rules{MinDuration: time.Hour, MaxDuration: 8 * time.Hour, EarliestHour: 8, LatestHour: 24}
	r := timerange.Must(
		time.Date(2030, time.June, 10, 20, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 11, 0, 0, 0, 0, time.UTC),
	)
	assert.NoError(t, ValidateRange(r, TypeOwner, rules, now))
}

func TestValidateRangeDailyWindowCustomerOnly(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)
	early := timerange.Must(
		time.Date(2030, time.June, 10, 6, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 8, 0, 0, 0, time.UTC),
	)
	late := timerange.Must(
		time.Date(2030, time.June, 10, 19, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 21, 0, 0, 0, time.UTC),
	)

	assert.ErrorIs(t, ValidateRange(early, TypeCustomer, testRules, now), ErrOutsideHours)
	assert.ErrorIs(t, ValidateRange(late, TypeCustomer, testRules, now), ErrOutsideHours)

	// Owner bookings are exempt from the daily window.
	assert.NoError(t, ValidateRange(early, TypeOwner, testRules, now))
	assert.NoError(t, ValidateRange(late, TypeOwner, testRules, now))
}

func TestValidateRangeEndOnLatestHourBoundary(t *testing.T) {
	now := time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC)
	r := timerange.Must(
		time.Date(2030, time.June, 10, 18, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 20, 0, 0, 0, time.UTC),
	)
	assert.NoError(t, ValidateRange(r, TypeCustomer, testRules, now))

	spills := timerange.Must(
		time.Date(2030, time.June, 10, 18, 0, 0, 0, time.UTC),
		time.Date(2030, time.June, 10, 20, 30, 0, 0, time.UTC),
	)
	assert.ErrorIs(t, ValidateRange(spills, TypeCustomer, testRules, now), ErrOutsideHours)
}
