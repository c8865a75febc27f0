package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/timerange"
)

var testRules = Rules{
	SlotStep:          30 * time.Minute,
	TurnaroundBuffer:  30 * time.Minute,
	EarliestStartHour: 8,
	LatestEndHour:     20,
	Boundary:          timerange.BoundaryHalfOpen,
}

func testDay() time.Time {
	return time.Date(2030, time.June, 10, 0, 0, 0, 0, time.UTC)
}

// farPast keeps the past-time rule out of tests that exercise overlap logic.
func farPast() time.Time {
	return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func occupancyAt(t *testing.T, day time.Time, startHour, startMin, endHour, endMin int) *occupancy.Occupancy {
	t.Helper()
	o, err := occupancy.New(occupancy.CreateParams{
		ID:      occupancy.OccupancyID("occ-test"),
		AssetID: "boat-1",
		Range: timerange.Must(
			time.Date(day.Year(), day.Month(), day.Day(), startHour, startMin, 0, 0, time.UTC),
			time.Date(day.Year(), day.Month(), day.Day(), endHour, endMin, 0, 0, time.UTC),
		),
		Reference: occupancy.Reference{Type: occupancy.RefMaintenance},
		CreatedAt: day,
	})
	require.NoError(t, err)
	return o
}

func TestDaySlotsShapeAndIndexes(t *testing.T) {
	slots := DaySlots(testDay(), nil, booking.TypeOwner, testRules, farPast())

	// 08:00..20:00 with 30 minute steps, last slot 19:30-19:59:59.
	require.Len(t, slots, 24)
	assert.Equal(t, 0, slots[0].Index)
	assert.Equal(t, time.Date(2030, time.June, 10, 8, 0, 0, 0, time.UTC), slots[0].Range.Start)
	assert.Equal(t, time.Date(2030, time.June, 10, 8, 29, 59, 0, time.UTC), slots[0].Range.End)

	last := slots[len(slots)-1]
	assert.Equal(t, 23, last.Index)
	assert.Equal(t, time.Date(2030, time.June, 10, 19, 30, 0, 0, time.UTC), last.Range.Start)
	assert.False(t, last.Range.End.After(time.Date(2030, time.June, 10, 20, 0, 0, 0, time.UTC)))

	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestDaySlotsEmptyOperatingWindow(t *testing.T) {
	rules := testRules
	rules.EarliestStartHour = 10
	rules.LatestEndHour = 10
	assert.Empty(t, DaySlots(testDay(), nil, booking.TypeOwner, rules, farPast()))
}

func TestDaySlotsTrailingBufferShadowsSlots(t *testing.T) {
	// Occupancy 11:00-12:59 plus the 30 minute buffer blocks 11:00-13:29.
	occ := occupancyAt(t, testDay(), 11, 0, 12, 59)
	slots := DaySlots(testDay(), []*occupancy.Occupancy{occ}, booking.TypeOwner, testRules, farPast())

	byStart := make(map[string]bool, len(slots))
	for _, s := range slots {
		byStart[s.Range.Start.Format("15:04")] = s.Available
	}

	assert.True(t, byStart["10:30"], "slot ending before the occupancy stays available")
	assert.False(t, byStart["11:00"])
	assert.False(t, byStart["11:30"])
	assert.False(t, byStart["12:00"])
	assert.False(t, byStart["12:30"])
	assert.False(t, byStart["13:00"], "buffer extends the block to 13:29")
	assert.True(t, byStart["13:30"], "first slot after the buffered block is available")
}

func TestDaySlotsCustomerRestriction(t *testing.T) {
	rules := testRules
	rules.CustomerRestriction = 2 * time.Hour
	occ := occupancyAt(t, testDay(), 14, 0, 16, 0)

	customer := DaySlots(testDay(), []*occupancy.Occupancy{occ}, booking.TypeCustomer, rules, farPast())
	owner := DaySlots(testDay(), []*occupancy.Occupancy{occ}, booking.TypeOwner, rules, farPast())

	availability := func(slots []Slot, start string) bool {
		for _, s := range slots {
			if s.Range.Start.Format("15:04") == start {
				return s.Available
			}
		}
		t.Fatalf("slot %s not found", start)
		return false
	}

	// 12:30 falls inside the 2h lead window before the 14:00 occupancy for
	// customers, but owners may book right up to it.
	assert.False(t, availability(customer, "12:30"))
	assert.False(t, availability(customer, "13:30"))
	assert.True(t, availability(customer, "11:30"))
	assert.True(t, availability(owner, "12:30"))
	assert.True(t, availability(owner, "13:30"))
}

func TestDaySlotsWholeDayOccupied(t *testing.T) {
	occ := occupancyAt(t, testDay(), 8, 0, 20, 0)
	slots := DaySlots(testDay(), []*occupancy.Occupancy{occ}, booking.TypeOwner, testRules, farPast())

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.False(t, s.Available, "slot %d should be shadowed", s.Index)
	}
}

func TestDaySlotsPastSlotsUnavailable(t *testing.T) {
	now := time.Date(2030, time.June, 10, 12, 15, 0, 0, time.UTC)
	slots := DaySlots(testDay(), nil, booking.TypeOwner, testRules, now)

	for _, s := range slots {
		if s.Range.Start.Before(now) {
			assert.False(t, s.Available, "slot starting %s is in the past", s.Range.Start)
		} else {
			assert.True(t, s.Available)
		}
	}
}

func TestDaySlotsDefaultStep(t *testing.T) {
	rules := testRules
	rules.SlotStep = 0
	slots := DaySlots(testDay(), nil, booking.TypeOwner, rules, farPast())
	require.Len(t, slots, 24)
	assert.Equal(t, 30*time.Minute-time.Second, slots[0].Range.Duration())
}
