package schedule

import (
	"time"

	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/timerange"
)

// Rules carries the externally configured slot parameters for an asset.
type Rules struct {
	// SlotStep is the distance between consecutive slot starts; each slot
	// spans SlotStep minus one second so neighbouring slots never touch.
	SlotStep time.Duration
	// TurnaroundBuffer is appended after every occupancy to model the time
	// needed to ready the asset for its next use.
	TurnaroundBuffer time.Duration
	// CustomerRestriction is the lead time required before an existing
	// occupancy; applied to customer bookings only.
	CustomerRestriction time.Duration
	// EarliestStartHour and LatestEndHour bound the operating day.
	EarliestStartHour int
	LatestEndHour     int
	Boundary          timerange.Boundary
}

// Slot is a derived fixed-width window of a single operating day. Never
// persisted.
type Slot struct {
	Index     int
	Range     timerange.TimeRange
	Available bool
}

// DaySlots partitions the operating day containing `day` into fixed-width
// slots and annotates each with availability against the given occupancies.
// A slot is unavailable when it overlaps an occupancy after the buffer and
// restriction transforms, or when its start is already in the past.
func DaySlots(day time.Time, occs []*occupancy.Occupancy, bookingType booking.BookingType, rules Rules, now time.Time) []Slot {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), rules.EarliestStartHour, 0, 0, 0, day.Location())
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), rules.LatestEndHour, 0, 0, 0, day.Location())
	if !dayEnd.After(dayStart) {
		return nil
	}

	step := rules.SlotStep
	if step <= 0 {
		step = 30 * time.Minute
	}
	width := step - time.Second

	blocked := adjustedRanges(occs, bookingType, rules)

	var slots []Slot
	for start, index := dayStart, 0; ; start, index = start.Add(step), index+1 {
		end := start.Add(width)
		if end.After(dayEnd) {
			break
		}
		slot := timerange.TimeRange{Start: start.UTC(), End: end.UTC()}
		available := !start.Before(now) && !timerange.ConflictsWithAny(slot, blocked, rules.Boundary)
		slots = append(slots, Slot{Index: index, Range: slot, Available: available})
	}
	return slots
}

// adjustedRanges widens every occupancy by the turnaround buffer and, for
// customer bookings, by the leading restriction window.
func adjustedRanges(occs []*occupancy.Occupancy, bookingType booking.BookingType, rules Rules) []timerange.TimeRange {
	out := make([]timerange.TimeRange, 0, len(occs))
	for _, o := range occs {
		r := o.Range
		if rules.TurnaroundBuffer > 0 {
			r = r.ExtendEnd(rules.TurnaroundBuffer)
		}
		if bookingType == booking.TypeCustomer && rules.CustomerRestriction > 0 {
			r = r.ExtendStart(rules.CustomerRestriction)
		}
		out = append(out, r)
	}
	return out
}
