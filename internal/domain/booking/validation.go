package booking

import (
	"errors"
	"time"

	"skipper/internal/domain/shared/timerange"
)

var (
	ErrStartInPast       = errors.New("booking: start time is in the past")
	ErrTooShort          = errors.New("booking: duration below the configured minimum")
	ErrTooLong           = errors.New("booking: duration above the configured maximum")
	ErrSpansMultipleDays = errors.New("booking: multi-day bookings are not supported")
	ErrOutsideHours      = errors.New("booking: outside the daily booking hours")
)

// Rules carries the externally configured booking constraints. Loaded once at
// startup and read per operation.
type Rules struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	// EarliestHour and LatestHour bound the daily booking window for
	// customer bookings, as hours of the day in the range's location.
	EarliestHour int
	LatestHour   int
}

// ValidateRange checks a requested interval against the rules before any
// state is touched. The daily-hours window applies to customer bookings only.
func ValidateRange(r timerange.TimeRange, bookingType BookingType, rules Rules, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Start.Before(now.UTC()) {
		return ErrStartInPast
	}
	if d := r.Duration(); d < rules.MinDuration {
		return ErrTooShort
	} else if rules.MaxDuration > 0 && d > rules.MaxDuration {
		return ErrTooLong
	}
	ys, ms, ds := r.Start.Date()
	ye, me, de := r.End.Add(-time.Nanosecond).Date()
	if ys != ye || ms != me || ds != de {
		return ErrSpansMultipleDays
	}
	if bookingType == TypeCustomer {
		if r.Start.Hour() < rules.EarliestHour {
			return ErrOutsideHours
		}
		endHour := r.End.Hour()
		if r.End.Minute() > 0 || r.End.Second() > 0 {
			endHour++
		}
		if rules.LatestHour > 0 && endHour > rules.LatestHour {
			return ErrOutsideHours
		}
	}
	return nil
}
