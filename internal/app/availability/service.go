package availability

import (
	"context"
	"time"

	"skipper/internal/app/occupancies"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/schedule"
	"skipper/internal/domain/shared/timerange"
)

// Service is a read-only projection of occupancy records into bookable day
// slots. It never mutates anything.
type Service struct {
	occupancy *occupancies.Service
	rules     schedule.Rules
	now       func() time.Time
}

func NewService(occ *occupancies.Service, rules schedule.Rules) *Service {
	return &Service{
		occupancy: occ,
		rules:     rules,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock; for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DaySlots renders the slots of the operating day containing `day` for the
// asset, from the same occupancy records used for direct overlap checks.
func (s *Service) DaySlots(ctx context.Context, assetID string, day time.Time, bookingType booking.BookingType) ([]schedule.Slot, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	window := timerange.TimeRange{
		// The query window is padded so occupancies from neighbouring days
		// still shadow slots once the buffer and restriction are applied.
		Start: dayStart.Add(-24 * time.Hour).UTC(),
		End:   dayStart.Add(48 * time.Hour).UTC(),
	}
	occs, err := s.occupancy.InRange(ctx, assetID, window)
	if err != nil {
		return nil, err
	}
	return schedule.DaySlots(day, occs, bookingType, s.rules, s.now()), nil
}
