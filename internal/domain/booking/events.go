package booking

import (
	"time"

	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/timerange"
)

type Requested struct {
	BookingID BookingID
	AssetID   string
	Type      BookingType
	Range     timerange.TimeRange
	At        time.Time
}

func (e Requested) EventName() string     { return "booking.requested" }
func (e Requested) AggregateID() string   { return string(e.BookingID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	BookingID BookingID
	AssetID   string
	Range     timerange.TimeRange
	At        time.Time
}

func (e Confirmed) EventName() string     { return "booking.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.BookingID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID   BookingID
	AssetID     string
	OccupancyID occupancy.OccupancyID
	Reason      string
	At          time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type Fulfilled struct {
	BookingID BookingID
	AssetID   string
	Hours     float64
	At        time.Time
}

func (e Fulfilled) EventName() string     { return "booking.fulfilled" }
func (e Fulfilled) AggregateID() string   { return string(e.BookingID) }
func (e Fulfilled) OccurredAt() time.Time { return e.At }
