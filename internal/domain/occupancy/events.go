package occupancy

import (
	"time"

	"skipper/internal/domain/shared/timerange"
)

type Reserved struct {
	OccupancyID OccupancyID
	AssetID     string
	Range       timerange.TimeRange
	Reference   Reference
	At          time.Time
}

func (e Reserved) EventName() string     { return "occupancy.reserved" }
func (e Reserved) AggregateID() string   { return string(e.OccupancyID) }
func (e Reserved) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	OccupancyID OccupancyID
	AssetID     string
	At          time.Time
}

func (e Confirmed) EventName() string     { return "occupancy.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.OccupancyID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Released struct {
	OccupancyID OccupancyID
	AssetID     string
	Range       timerange.TimeRange
	At          time.Time
}

func (e Released) EventName() string     { return "occupancy.released" }
func (e Released) AggregateID() string   { return string(e.OccupancyID) }
func (e Released) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	AssetID string
	Range   timerange.TimeRange
	At      time.Time
}

func (e OverbookingPrevented) EventName() string     { return "occupancy.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return e.AssetID }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }
