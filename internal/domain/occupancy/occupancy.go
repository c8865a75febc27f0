package occupancy

import (
	"context"
	"errors"
	"time"

	"skipper/internal/domain/shared/events"
	"skipper/internal/domain/shared/timerange"
)

var (
	ErrTimeslotUnavailable = errors.New("occupancy: timeslot not available")
	ErrNotFound            = errors.New("occupancy: not found")
)

type OccupancyID string

type ReferenceType string

const (
	RefBooking     ReferenceType = "BOOKING"
	RefMaintenance ReferenceType = "MAINTENANCE"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

// Reference ties an occupancy back to whatever reserved it. ID is empty for
// maintenance blocks.
type Reference struct {
	Type ReferenceType
	ID   string
}

// Occupancy is one reserved interval on one asset. For a fixed asset no two
// occupancies may overlap in time.
type Occupancy struct {
	ID        OccupancyID
	AssetID   string
	Range     timerange.TimeRange
	Reference Reference
	Status    Status
	CreatedAt time.Time
	events.EventRecorder
}

type CreateParams struct {
	ID        OccupancyID
	AssetID   string
	Range     timerange.TimeRange
	Reference Reference
	CreatedAt time.Time
}

func New(params CreateParams) (*Occupancy, error) {
	if params.AssetID == "" {
		return nil, errors.New("occupancy: asset id required")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Reference.Type == RefBooking && params.Reference.ID == "" {
		return nil, errors.New("occupancy: booking reference id required")
	}
	o := &Occupancy{
		ID:        params.ID,
		AssetID:   params.AssetID,
		Range:     params.Range,
		Reference: params.Reference,
		Status:    StatusPending,
		CreatedAt: params.CreatedAt.UTC(),
	}
	o.Record(Reserved{OccupancyID: o.ID, AssetID: o.AssetID, Range: o.Range, Reference: o.Reference, At: o.CreatedAt})
	return o, nil
}

// Confirm flips the occupancy from PENDING to CONFIRMED. Any other flip is
// rejected; an occupancy interval never changes in place.
func (o *Occupancy) Confirm(now time.Time) error {
	if o.Status != StatusPending {
		return errors.New("occupancy: only pending occupancies can be confirmed")
	}
	o.Status = StatusConfirmed
	o.Record(Confirmed{OccupancyID: o.ID, AssetID: o.AssetID, At: now.UTC()})
	return nil
}

// Conflicts reports whether candidate clashes with any of the existing
// occupancies under the given boundary policy.
func Conflicts(candidate timerange.TimeRange, existing []*Occupancy, boundary timerange.Boundary) bool {
	ranges := make([]timerange.TimeRange, 0, len(existing))
	for _, o := range existing {
		ranges = append(ranges, o.Range)
	}
	return timerange.ConflictsWithAny(candidate, ranges, boundary)
}

// Repository is the persistence contract for occupancy records.
type Repository interface {
	ByID(ctx context.Context, id OccupancyID) (*Occupancy, error)
	// InRange returns occupancies for the asset whose interval intersects the
	// given range, ordered by start time.
	InRange(ctx context.Context, assetID string, r timerange.TimeRange) ([]*Occupancy, error)
	Insert(ctx context.Context, o *Occupancy) error
	Save(ctx context.Context, o *Occupancy) error
	Delete(ctx context.Context, id OccupancyID) error
}
