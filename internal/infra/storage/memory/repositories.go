package memory

import (
	"context"
	"sort"
	"sync"

	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/timerange"
)

// OccupancyRepository is an in-memory implementation for dev mode and tests.
type OccupancyRepository struct {
	mu    sync.RWMutex
	items map[occupancy.OccupancyID]*occupancy.Occupancy
}

func NewOccupancyRepository() *OccupancyRepository {
	return &OccupancyRepository{items: make(map[occupancy.OccupancyID]*occupancy.Occupancy)}
}

func (r *OccupancyRepository) ByID(ctx context.Context, id occupancy.OccupancyID) (*occupancy.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, occupancy.ErrNotFound
	}
	return o, nil
}

// InRange returns occupancies for the asset intersecting r, ordered by start
// time. Intersection here is the plain half-open test; boundary policy only
// applies to the conflict decision, not to the query window.
func (r *OccupancyRepository) InRange(ctx context.Context, assetID string, q timerange.TimeRange) ([]*occupancy.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*occupancy.Occupancy
	for _, o := range r.items {
		if o.AssetID != assetID {
			continue
		}
		if o.Range.Overlaps(q, timerange.BoundaryHalfOpen) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

func (r *OccupancyRepository) Insert(ctx context.Context, o *occupancy.Occupancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[o.ID] = o
	return nil
}

func (r *OccupancyRepository) Save(ctx context.Context, o *occupancy.Occupancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[o.ID]; !ok {
		return occupancy.ErrNotFound
	}
	r.items[o.ID] = o
	return nil
}

func (r *OccupancyRepository) Delete(ctx context.Context, id occupancy.OccupancyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return occupancy.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Len reports the number of stored occupancies; for tests.
func (r *OccupancyRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// BookingRepository is an in-memory implementation for dev mode and tests.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[booking.BookingID]*booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[booking.BookingID]*booking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) ListByAsset(ctx context.Context, assetID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.AssetID == assetID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start.Before(out[j].Range.Start) })
	return out, nil
}

func (r *BookingRepository) ListByCreator(ctx context.Context, createdBy string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.CreatedBy == createdBy {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
