package occupancies

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"skipper/internal/app/policies"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/events"
	"skipper/internal/domain/shared/timerange"
)

// searchPadding widens the storage query around a candidate interval so the
// overlap check sees every record that could possibly conflict.
const searchPadding = 24 * time.Hour

// Service owns all mutation of occupancy records. Reserve serializes
// read-then-write per asset, so two concurrent reservations for the same
// asset can never both pass the overlap check.
type Service struct {
	repo      occupancy.Repository
	publisher policies.Publisher
	boundary  timerange.Boundary
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo occupancy.Repository, publisher policies.Publisher, boundary timerange.Boundary, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = policies.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		boundary:  boundary,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Reserve creates a new occupancy for the asset, failing with
// occupancy.ErrTimeslotUnavailable when the interval conflicts with an
// existing record.
func (s *Service) Reserve(ctx context.Context, assetID string, r timerange.TimeRange, ref occupancy.Reference) (*occupancy.Occupancy, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	lock := s.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.InRange(ctx, assetID, r.Pad(searchPadding))
	if err != nil {
		return nil, fmt.Errorf("occupancies: load existing: %w", err)
	}
	if occupancy.Conflicts(r, existing, s.boundary) {
		s.publish(ctx, occupancy.OverbookingPrevented{AssetID: assetID, Range: r, At: time.Now().UTC()})
		return nil, occupancy.ErrTimeslotUnavailable
	}

	o, err := occupancy.New(occupancy.CreateParams{
		ID:        occupancy.OccupancyID(uuid.NewString()),
		AssetID:   assetID,
		Range:     r,
		Reference: ref,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("occupancies: insert: %w", err)
	}
	s.drainEvents(ctx, o)
	return o, nil
}

// BlockForMaintenance reserves an interval with no booking behind it, taking
// the asset out of service for the window.
func (s *Service) BlockForMaintenance(ctx context.Context, assetID string, r timerange.TimeRange) (*occupancy.Occupancy, error) {
	return s.Reserve(ctx, assetID, r, occupancy.Reference{Type: occupancy.RefMaintenance})
}

// Release deletes the occupancy. Releasing an absent occupancy fails with
// occupancy.ErrNotFound and leaves the store unchanged.
func (s *Service) Release(ctx context.Context, id occupancy.OccupancyID) error {
	o, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("occupancies: delete: %w", err)
	}
	s.publish(ctx, occupancy.Released{OccupancyID: o.ID, AssetID: o.AssetID, Range: o.Range, At: time.Now().UTC()})
	return nil
}

// Confirm flips the occupancy status from PENDING to CONFIRMED.
func (s *Service) Confirm(ctx context.Context, id occupancy.OccupancyID) error {
	o, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := o.Confirm(time.Now()); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return fmt.Errorf("occupancies: save: %w", err)
	}
	s.drainEvents(ctx, o)
	return nil
}

// InRange returns the asset's occupancies intersecting the range, ordered by
// start time.
func (s *Service) InRange(ctx context.Context, assetID string, r timerange.TimeRange) ([]*occupancy.Occupancy, error) {
	return s.repo.InRange(ctx, assetID, r)
}

// assetLock returns the mutex serializing reservations for one asset. Entries
// are never evicted: the map is bounded by the operator's fleet, which is a
// small fixed population, not an open-ended id space.
func (s *Service) assetLock(assetID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assetID] = lock
	}
	return lock
}

func (s *Service) drainEvents(ctx context.Context, o *occupancy.Occupancy) {
	for _, ev := range o.PendingEvents() {
		s.publish(ctx, ev)
	}
	o.ClearEvents()
}

func (s *Service) publish(ctx context.Context, ev events.DomainEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", "event", ev.EventName(), "aggregate", ev.AggregateID(), "error", err)
	}
}
