package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"skipper/internal/app/occupancies"
	"skipper/internal/app/policies"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/events"
	"skipper/internal/domain/shared/money"
	"skipper/internal/domain/shared/timerange"
)

// Service is the single writer for a booking and its occupancy. Every
// transition applies the booking write and the occupancy side effect as one
// unit of failure: init compensates a failed booking write by releasing the
// fresh occupancy, cancel commits the status first and releases best-effort.
type Service struct {
	repo      booking.Repository
	occupancy *occupancies.Service
	publisher policies.Publisher
	rules     booking.Rules
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo booking.Repository, occ *occupancies.Service, publisher policies.Publisher, rules booking.Rules, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = policies.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		occupancy: occ,
		publisher: publisher,
		rules:     rules,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock; for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type InitParams struct {
	Type          booking.BookingType
	AssetID       string
	Start         time.Time
	End           time.Time
	RegularAmount money.Money
	CreatedBy     string
}

// InitBooking validates the request, reserves the occupancy and persists the
// booking in AWAITING_CONFIRMATION. The booking never exists without its
// reservation: a failed booking write releases the occupancy again.
func (s *Service) InitBooking(ctx context.Context, params InitParams) (*booking.Booking, error) {
	r, err := timerange.New(params.Start, params.End)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := booking.ValidateRange(r, params.Type, s.rules, now); err != nil {
		return nil, err
	}

	id := booking.BookingID(uuid.NewString())
	occ, err := s.occupancy.Reserve(ctx, params.AssetID, r, occupancy.Reference{Type: occupancy.RefBooking, ID: string(id)})
	if err != nil {
		return nil, err
	}

	b, err := booking.New(booking.CreateParams{
		ID:          id,
		Type:        params.Type,
		AssetID:     params.AssetID,
		Range:       r,
		OccupancyID: occ.ID,
		Invoice:     booking.NewInvoice(params.RegularAmount),
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
	})
	if err != nil {
		s.compensateReserve(ctx, occ.ID)
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		s.compensateReserve(ctx, occ.ID)
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	s.drainEvents(ctx, b)
	return b, nil
}

// ConfirmBooking moves the booking to CONFIRMED and flips its occupancy to
// CONFIRMED as well.
func (s *Service) ConfirmBooking(ctx context.Context, id booking.BookingID, actor string) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	if err := s.occupancy.Confirm(ctx, b.OccupancyID); err != nil && s.logger != nil {
		s.logger.Warn("occupancy confirm failed", "booking_id", b.ID, "occupancy_id", b.OccupancyID, "error", err)
	}
	s.drainEvents(ctx, b)
	return b, nil
}

// CancelBooking commits the CANCELLED status, then releases the occupancy
// best-effort; a failed release is logged for reconciliation and does not
// fail the request.
func (s *Service) CancelBooking(ctx context.Context, id booking.BookingID, actor, reason string) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Cancel(actor, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	if err := s.occupancy.Release(ctx, b.OccupancyID); err != nil && s.logger != nil {
		s.logger.Error("occupancy release failed after cancel, needs reconciliation",
			"booking_id", b.ID, "occupancy_id", b.OccupancyID, "error", err)
	}
	s.drainEvents(ctx, b)
	return b, nil
}

// FulfillBooking records the hours actually used and closes the booking.
func (s *Service) FulfillBooking(ctx context.Context, id booking.BookingID, actor string, hours float64) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Fulfill(actor, hours, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	s.drainEvents(ctx, b)
	return b, nil
}

// ApplyDiscount appends a discount to the booking's invoice and recomputes
// totals.
func (s *Service) ApplyDiscount(ctx context.Context, id booking.BookingID, amount money.Money, code string) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Invoice.ApplyDiscount(uuid.NewString(), amount, code); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	return b, nil
}

// RemoveDiscount drops a discount by id.
func (s *Service) RemoveDiscount(ctx context.Context, id booking.BookingID, discountID string) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Invoice.RemoveDiscount(discountID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	return b, nil
}

// MakePayment records a payment on the booking's invoice.
func (s *Service) MakePayment(ctx context.Context, id booking.BookingID, amount money.Money) (*booking.Booking, error) {
	b, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Invoice.MakePayment(uuid.NewString(), amount, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("bookings: save: %w", err)
	}
	return b, nil
}

// Booking loads a single booking.
func (s *Service) Booking(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	return s.repo.ByID(ctx, id)
}

// ListByCreator returns the caller's own bookings.
func (s *Service) ListByCreator(ctx context.Context, createdBy string) ([]*booking.Booking, error) {
	return s.repo.ListByCreator(ctx, createdBy)
}

func (s *Service) compensateReserve(ctx context.Context, id occupancy.OccupancyID) {
	if err := s.occupancy.Release(ctx, id); err != nil && s.logger != nil {
		s.logger.Error("compensating release failed, needs reconciliation", "occupancy_id", id, "error", err)
	}
}

func (s *Service) drainEvents(ctx context.Context, b *booking.Booking) {
	for _, ev := range b.PendingEvents() {
		s.publish(ctx, ev)
	}
	b.ClearEvents()
}

func (s *Service) publish(ctx context.Context, ev events.DomainEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", "event", ev.EventName(), "aggregate", ev.AggregateID(), "error", err)
	}
}
