package booking

import (
	"context"
	"errors"
	"time"

	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/events"
	"skipper/internal/domain/shared/timerange"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrAlreadyCancelled = errors.New("booking: booking already cancelled")
	ErrAlreadyFulfilled = errors.New("booking: booking already fulfilled")
	ErrNotConfirmable   = errors.New("booking: only bookings awaiting confirmation can be confirmed")
	ErrFulfilledHours   = errors.New("booking: fulfilled hours cannot be longer then booking duration")
)

type BookingID string

type BookingType string

const (
	TypeCustomer BookingType = "CUSTOMER_BOOKING"
	TypeOwner    BookingType = "OWNER_BOOKING"
)

type Status string

const (
	StatusAwaitingConfirmation Status = "AWAITING_CONFIRMATION"
	StatusConfirmed            Status = "CONFIRMED"
	StatusCancelled            Status = "CANCELLED"
	StatusFulfilled            Status = "FULFILLED"
)

// HistoryEntry is one line of the booking's append-only audit trail. Entries
// are appended together with every state change and never reordered.
type HistoryEntry struct {
	At     time.Time
	Actor  string
	Action string
	Note   string
}

// Booking is a customer's or owner's reservation request and its commercial
// state. While the booking is awaiting confirmation or confirmed it owns
// exactly one occupancy covering the same interval; cancellation releases it.
type Booking struct {
	ID             BookingID
	Type           BookingType
	AssetID        string
	Range          timerange.TimeRange
	Status         Status
	OccupancyID    occupancy.OccupancyID
	FulfilledHours *float64
	Invoice        Invoice
	History        []HistoryEntry
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type CreateParams struct {
	ID          BookingID
	Type        BookingType
	AssetID     string
	Range       timerange.TimeRange
	OccupancyID occupancy.OccupancyID
	Invoice     Invoice
	CreatedBy   string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.AssetID == "" {
		return nil, errors.New("booking: asset id required")
	}
	if params.CreatedBy == "" {
		return nil, errors.New("booking: creator required")
	}
	if params.OccupancyID == "" {
		return nil, errors.New("booking: occupancy required")
	}
	if params.Type != TypeCustomer && params.Type != TypeOwner {
		return nil, errors.New("booking: unknown booking type")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:          params.ID,
		Type:        params.Type,
		AssetID:     params.AssetID,
		Range:       params.Range,
		Status:      StatusAwaitingConfirmation,
		OccupancyID: params.OccupancyID,
		Invoice:     params.Invoice,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.appendHistory(now, params.CreatedBy, "INIT", "New booking")
	b.Record(Requested{BookingID: b.ID, AssetID: b.AssetID, Type: b.Type, Range: b.Range, At: now})
	return b, nil
}

// DurationHours is derived from the reserved interval on every read, never
// stored.
func (b *Booking) DurationHours() float64 {
	return b.Range.Hours()
}

func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusFulfilled
}

func (b *Booking) Confirm(actor string, now time.Time) error {
	if b.Status != StatusAwaitingConfirmation {
		return ErrNotConfirmable
	}
	b.Status = StatusConfirmed
	b.touch(now)
	b.appendHistory(b.UpdatedAt, actor, "CONFIRM", "Booking confirmed")
	b.Record(Confirmed{BookingID: b.ID, AssetID: b.AssetID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(actor, reason string, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if b.Status == StatusFulfilled {
		return ErrAlreadyFulfilled
	}
	b.Status = StatusCancelled
	b.touch(now)
	b.appendHistory(b.UpdatedAt, actor, "CANCEL", reason)
	b.Record(Cancelled{BookingID: b.ID, AssetID: b.AssetID, OccupancyID: b.OccupancyID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Fulfill(actor string, hours float64, now time.Time) error {
	if b.Status == StatusFulfilled {
		return ErrAlreadyFulfilled
	}
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if hours > b.DurationHours() {
		return ErrFulfilledHours
	}
	b.Status = StatusFulfilled
	b.FulfilledHours = &hours
	b.touch(now)
	b.appendHistory(b.UpdatedAt, actor, "FULFILL", "Booking fulfilled")
	b.Record(Fulfilled{BookingID: b.ID, AssetID: b.AssetID, Hours: hours, At: b.UpdatedAt})
	return nil
}

func (b *Booking) touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

func (b *Booking) appendHistory(at time.Time, actor, action, note string) {
	b.History = append(b.History, HistoryEntry{At: at, Actor: actor, Action: action, Note: note})
}

// Repository is the persistence contract for booking aggregates.
type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByAsset(ctx context.Context, assetID string) ([]*Booking, error)
	ListByCreator(ctx context.Context, createdBy string) ([]*Booking, error)
}
