package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skipper/internal/app/occupancies"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/money"
	"skipper/internal/domain/shared/timerange"
	"skipper/internal/infra/storage/memory"
)

var testRules = booking.Rules{
	MinDuration:  time.Hour,
	MaxDuration:  8 * time.Hour,
	EarliestHour: 8,
	LatestHour:   20,
}

type fixture struct {
	svc     *Service
	occRepo *memory.OccupancyRepository
	repo    *memory.BookingRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	occRepo := memory.NewOccupancyRepository()
	occSvc := occupancies.NewService(occRepo, nil, timerange.BoundaryHalfOpen, nil)
	repo := memory.NewBookingRepository()
	svc := NewService(repo, occSvc, nil, testRules, nil).
		WithClock(func() time.Time { return time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC) })
	return fixture{svc: svc, occRepo: occRepo, repo: repo}
}

func validParams() InitParams {
	return InitParams{
		Type:          booking.TypeCustomer,
		AssetID:       "boat-1",
		Start:         time.Date(2030, time.June, 10, 10, 0, 0, 0, time.UTC),
		End:           time.Date(2030, time.June, 10, 12, 0, 0, 0, time.UTC),
		RegularAmount: money.Must(1000, "EUR"),
		CreatedBy:     "user-1",
	}
}

func TestInitBookingReservesOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	assert.Equal(t, booking.StatusAwaitingConfirmation, b.Status)
	assert.NotEmpty(t, b.OccupancyID)
	assert.Equal(t, 1, f.occRepo.Len())

	occ, err := f.occRepo.ByID(ctx, b.OccupancyID)
	require.NoError(t, err)
	assert.True(t, occ.Range.Equal(b.Range), "occupancy interval equals the booking interval")
	assert.Equal(t, string(b.ID), occ.Reference.ID)
}

func TestInitBookingConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	overlapping := validParams()
	overlapping.Start = time.Date(2030, time.June, 10, 11, 0, 0, 0, time.UTC)
	overlapping.End = time.Date(2030, time.June, 10, 13, 0, 0, 0, time.UTC)
	_, err = f.svc.InitBooking(ctx, overlapping)
	assert.Error(t, err)
	assert.Equal(t, 1, f.occRepo.Len(), "no second occupancy was written")
}

func TestInitBookingValidationHappensBeforeReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	past := validParams()
	past.Start = time.Date(2030, time.June, 8, 10, 0, 0, 0, time.UTC)
	past.End = time.Date(2030, time.June, 8, 12, 0, 0, 0, time.UTC)
	_, err := f.svc.InitBooking(ctx, past)
	assert.ErrorIs(t, err, booking.ErrStartInPast)
	assert.Equal(t, 0, f.occRepo.Len())
}

type failingBookingRepo struct {
	booking.Repository
}

func (failingBookingRepo) Save(context.Context, *booking.Booking) error {
	return errors.New("write refused")
}

func TestInitBookingCompensatesFailedWrite(t *testing.T) {
	occRepo := memory.NewOccupancyRepository()
	occSvc := occupancies.NewService(occRepo, nil, timerange.BoundaryHalfOpen, nil)
	svc := NewService(failingBookingRepo{memory.NewBookingRepository()}, occSvc, nil, testRules, nil).
		WithClock(func() time.Time { return time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC) })

	_, err := svc.InitBooking(context.Background(), validParams())
	require.Error(t, err)
	assert.Equal(t, 0, occRepo.Len(), "reserved occupancy is released when the booking write fails")
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmBooking(ctx, b.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status)

	occ, err := f.occRepo.ByID(ctx, b.OccupancyID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", string(occ.Status))
}

func TestCancelBookingReleasesOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, "admin-1", "customer request")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, f.occRepo.Len())

	// The freed interval is bookable again.
	_, err = f.svc.InitBooking(ctx, validParams())
	assert.NoError(t, err)
}

type stuckOccupancyRepo struct {
	*memory.OccupancyRepository
}

func (stuckOccupancyRepo) Delete(context.Context, occupancy.OccupancyID) error {
	return errors.New("delete refused")
}

func TestCancelBookingCommitsWhenReleaseFails(t *testing.T) {
	occRepo := stuckOccupancyRepo{memory.NewOccupancyRepository()}
	occSvc := occupancies.NewService(occRepo, nil, timerange.BoundaryHalfOpen, nil)
	svc := NewService(memory.NewBookingRepository(), occSvc, nil, testRules, nil).
		WithClock(func() time.Time { return time.Date(2030, time.June, 9, 12, 0, 0, 0, time.UTC) })
	ctx := context.Background()

	b, err := svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, b.ID, "admin-1", "weather")
	require.NoError(t, err, "cancel commits the status even when the release fails")
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	assert.Equal(t, 1, occRepo.Len(), "occupancy stays behind for reconciliation")

	current, err := svc.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, current.Status)
}

func TestCancelBookingGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(ctx, b.ID, "admin-1", "")
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, b.ID, "admin-1", "")
	assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)

	_, err = f.svc.CancelBooking(ctx, "missing", "admin-1", "")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestFulfillBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	fulfilled, err := f.svc.FulfillBooking(ctx, b.ID, "admin-1", 1.5)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledHours)
	assert.InDelta(t, 1.5, *fulfilled.FulfilledHours, 1e-9)

	_, err = f.svc.CancelBooking(ctx, b.ID, "admin-1", "")
	assert.ErrorIs(t, err, booking.ErrAlreadyFulfilled)
}

func TestFulfillBookingHoursGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	_, err = f.svc.FulfillBooking(ctx, b.ID, "admin-1", 3)
	assert.ErrorIs(t, err, booking.ErrFulfilledHours)

	current, err := f.svc.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusAwaitingConfirmation, current.Status)
}

func TestInvoiceOperationsThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	b, err = f.svc.ApplyDiscount(ctx, b.ID, money.Must(200, "EUR"), "WEEKDAY_DISCOUNT")
	require.NoError(t, err)
	assert.Equal(t, int64(800), b.Invoice.TotalAmount.Amount)

	b, err = f.svc.MakePayment(ctx, b.ID, money.Must(800, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPaid, b.Invoice.PaymentStatus)
	assert.Equal(t, int64(0), b.Invoice.Balance.Amount)

	_, err = f.svc.MakePayment(ctx, b.ID, money.Must(1, "EUR"))
	assert.ErrorIs(t, err, booking.ErrOverpayment)

	_, err = f.svc.RemoveDiscount(ctx, b.ID, "missing")
	assert.ErrorIs(t, err, booking.ErrDiscountNotFound)
}

func TestListByCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.InitBooking(ctx, validParams())
	require.NoError(t, err)

	second := validParams()
	second.Start = time.Date(2030, time.June, 10, 14, 0, 0, 0, time.UTC)
	second.End = time.Date(2030, time.June, 10, 16, 0, 0, 0, time.UTC)
	_, err = f.svc.InitBooking(ctx, second)
	require.NoError(t, err)

	list, err := f.svc.ListByCreator(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
