package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"skipper/internal/app/auth"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/money"
	"skipper/internal/domain/shared/timerange"
)

// respondError maps core errors onto transport status codes. Anything not
// recognised is an internal failure and hides its detail from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, occupancy.ErrNotFound),
		errors.Is(err, booking.ErrDiscountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, occupancy.ErrTimeslotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Timeslot not available"})
	case errors.Is(err, timerange.ErrInvalidRange),
		errors.Is(err, booking.ErrStartInPast),
		errors.Is(err, booking.ErrTooShort),
		errors.Is(err, booking.ErrTooLong),
		errors.Is(err, booking.ErrSpansMultipleDays),
		errors.Is(err, booking.ErrOutsideHours),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrAlreadyFulfilled),
		errors.Is(err, booking.ErrNotConfirmable),
		errors.Is(err, booking.ErrFulfilledHours),
		errors.Is(err, booking.ErrOverpayment),
		errors.Is(err, booking.ErrInvalidAmount),
		errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, money.ErrInvalidCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireOperation resolves the principal and runs the capability gate for
// the operation, writing the error response itself on failure.
func requireOperation(c *gin.Context, op auth.Operation) (auth.Principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return auth.Principal{}, false
	}
	if err := auth.Allowed(p, op); err != nil {
		respondError(c, err)
		return auth.Principal{}, false
	}
	return p, true
}
