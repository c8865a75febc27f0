package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"skipper/internal/app/auth"
	"skipper/internal/app/bookings"
	"skipper/internal/domain/booking"
	"skipper/internal/domain/shared/money"
)

type BookingHandler struct {
	Bookings *bookings.Service
}

type createBookingRequest struct {
	Type          string    `json:"type"`
	AssetID       string    `json:"asset_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	RegularAmount int64     `json:"regular_amount"`
	Currency      string    `json:"currency"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireOperation(c, auth.OpInitBooking)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	regular, err := money.New(req.RegularAmount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	bookingType := booking.BookingType(req.Type)
	if bookingType == "" {
		bookingType = booking.TypeCustomer
	}
	b, err := h.Bookings.InitBooking(c.Request.Context(), bookings.InitParams{
		Type:          bookingType,
		AssetID:       req.AssetID,
		Start:         req.StartTime,
		End:           req.EndTime,
		RegularAmount: regular,
		CreatedBy:     p.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := currentPrincipal(c); !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}
	b, err := h.Bookings.Booking(c.Request.Context(), booking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h BookingHandler) ListMine(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		respondError(c, auth.ErrUnauthenticated)
		return
	}
	list, err := h.Bookings.ListByCreator(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func (h BookingHandler) Confirm(c *gin.Context) {
	p, ok := requireOperation(c, auth.OpConfirmBooking)
	if !ok {
		return
	}
	b, err := h.Bookings.ConfirmBooking(c.Request.Context(), booking.BookingID(c.Param("id")), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireOperation(c, auth.OpCancelBooking)
	if !ok {
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Booking cancelled"
	}
	b, err := h.Bookings.CancelBooking(c.Request.Context(), booking.BookingID(c.Param("id")), p.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

type fulfillBookingRequest struct {
	Hours float64 `json:"hours"`
}

func (h BookingHandler) Fulfill(c *gin.Context) {
	p, ok := requireOperation(c, auth.OpFulfillBooking)
	if !ok {
		return
	}
	var req fulfillBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Bookings.FulfillBooking(c.Request.Context(), booking.BookingID(c.Param("id")), p.UserID, req.Hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

type applyDiscountRequest struct {
	Amount int64  `json:"amount"`
	Code   string `json:"code"`
}

func (h BookingHandler) ApplyDiscount(c *gin.Context) {
	if _, ok := requireOperation(c, auth.OpApplyDiscount); !ok {
		return
	}
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := booking.BookingID(c.Param("id"))
	current, err := h.Bookings.Booking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	amount, err := money.New(req.Amount, current.Invoice.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Bookings.ApplyDiscount(c.Request.Context(), id, amount, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h BookingHandler) RemoveDiscount(c *gin.Context) {
	if _, ok := requireOperation(c, auth.OpRemoveDiscount); !ok {
		return
	}
	b, err := h.Bookings.RemoveDiscount(c.Request.Context(), booking.BookingID(c.Param("id")), c.Param("discountId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

type makePaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h BookingHandler) MakePayment(c *gin.Context) {
	if _, ok := requireOperation(c, auth.OpMakePayment); !ok {
		return
	}
	var req makePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Bookings.MakePayment(c.Request.Context(), booking.BookingID(c.Param("id")), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
