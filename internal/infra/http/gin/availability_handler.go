package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"skipper/internal/app/availability"
	"skipper/internal/domain/booking"
)

type AvailabilityHandler struct {
	Availability *availability.Service
}

type slotResponse struct {
	Index     int       `json:"index"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// DaySlots renders the bookable windows of one operating day. `date` is
// YYYY-MM-DD; `type` defaults to a customer booking, which is the stricter
// projection.
func (h AvailabilityHandler) DaySlots(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	bookingType := booking.BookingType(c.DefaultQuery("type", string(booking.TypeCustomer)))
	slots, err := h.Availability.DaySlots(c.Request.Context(), c.Param("id"), day, bookingType)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Index:     s.Index,
			StartTime: s.Range.Start,
			EndTime:   s.Range.End,
			Available: s.Available,
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "slots": out})
}
