package ginserver

import (
	"time"

	"skipper/internal/domain/booking"
)

type bookingResponse struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	AssetID        string            `json:"asset_id"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Status         string            `json:"status"`
	OccupancyID    string            `json:"occupancy_id"`
	DurationHours  float64           `json:"duration_hours"`
	FulfilledHours *float64          `json:"fulfilled_hours,omitempty"`
	Invoice        invoiceResponse   `json:"invoice"`
	History        []historyResponse `json:"history"`
	CreatedBy      string            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
}

type invoiceResponse struct {
	RegularAmount int64              `json:"regular_amount"`
	Discounts     []discountResponse `json:"discounts"`
	TotalAmount   int64              `json:"total_amount"`
	Payments      []paymentResponse  `json:"payments"`
	PaidAmount    int64              `json:"paid_amount"`
	Balance       int64              `json:"balance"`
	Currency      string             `json:"currency"`
	PaymentStatus string             `json:"payment_status"`
}

type discountResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

type paymentResponse struct {
	ID     string    `json:"id"`
	Amount int64     `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}

type historyResponse struct {
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Note   string    `json:"note"`
}

func toBookingResponse(b *booking.Booking) bookingResponse {
	inv := invoiceResponse{
		RegularAmount: b.Invoice.RegularAmount.Amount,
		TotalAmount:   b.Invoice.TotalAmount.Amount,
		PaidAmount:    b.Invoice.PaidAmount.Amount,
		Balance:       b.Invoice.Balance.Amount,
		Currency:      b.Invoice.Currency,
		PaymentStatus: string(b.Invoice.PaymentStatus),
		Discounts:     make([]discountResponse, 0, len(b.Invoice.Discounts)),
		Payments:      make([]paymentResponse, 0, len(b.Invoice.Payments)),
	}
	for _, d := range b.Invoice.Discounts {
		inv.Discounts = append(inv.Discounts, discountResponse{ID: d.ID, Code: d.Code, Amount: d.Amount.Amount})
	}
	for _, p := range b.Invoice.Payments {
		inv.Payments = append(inv.Payments, paymentResponse{ID: p.ID, Amount: p.Amount.Amount, PaidAt: p.PaidAt})
	}
	history := make([]historyResponse, 0, len(b.History))
	for _, h := range b.History {
		history = append(history, historyResponse{At: h.At, Actor: h.Actor, Action: h.Action, Note: h.Note})
	}
	return bookingResponse{
		ID:             string(b.ID),
		Type:           string(b.Type),
		AssetID:        b.AssetID,
		StartTime:      b.Range.Start,
		EndTime:        b.Range.End,
		Status:         string(b.Status),
		OccupancyID:    string(b.OccupancyID),
		DurationHours:  b.DurationHours(),
		FulfilledHours: b.FulfilledHours,
		Invoice:        inv,
		History:        history,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
	}
}
