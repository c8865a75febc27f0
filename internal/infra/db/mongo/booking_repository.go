package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "skipper/internal/domain/booking"
	domainoccupancy "skipper/internal/domain/occupancy"
	domainmoney "skipper/internal/domain/shared/money"
	domainrange "skipper/internal/domain/shared/timerange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts the booking with an optimistic version check; a lost race
// surfaces as ErrConcurrentUpdate.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByAsset(ctx context.Context, assetID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"asset_id": assetID}, bson.D{{Key: "start_time", Value: 1}})
}

func (r *BookingRepository) ListByCreator(ctx context.Context, createdBy string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"created_by": createdBy}, bson.D{{Key: "created_at", Value: 1}})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID             string            `bson:"_id"`
	Type           string            `bson:"type"`
	AssetID        string            `bson:"asset_id"`
	StartTime      int64             `bson:"start_time"`
	EndTime        int64             `bson:"end_time"`
	Status         string            `bson:"status"`
	OccupancyID    string            `bson:"occupancy_id"`
	FulfilledHours *float64          `bson:"fulfilled_hours,omitempty"`
	Invoice        invoiceDocument   `bson:"invoice"`
	History        []historyDocument `bson:"history"`
	CreatedBy      string            `bson:"created_by"`
	CreatedAt      int64             `bson:"created_at"`
	UpdatedAt      int64             `bson:"updated_at"`
	Version        int64             `bson:"version"`
}

type invoiceDocument struct {
	RegularAmount int64              `bson:"regular_amount"`
	Discounts     []discountDocument `bson:"discounts"`
	TotalAmount   int64              `bson:"total_amount"`
	Payments      []paymentDocument  `bson:"payments"`
	PaidAmount    int64              `bson:"paid_amount"`
	Balance       int64              `bson:"balance"`
	Currency      string             `bson:"currency"`
	PaymentStatus string             `bson:"payment_status"`
}

type discountDocument struct {
	ID     string `bson:"id"`
	Code   string `bson:"code"`
	Amount int64  `bson:"amount"`
}

type paymentDocument struct {
	ID     string `bson:"id"`
	Amount int64  `bson:"amount"`
	PaidAt int64  `bson:"paid_at"`
}

type historyDocument struct {
	At     int64  `bson:"at"`
	Actor  string `bson:"actor"`
	Action string `bson:"action"`
	Note   string `bson:"note"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	inv := invoiceDocument{
		RegularAmount: b.Invoice.RegularAmount.Amount,
		TotalAmount:   b.Invoice.TotalAmount.Amount,
		PaidAmount:    b.Invoice.PaidAmount.Amount,
		Balance:       b.Invoice.Balance.Amount,
		Currency:      b.Invoice.Currency,
		PaymentStatus: string(b.Invoice.PaymentStatus),
	}
	for _, d := range b.Invoice.Discounts {
		inv.Discounts = append(inv.Discounts, discountDocument{ID: d.ID, Code: d.Code, Amount: d.Amount.Amount})
	}
	for _, p := range b.Invoice.Payments {
		inv.Payments = append(inv.Payments, paymentDocument{ID: p.ID, Amount: p.Amount.Amount, PaidAt: p.PaidAt.UnixMilli()})
	}
	doc := bookingDocument{
		ID:             string(b.ID),
		Type:           string(b.Type),
		AssetID:        b.AssetID,
		StartTime:      b.Range.Start.UnixMilli(),
		EndTime:        b.Range.End.UnixMilli(),
		Status:         string(b.Status),
		OccupancyID:    string(b.OccupancyID),
		FulfilledHours: b.FulfilledHours,
		Invoice:        inv,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt.UnixMilli(),
		UpdatedAt:      b.UpdatedAt.UnixMilli(),
		Version:        b.Version,
	}
	for _, h := range b.History {
		doc.History = append(doc.History, historyDocument{At: h.At.UnixMilli(), Actor: h.Actor, Action: h.Action, Note: h.Note})
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	inv := domainbooking.Invoice{
		RegularAmount: domainmoney.Money{Amount: d.Invoice.RegularAmount, Currency: d.Invoice.Currency},
		TotalAmount:   domainmoney.Money{Amount: d.Invoice.TotalAmount, Currency: d.Invoice.Currency},
		PaidAmount:    domainmoney.Money{Amount: d.Invoice.PaidAmount, Currency: d.Invoice.Currency},
		Balance:       domainmoney.Money{Amount: d.Invoice.Balance, Currency: d.Invoice.Currency},
		Currency:      d.Invoice.Currency,
		PaymentStatus: domainbooking.PaymentStatus(d.Invoice.PaymentStatus),
	}
	for _, disc := range d.Invoice.Discounts {
		inv.Discounts = append(inv.Discounts, domainbooking.Discount{
			ID:     disc.ID,
			Code:   disc.Code,
			Amount: domainmoney.Money{Amount: disc.Amount, Currency: d.Invoice.Currency},
		})
	}
	for _, p := range d.Invoice.Payments {
		inv.Payments = append(inv.Payments, domainbooking.Payment{
			ID:     p.ID,
			Amount: domainmoney.Money{Amount: p.Amount, Currency: d.Invoice.Currency},
			PaidAt: timestampToTime(p.PaidAt),
		})
	}
	b := &domainbooking.Booking{
		ID:             domainbooking.BookingID(d.ID),
		Type:           domainbooking.BookingType(d.Type),
		AssetID:        d.AssetID,
		Range:          domainrange.TimeRange{Start: timestampToTime(d.StartTime), End: timestampToTime(d.EndTime)},
		Status:         domainbooking.Status(d.Status),
		OccupancyID:    domainoccupancy.OccupancyID(d.OccupancyID),
		FulfilledHours: d.FulfilledHours,
		Invoice:        inv,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
	for _, h := range d.History {
		b.History = append(b.History, domainbooking.HistoryEntry{At: timestampToTime(h.At), Actor: h.Actor, Action: h.Action, Note: h.Note})
	}
	return b
}
