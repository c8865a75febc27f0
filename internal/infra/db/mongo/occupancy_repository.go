package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainoccupancy "skipper/internal/domain/occupancy"
	domainrange "skipper/internal/domain/shared/timerange"
)

type OccupancyRepository struct {
	col *mongo.Collection
}

func NewOccupancyRepository(db *mongo.Database) *OccupancyRepository {
	return &OccupancyRepository{col: db.Collection("occupancies")}
}

// EnsureIndexes creates the unique (asset_id, start_time) index that backs
// up the application-level serialization of reservations.
func (r *OccupancyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "asset_id", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "end_time", Value: 1}},
		},
	})
	return err
}

func (r *OccupancyRepository) ByID(ctx context.Context, id domainoccupancy.OccupancyID) (*domainoccupancy.Occupancy, error) {
	var doc occupancyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainoccupancy.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *OccupancyRepository) InRange(ctx context.Context, assetID string, q domainrange.TimeRange) ([]*domainoccupancy.Occupancy, error) {
	filter := bson.M{
		"asset_id":   assetID,
		"start_time": bson.M{"$lt": q.End.UnixMilli()},
		"end_time":   bson.M{"$gt": q.Start.UnixMilli()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainoccupancy.Occupancy
	for cur.Next(ctx) {
		var doc occupancyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *OccupancyRepository) Insert(ctx context.Context, o *domainoccupancy.Occupancy) error {
	_, err := r.col.InsertOne(ctx, newOccupancyDocument(o))
	if mongo.IsDuplicateKeyError(err) {
		return domainoccupancy.ErrTimeslotUnavailable
	}
	return err
}

func (r *OccupancyRepository) Save(ctx context.Context, o *domainoccupancy.Occupancy) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": string(o.ID)}, newOccupancyDocument(o))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainoccupancy.ErrNotFound
	}
	return nil
}

func (r *OccupancyRepository) Delete(ctx context.Context, id domainoccupancy.OccupancyID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainoccupancy.ErrNotFound
	}
	return nil
}

type occupancyDocument struct {
	ID        string `bson:"_id"`
	AssetID   string `bson:"asset_id"`
	StartTime int64  `bson:"start_time"`
	EndTime   int64  `bson:"end_time"`
	RefType   string `bson:"ref_type"`
	RefID     string `bson:"ref_id,omitempty"`
	Status    string `bson:"status"`
	CreatedAt int64  `bson:"created_at"`
}

func newOccupancyDocument(o *domainoccupancy.Occupancy) occupancyDocument {
	return occupancyDocument{
		ID:        string(o.ID),
		AssetID:   o.AssetID,
		StartTime: o.Range.Start.UnixMilli(),
		EndTime:   o.Range.End.UnixMilli(),
		RefType:   string(o.Reference.Type),
		RefID:     o.Reference.ID,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UnixMilli(),
	}
}

func (d occupancyDocument) toEntity() *domainoccupancy.Occupancy {
	return &domainoccupancy.Occupancy{
		ID:        domainoccupancy.OccupancyID(d.ID),
		AssetID:   d.AssetID,
		Range:     domainrange.TimeRange{Start: timestampToTime(d.StartTime), End: timestampToTime(d.EndTime)},
		Reference: domainoccupancy.Reference{Type: domainoccupancy.ReferenceType(d.RefType), ID: d.RefID},
		Status:    domainoccupancy.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
