package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

const collectionShipments = "shipments"

type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments)}
}

// Upsert replaces the annotated shipment document for this shipment id,
// inserting it on first sight. Re-analysing a shipment overwrites its
// previous annotation rather than accumulating versions.
func (r *ShipmentRepository) Upsert(ctx context.Context, s *domain.AnnotatedShipment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts)
	return err
}

// FindByID retrieves one annotated shipment.
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.AnnotatedShipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.AnnotatedShipment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns a filtered, paginated page of annotated shipments plus the
// total match count.
func (r *ShipmentRepository) List(ctx context.Context, f ports.ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CargoType != "" {
		filter["cargo.type"] = f.CargoType
	}
	if f.OriginCity != "" {
		filter["origin.city"] = f.OriginCity
	}
	if f.DestinationCity != "" {
		filter["destination.city"] = f.DestinationCity
	}
	if f.HighRiskOnly {
		filter["has_high_severity_anomalies"] = true
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var shipments []*domain.AnnotatedShipment
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// Stats aggregates the dashboard summary counters.
func (r *ShipmentRepository) Stats(ctx context.Context) (*ports.ShipmentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.ShipmentStats{ByStatus: map[string]int64{}}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	withAnomalies, err := r.col.CountDocuments(ctx, bson.M{"anomalies.0": bson.M{"$exists": true}})
	if err != nil {
		return nil, err
	}
	stats.WithAnomalies = withAnomalies

	high, err := r.col.CountDocuments(ctx, bson.M{"has_high_severity_anomalies": true})
	if err != nil {
		return nil, err
	}
	stats.HighSeverity = high

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}
	return stats, nil
}

// EnsureIndexes creates necessary indexes on the shipments collection.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "cargo.type", Value: 1}}},
		{Keys: bson.D{{Key: "has_high_severity_anomalies", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
