package ports

import (
	"context"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// DetectionService runs anomaly detection over shipment records and persists
// the results.
type DetectionService interface {
	// Analyze annotates one record and persists it. Detection itself never
	// fails for a structurally valid record; the error reports persistence
	// problems only.
	Analyze(ctx context.Context, rec domain.ShipmentRecord) (*domain.AnnotatedShipment, error)
	// AnalyzeBatch applies Analyze to every record independently, preserving
	// input order. One record's failure does not abort the batch.
	AnalyzeBatch(ctx context.Context, records []domain.ShipmentRecord) ([]domain.AnnotatedShipment, error)
}

// AlertService raises dashboard alerts from annotated shipments.
type AlertService interface {
	// Raise inspects the shipment's anomalies and files an alert for every
	// one whose risk score reaches the alert threshold. It returns how many
	// alerts were actually raised after deduplication.
	Raise(ctx context.Context, s *domain.AnnotatedShipment) (int, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error)
}

// ShipmentQueryService serves read-side dashboard queries.
type ShipmentQueryService interface {
	Get(ctx context.Context, id string) (*domain.AnnotatedShipment, error)
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error)
	Stats(ctx context.Context) (*ShipmentStats, error)
}
