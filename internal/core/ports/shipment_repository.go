package ports

import (
	"context"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// ListShipmentsFilter narrows shipment listings for the dashboard.
type ListShipmentsFilter struct {
	Status          string
	CargoType       string
	OriginCity      string
	DestinationCity string
	HighRiskOnly    bool
	Page            int
	Limit           int
}

// ShipmentStats is the dashboard summary aggregation.
type ShipmentStats struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	WithAnomalies int64            `json:"with_anomalies"`
	HighSeverity  int64            `json:"high_severity"`
}

// ShipmentRepository persists annotated shipments for the dashboard and API.
type ShipmentRepository interface {
	// Upsert writes the annotated shipment, replacing any previous
	// annotation for the same shipment id.
	Upsert(ctx context.Context, s *domain.AnnotatedShipment) error
	FindByID(ctx context.Context, id string) (*domain.AnnotatedShipment, error)
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error)
	Stats(ctx context.Context) (*ShipmentStats, error)
}
