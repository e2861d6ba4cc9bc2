package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type shipmentQueryService struct {
	repo ports.ShipmentRepository
	log  zerolog.Logger
}

// NewShipmentQueryService returns the read side used by the dashboard API.
func NewShipmentQueryService(repo ports.ShipmentRepository, log zerolog.Logger) ports.ShipmentQueryService {
	return &shipmentQueryService{repo: repo, log: log}
}

func (s *shipmentQueryService) Get(ctx context.Context, id string) (*domain.AnnotatedShipment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *shipmentQueryService) List(ctx context.Context, filter ports.ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	return s.repo.List(ctx, filter)
}

func (s *shipmentQueryService) Stats(ctx context.Context) (*ports.ShipmentStats, error) {
	return s.repo.Stats(ctx)
}
