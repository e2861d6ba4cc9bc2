package ports

import (
	"context"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// AlertRepository persists dashboard alerts raised from high-risk anomalies.
type AlertRepository interface {
	Insert(ctx context.Context, a *domain.Alert) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error)
}
