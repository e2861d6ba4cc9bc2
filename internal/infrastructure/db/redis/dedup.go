package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

const dedupTTL = 24 * time.Hour

// AlertDeduper provides alert idempotency checks backed by Redis, so that
// re-analysing a shipment does not page the dashboard twice for the same event.
// Key format: alert:<shipment_id>:<anomaly_type>:<unix_timestamp>
type AlertDeduper struct {
	client *redis.Client
}

// NewAlertDeduper creates an AlertDeduper wrapping the given Redis client.
func NewAlertDeduper(client *redis.Client) *AlertDeduper {
	return &AlertDeduper{client: client}
}

// IsDuplicate reports whether an alert for this exact event was already raised.
func (d *AlertDeduper) IsDuplicate(ctx context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(shipmentID, typ, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("alert dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that an alert for this event has been raised (expires after dedupTTL).
func (d *AlertDeduper) Mark(ctx context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) error {
	return d.client.Set(ctx, d.key(shipmentID, typ, ts), "1", dedupTTL).Err()
}

func (d *AlertDeduper) key(shipmentID string, typ domain.AnomalyType, ts time.Time) string {
	return fmt.Sprintf("alert:%s:%s:%d", shipmentID, typ, ts.Unix())
}
