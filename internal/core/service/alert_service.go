package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/api/metrics"
	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

// alertRiskThreshold is the risk score at which an anomaly becomes an alert;
// with the severity→score mapping this selects high-severity anomalies.
const alertRiskThreshold = 0.8

// AlertDeduper abstracts the idempotency store (Redis) for alerts.
type AlertDeduper interface {
	IsDuplicate(ctx context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) (bool, error)
	Mark(ctx context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) error
}

type alertService struct {
	repo  ports.AlertRepository
	dedup AlertDeduper
	log   zerolog.Logger
}

// NewAlertService returns an AlertService implementation.
func NewAlertService(repo ports.AlertRepository, dedup AlertDeduper, log zerolog.Logger) ports.AlertService {
	return &alertService{repo: repo, dedup: dedup, log: log}
}

// Raise files one alert per anomaly whose risk score reaches the threshold.
// Re-analysing the same shipment does not duplicate alerts: the deduper keys
// on shipment, anomaly type, and event time.
func (s *alertService) Raise(ctx context.Context, annotated *domain.AnnotatedShipment) (int, error) {
	raised := 0
	for _, a := range annotated.Anomalies {
		score := a.Severity.RiskScore()
		if score < alertRiskThreshold {
			continue
		}

		isDup, err := s.dedup.IsDuplicate(ctx, annotated.ID, a.Type, a.Timestamp)
		if err != nil {
			s.log.Warn().Err(err).Str("shipment_id", annotated.ID).Msg("alert dedup check failed, raising anyway")
		} else if isDup {
			s.log.Debug().Str("shipment_id", annotated.ID).Str("type", string(a.Type)).Msg("duplicate alert skipped")
			continue
		}

		alert := &domain.Alert{
			ID:         generateAlertID(),
			ShipmentID: annotated.ID,
			Type:       a.Type,
			Message:    a.Description,
			Priority:   domain.PriorityHigh,
			RiskScore:  score,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.repo.Insert(ctx, alert); err != nil {
			return raised, fmt.Errorf("insert alert for shipment %s: %w", annotated.ID, err)
		}
		if markErr := s.dedup.Mark(ctx, annotated.ID, a.Type, a.Timestamp); markErr != nil {
			s.log.Warn().Err(markErr).Str("shipment_id", annotated.ID).Msg("failed to set alert dedup key")
		}

		metrics.AlertsRaisedTotal.WithLabelValues(string(a.Type)).Inc()
		raised++
	}
	return raised, nil
}

func (s *alertService) ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}

// generateAlertID returns a unique alert identifier in the format ALT-XXXXXXXX.
func generateAlertID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("ALT-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ALT-%08X", b)
}
