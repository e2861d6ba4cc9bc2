package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/api/metrics"
	"github.com/fleetwatch/logistics-monitor/internal/core/detector"
	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

type detectionService struct {
	detector *detector.Detector
	repo     ports.ShipmentRepository
	alerts   ports.AlertService
	log      zerolog.Logger
}

// NewDetectionService wires the detector to persistence and alerting.
func NewDetectionService(
	d *detector.Detector,
	repo ports.ShipmentRepository,
	alerts ports.AlertService,
	log zerolog.Logger,
) ports.DetectionService {
	return &detectionService{detector: d, repo: repo, alerts: alerts, log: log}
}

// annotate runs pure detection and records the metrics for it.
func (s *detectionService) annotate(rec domain.ShipmentRecord) domain.AnnotatedShipment {
	start := time.Now()
	annotated := s.detector.Process([]domain.ShipmentRecord{rec})[0]
	metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	metrics.ShipmentsProcessedTotal.WithLabelValues(string(annotated.Status)).Inc()
	for _, a := range annotated.Anomalies {
		metrics.AnomaliesDetectedTotal.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
	return annotated
}

// raiseAlerts files alerts for high-risk anomalies. Alerting failures are
// logged, never propagated: the annotation is the source of truth and must
// not be lost to a flaky notifier.
func (s *detectionService) raiseAlerts(ctx context.Context, annotated *domain.AnnotatedShipment) {
	raised, err := s.alerts.Raise(ctx, annotated)
	if err != nil {
		s.log.Warn().Err(err).Str("shipment_id", annotated.ID).Msg("alerting failed")
		return
	}
	if raised > 0 {
		s.log.Info().Str("shipment_id", annotated.ID).Int("alerts", raised).Msg("alerts raised")
	}
}

// Analyze annotates a single record, persists the result, and raises alerts.
func (s *detectionService) Analyze(ctx context.Context, rec domain.ShipmentRecord) (*domain.AnnotatedShipment, error) {
	annotated := s.annotate(rec)
	if err := s.repo.Upsert(ctx, &annotated); err != nil {
		return nil, fmt.Errorf("persist shipment %s: %w", annotated.ID, err)
	}
	s.raiseAlerts(ctx, &annotated)

	s.log.Debug().
		Str("shipment_id", annotated.ID).
		Int("anomalies", len(annotated.Anomalies)).
		Bool("high_severity", annotated.HasHighSeverityAnomalies).
		Msg("shipment analyzed")
	return &annotated, nil
}

// AnalyzeBatch annotates every record independently, preserving input order.
// A persistence failure for one record is logged and the batch continues;
// the record still appears in the returned slice.
func (s *detectionService) AnalyzeBatch(ctx context.Context, records []domain.ShipmentRecord) ([]domain.AnnotatedShipment, error) {
	out := make([]domain.AnnotatedShipment, 0, len(records))
	for _, rec := range records {
		annotated := s.annotate(rec)
		if err := s.repo.Upsert(ctx, &annotated); err != nil {
			s.log.Error().Err(err).Str("shipment_id", annotated.ID).Msg("record not persisted")
		} else {
			s.raiseAlerts(ctx, &annotated)
		}
		out = append(out, annotated)
	}
	return out, nil
}
