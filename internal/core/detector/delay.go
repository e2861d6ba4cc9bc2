package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// detectDelays compares actual or projected arrival against the estimate.
// Delivered shipments are compared directly; in-transit shipments get a
// constant-velocity extrapolation from the last two waypoints toward the
// destination. Overages within the grace period are ignored; severity is
// medium up to HighDelayOverage and high beyond.
func detectDelays(rec *domain.ShipmentRecord, b Baseline, now time.Time) ([]domain.Anomaly, error) {
	if rec.EstimatedArrivalTime.IsZero() {
		return nil, nil
	}

	switch rec.Status {
	case domain.StatusDelivered:
		if rec.ActualArrivalTime == nil {
			return nil, nil
		}
		overage := rec.ActualArrivalTime.Sub(rec.EstimatedArrivalTime)
		if overage <= b.DelayGrace {
			return nil, nil
		}
		return []domain.Anomaly{{
			Type:     domain.AnomalyDelay,
			Severity: delaySeverity(overage, b),
			Description: fmt.Sprintf("delivered %.1f hours after estimated arrival time",
				overage.Hours()),
			Timestamp: *rec.ActualArrivalTime,
		}}, nil

	case domain.StatusInTransit:
		return projectDelay(rec, b, now)
	}
	return nil, nil
}

// projectDelay extrapolates arrival from the last two tracked waypoints.
func projectDelay(rec *domain.ShipmentRecord, b Baseline, now time.Time) ([]domain.Anomaly, error) {
	n := len(rec.ActualRoute)
	if n < 2 {
		return nil, nil
	}
	if !chronological(rec.ActualRoute) {
		return nil, fmt.Errorf("actual route timestamps out of order")
	}

	prev, last := rec.ActualRoute[n-2], rec.ActualRoute[n-1]
	elapsed := last.Timestamp.Sub(prev.Timestamp)
	if elapsed <= 0 {
		return nil, fmt.Errorf("last two waypoints share a timestamp, cannot project speed")
	}

	speedKmh := haversineKm(prev.Coordinates(), last.Coordinates()) / elapsed.Hours()
	if speedKmh <= 0 {
		// Standing still: the stop passes cover this; no arrival can be projected.
		return nil, nil
	}

	remainingKm := haversineKm(last.Coordinates(), rec.Destination.Coordinates)
	projected := last.Timestamp.Add(time.Duration(remainingKm / speedKmh * float64(time.Hour)))
	overage := projected.Sub(rec.EstimatedArrivalTime)
	if overage <= b.DelayGrace {
		return nil, nil
	}
	return []domain.Anomaly{{
		Type:     domain.AnomalyDelay,
		Severity: delaySeverity(overage, b),
		Description: fmt.Sprintf("projected arrival %.1f hours after estimate at current pace",
			overage.Hours()),
		Timestamp: now,
	}}, nil
}

func delaySeverity(overage time.Duration, b Baseline) domain.Severity {
	if overage > b.HighDelayOverage {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}
