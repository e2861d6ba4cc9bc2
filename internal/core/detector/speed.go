package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// detectSpeedViolations flags readings above the cargo-appropriate speed
// ceiling. Consecutive violating waypoints are collapsed into one anomaly
// reporting the worst reading, so a sustained burst does not flood the list.
// Severity is high above HighSpeedFactor times the ceiling, medium otherwise.
func detectSpeedViolations(rec *domain.ShipmentRecord, b Baseline, _ time.Time) ([]domain.Anomaly, error) {
	if len(rec.ActualRoute) == 0 {
		return nil, nil
	}

	limit := b.SpeedLimitFor(rec.Cargo.Type)
	var anomalies []domain.Anomaly
	var worst *domain.Waypoint

	flush := func() {
		if worst == nil {
			return
		}
		severity := domain.SeverityMedium
		if worst.SpeedKmh > limit*b.HighSpeedFactor {
			severity = domain.SeverityHigh
		}
		loc := worst.Coordinates()
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalySpeedViolation,
			Severity: severity,
			Description: fmt.Sprintf("speed of %.1f km/h exceeds limit of %.1f km/h",
				worst.SpeedKmh, limit),
			Timestamp: worst.Timestamp,
			Location:  &loc,
		})
		worst = nil
	}

	for i := range rec.ActualRoute {
		wp := rec.ActualRoute[i]
		if wp.SpeedKmh > limit {
			if worst == nil || wp.SpeedKmh > worst.SpeedKmh {
				worst = &rec.ActualRoute[i]
			}
			continue
		}
		flush()
	}
	flush()
	return anomalies, nil
}
