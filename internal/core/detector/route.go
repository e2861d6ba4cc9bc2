package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// deviationRun is a maximal contiguous stretch of actual waypoints that are
// all further from the planned route than the deviation threshold.
type deviationRun struct {
	worst     domain.Waypoint
	worstDist float64
}

// deviationRuns scans the actual route and groups deviating waypoints into
// contiguous runs, keeping only the single worst point per run so a sustained
// deviation yields one finding instead of a flood.
func deviationRuns(rec *domain.ShipmentRecord, thresholdKm float64) []deviationRun {
	var runs []deviationRun
	var current *deviationRun
	for _, wp := range rec.ActualRoute {
		dist := nearestPlannedDistanceKm(wp.Coordinates(), rec.PlannedRoute)
		if dist > thresholdKm {
			if current == nil {
				current = &deviationRun{worst: wp, worstDist: dist}
			} else if dist > current.worstDist {
				current.worst = wp
				current.worstDist = dist
			}
			continue
		}
		if current != nil {
			runs = append(runs, *current)
			current = nil
		}
	}
	if current != nil {
		runs = append(runs, *current)
	}
	return runs
}

// detectRouteDeviations flags actual waypoints that stray too far from the
// planned route. Severity scales with the multiple of the threshold:
// 1–2x low, 2–4x medium, beyond 4x high. Shipments without a planned route
// or without tracking data produce nothing.
func detectRouteDeviations(rec *domain.ShipmentRecord, b Baseline, _ time.Time) ([]domain.Anomaly, error) {
	if len(rec.PlannedRoute) == 0 || len(rec.ActualRoute) == 0 {
		return nil, nil
	}
	if !chronological(rec.ActualRoute) {
		return nil, fmt.Errorf("actual route timestamps out of order")
	}

	var anomalies []domain.Anomaly
	for _, run := range deviationRuns(rec, b.DeviationThresholdKm) {
		loc := run.worst.Coordinates()
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyRouteDeviation,
			Severity: deviationSeverity(run.worstDist, b.DeviationThresholdKm),
			Description: fmt.Sprintf("route deviation of %.1f km from planned route (threshold %.1f km)",
				run.worstDist, b.DeviationThresholdKm),
			Timestamp: run.worst.Timestamp,
			Location:  &loc,
		})
	}
	return anomalies, nil
}

func deviationSeverity(distKm, thresholdKm float64) domain.Severity {
	switch ratio := distKm / thresholdKm; {
	case ratio > 4:
		return domain.SeverityHigh
	case ratio > 2:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
