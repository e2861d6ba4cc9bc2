package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// stopRun is a maximal run of consecutive waypoints below the near-zero speed
// cutoff, lasting at least the minimum stop duration.
type stopRun struct {
	start    domain.Waypoint
	duration time.Duration
}

// stopRuns extracts qualifying stops from the actual route.
func stopRuns(route []domain.Waypoint, b Baseline) []stopRun {
	var runs []stopRun
	var first, last *domain.Waypoint
	flush := func() {
		if first != nil {
			if d := last.Timestamp.Sub(first.Timestamp); d >= b.MinStopRun {
				runs = append(runs, stopRun{start: *first, duration: d})
			}
		}
		first, last = nil, nil
	}
	for i := range route {
		wp := route[i]
		if wp.SpeedKmh < b.NearZeroSpeedKmh {
			if first == nil {
				first = &route[i]
			}
			last = &route[i]
			continue
		}
		flush()
	}
	flush()
	return runs
}

// plannedStop reports whether a stop happened close enough to a planned
// waypoint or to the shipment's endpoints to count as scheduled.
func plannedStop(at domain.Coordinates, rec *domain.ShipmentRecord, radiusKm float64) bool {
	if haversineKm(at, rec.Origin.Coordinates) <= radiusKm ||
		haversineKm(at, rec.Destination.Coordinates) <= radiusKm {
		return true
	}
	for _, wp := range rec.PlannedRoute {
		if haversineKm(at, domain.Coordinates{Latitude: wp.Latitude, Longitude: wp.Longitude}) <= radiusKm {
			return true
		}
	}
	return false
}

// detectUnusualStops flags unplanned stops longer than the unplanned-stop
// threshold: medium severity up to two hours, high beyond. A stop within the
// planned-stop radius of a planned waypoint or endpoint is never anomalous.
func detectUnusualStops(rec *domain.ShipmentRecord, b Baseline, _ time.Time) ([]domain.Anomaly, error) {
	if len(rec.ActualRoute) < 2 {
		return nil, nil
	}
	if !chronological(rec.ActualRoute) {
		return nil, fmt.Errorf("actual route timestamps out of order")
	}

	var anomalies []domain.Anomaly
	for _, stop := range stopRuns(rec.ActualRoute, b) {
		if stop.duration <= b.UnplannedStopThreshold {
			continue
		}
		at := stop.start.Coordinates()
		if plannedStop(at, rec, b.PlannedStopRadiusKm) {
			continue
		}
		severity := domain.SeverityMedium
		if stop.duration >= b.HighStopDuration {
			severity = domain.SeverityHigh
		}
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyUnusualStop,
			Severity: severity,
			Description: fmt.Sprintf("unplanned stop of %.1f minutes (threshold %.0f minutes)",
				stop.duration.Minutes(), b.UnplannedStopThreshold.Minutes()),
			Timestamp: stop.start.Timestamp,
			Location:  &at,
		})
	}
	return anomalies, nil
}
