package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// detectPotentialFraud runs the composite fraud heuristics. Each condition is
// an independent trigger contributing its own anomaly:
//
//   - high-value cargo co-occurring with a high-severity unplanned stop,
//   - actual route much longer than planned with no route deviation explaining it,
//   - delivery completed over an implausibly short actual route.
//
// The pass never fires for shipments lacking cargo value data. It recomputes
// stop and deviation runs itself rather than reading other passes' output,
// keeping every pass a pure function of the record and baseline.
func detectPotentialFraud(rec *domain.ShipmentRecord, b Baseline, now time.Time) ([]domain.Anomaly, error) {
	if rec.Cargo.Value <= 0 {
		return nil, nil
	}
	if !chronological(rec.ActualRoute) {
		return nil, fmt.Errorf("actual route timestamps out of order")
	}

	var anomalies []domain.Anomaly
	eventTime := now
	if n := len(rec.ActualRoute); n > 0 {
		eventTime = rec.ActualRoute[n-1].Timestamp
	}

	// High-value cargo sitting still for hours.
	if rec.Cargo.Value > b.HighValueCargo {
		for _, stop := range stopRuns(rec.ActualRoute, b) {
			if stop.duration < b.HighStopDuration || plannedStop(stop.start.Coordinates(), rec, b.PlannedStopRadiusKm) {
				continue
			}
			loc := stop.start.Coordinates()
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyPotentialFraud,
				Severity: domain.SeverityHigh,
				Description: fmt.Sprintf("high-value cargo ($%.2f) stopped unplanned for %.1f minutes",
					rec.Cargo.Value, stop.duration.Minutes()),
				Timestamp: stop.start.Timestamp,
				Location:  &loc,
			})
			break // one trigger per condition
		}
	}

	// Route far longer than planned without a deviation explaining it.
	if len(rec.PlannedRoute) > 1 && len(rec.ActualRoute) > 1 {
		planned := plannedRouteLengthKm(rec.PlannedRoute)
		actual := actualRouteLengthKm(rec.ActualRoute)
		if planned > 0 && actual > planned*b.RouteLengthRatio &&
			len(deviationRuns(rec, b.DeviationThresholdKm)) == 0 {
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyPotentialFraud,
				Severity: domain.SeverityHigh,
				Description: fmt.Sprintf("actual route length %.1f km exceeds planned %.1f km by more than %.1fx with no recorded deviation",
					actual, planned, b.RouteLengthRatio),
				Timestamp: eventTime,
			})
		}
	}

	// Delivered over a route shorter than the straight line origin to destination.
	if rec.Status == domain.StatusDelivered && len(rec.ActualRoute) > 1 {
		minPlausible := haversineKm(rec.Origin.Coordinates, rec.Destination.Coordinates)
		actual := actualRouteLengthKm(rec.ActualRoute)
		if actual < minPlausible {
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyPotentialFraud,
				Severity: domain.SeverityHigh,
				Description: fmt.Sprintf("delivery completed over %.1f km of tracked route, below the %.1f km minimum plausible distance",
					actual, minPlausible),
				Timestamp: eventTime,
			})
		}
	}

	return anomalies, nil
}
