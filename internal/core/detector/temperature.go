package detector

import (
	"fmt"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// detectTemperatureBreaches checks every temperature reading on the actual
// route against the declared cargo range. Contiguous out-of-range readings
// collapse into one anomaly reporting the worst reading and the bound it
// violated. Spoilage risk makes every breach high severity. The pass only
// applies to temperature-controlled cargo with a declared range.
func detectTemperatureBreaches(rec *domain.ShipmentRecord, b Baseline, _ time.Time) ([]domain.Anomaly, error) {
	if !rec.Cargo.TemperatureControlled || rec.Cargo.TemperatureRange == nil {
		return nil, nil
	}
	bounds := *rec.Cargo.TemperatureRange
	if bounds.Min > bounds.Max {
		return nil, fmt.Errorf("declared temperature range inverted (min %.1f > max %.1f)", bounds.Min, bounds.Max)
	}

	var anomalies []domain.Anomaly
	var worst *domain.Waypoint
	var worstExcess float64

	flush := func() {
		if worst == nil {
			return
		}
		reading := *worst.Temperature
		var desc string
		if reading > bounds.Max {
			desc = fmt.Sprintf("temperature reading %.1f°C above declared maximum %.1f°C", reading, bounds.Max)
		} else {
			desc = fmt.Sprintf("temperature reading %.1f°C below declared minimum %.1f°C", reading, bounds.Min)
		}
		loc := worst.Coordinates()
		anomalies = append(anomalies, domain.Anomaly{
			Type:        domain.AnomalyTemperatureBreach,
			Severity:    domain.SeverityHigh,
			Description: desc,
			Timestamp:   worst.Timestamp,
			Location:    &loc,
		})
		worst, worstExcess = nil, 0
	}

	for i := range rec.ActualRoute {
		wp := rec.ActualRoute[i]
		if wp.Temperature == nil {
			flush()
			continue
		}
		excess := 0.0
		if *wp.Temperature > bounds.Max {
			excess = *wp.Temperature - bounds.Max
		} else if *wp.Temperature < bounds.Min {
			excess = bounds.Min - *wp.Temperature
		}
		if excess == 0 {
			flush()
			continue
		}
		if worst == nil || excess > worstExcess {
			worst = &rec.ActualRoute[i]
			worstExcess = excess
		}
	}
	flush()
	return anomalies, nil
}
