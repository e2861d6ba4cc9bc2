package domain

import "time"

// AnomalyType classifies what a detection pass found.
type AnomalyType string

const (
	AnomalyRouteDeviation    AnomalyType = "route_deviation"
	AnomalyUnusualStop       AnomalyType = "unusual_stop"
	AnomalySpeedViolation    AnomalyType = "speed_violation"
	AnomalyPotentialFraud    AnomalyType = "potential_fraud"
	AnomalyDelay             AnomalyType = "delay"
	AnomalyTemperatureBreach AnomalyType = "temperature_breach"
)

// Severity is the ordinal urgency classification of an anomaly.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityRank orders severities low < medium < high.
var severityRank = map[Severity]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// AtLeast reports whether s is equal to or more urgent than other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// RiskScore maps a severity to the 0–1 scale used for alerting.
func (s Severity) RiskScore() float64 {
	switch s {
	case SeverityLow:
		return 0.1
	case SeverityMedium:
		return 0.5
	case SeverityHigh:
		return 0.9
	}
	return 0.3
}

// Anomaly is a single finding emitted by a detection pass. It is owned by
// exactly one shipment. Resolved defaults to false and is only mutated by the
// downstream incident workflow, never by the detector.
type Anomaly struct {
	Type        AnomalyType  `json:"type" bson:"type"`
	Severity    Severity     `json:"severity" bson:"severity"`
	Description string       `json:"description" bson:"description"`
	Timestamp   time.Time    `json:"timestamp" bson:"timestamp"`
	Location    *Coordinates `json:"location,omitempty" bson:"location,omitempty"`
	Resolved    bool         `json:"resolved" bson:"resolved"`
}

// AnnotatedShipment is a ShipmentRecord plus everything the detector found.
// Anomalies are ordered by detection pass, then chronologically within a pass.
type AnnotatedShipment struct {
	ShipmentRecord           `bson:",inline"`
	Anomalies                []Anomaly `json:"anomalies" bson:"anomalies"`
	HasHighSeverityAnomalies bool      `json:"has_high_severity_anomalies" bson:"has_high_severity_anomalies"`
}

// Annotate wraps a record with its anomaly list and derives the high-severity flag.
func Annotate(rec ShipmentRecord, anomalies []Anomaly) AnnotatedShipment {
	out := AnnotatedShipment{ShipmentRecord: rec, Anomalies: anomalies}
	if out.Anomalies == nil {
		out.Anomalies = []Anomaly{}
	}
	for _, a := range anomalies {
		if a.Severity == SeverityHigh {
			out.HasHighSeverityAnomalies = true
			break
		}
	}
	return out
}
