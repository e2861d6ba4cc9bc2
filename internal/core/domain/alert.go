package domain

import "time"

// AlertPriority ranks how urgently an alert should surface on the dashboard.
type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// Alert is a dashboard notification raised from a high-risk anomaly.
type Alert struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	ShipmentID string        `json:"shipment_id" bson:"shipment_id"`
	Type       AnomalyType   `json:"type" bson:"type"`
	Message    string        `json:"message" bson:"message"`
	Priority   AlertPriority `json:"priority" bson:"priority"`
	RiskScore  float64       `json:"risk_score" bson:"risk_score"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}
