// Package metrics defines and registers all custom Prometheus metrics for the
// logistics monitor. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logistics"

// ── Detection metrics ─────────────────────────────────────────────────────────

// ShipmentsProcessedTotal counts shipments that completed detection.
// Label:
//   - status: the shipment status at analysis time (e.g. "in_transit")
var ShipmentsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_processed_total",
		Help:      "Total number of shipments run through the anomaly detector.",
	},
	[]string{"status"},
)

// AnomaliesDetectedTotal counts individual anomaly findings.
// Labels:
//   - type: anomaly type (e.g. "route_deviation")
//   - severity: "low", "medium", or "high"
var AnomaliesDetectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "anomalies_detected_total",
		Help:      "Total number of anomalies detected, by type and severity.",
	},
	[]string{"type", "severity"},
)

// DetectionDuration measures how long a single shipment takes end-to-end
// through all detection passes.
var DetectionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "detection_duration_seconds",
		Help:      "Duration of the full detection pipeline for one shipment.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// RecordsInvalidTotal counts input records that failed structural validation
// (missing id, unparsable coordinates) and were annotated instead of analysed.
var RecordsInvalidTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_invalid_total",
		Help:      "Total number of structurally invalid shipment records encountered.",
	},
)

// ── Alert metrics ─────────────────────────────────────────────────────────────

// AlertsRaisedTotal counts dashboard alerts raised from high-risk anomalies.
// Label:
//   - type: the anomaly type behind the alert
var AlertsRaisedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_raised_total",
		Help:      "Total number of alerts raised after deduplication.",
	},
	[]string{"type"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// AnalysisQueueDepth tracks the current number of records waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AnalysisQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analysis_queue_depth",
		Help:      "Current number of shipment records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
