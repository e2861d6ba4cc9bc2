package detector

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// passFunc is the contract every detection pass implements. Passes are pure
// functions of the record and the baseline: no pass can see, suppress, or
// alter another's output. A non-nil error means the pass had to be skipped
// for this record (malformed sub-fields); it never aborts the record.
type passFunc func(rec *domain.ShipmentRecord, b Baseline, now time.Time) ([]domain.Anomaly, error)

type pass struct {
	name string
	run  passFunc
}

// Detector runs the fixed pipeline of detection passes over shipment records.
// It holds no mutable state beyond the read-only baseline, so a single
// Detector is safe for concurrent use across goroutines.
type Detector struct {
	baseline Baseline
	passes   []pass
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs a Detector around an already-built baseline.
func New(baseline Baseline, log zerolog.Logger) *Detector {
	return &Detector{
		baseline: baseline,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		passes: []pass{
			{name: "route_deviation", run: detectRouteDeviations},
			{name: "unusual_stop", run: detectUnusualStops},
			{name: "speed_violation", run: detectSpeedViolations},
			{name: "potential_fraud", run: detectPotentialFraud},
			{name: "delay", run: detectDelays},
			{name: "temperature_breach", run: detectTemperatureBreaches},
		},
	}
}

// Baseline returns the thresholds the detector was constructed with.
func (d *Detector) Baseline() Baseline {
	return d.baseline
}

// DetectAnomalies runs every detection pass over one shipment and aggregates
// the findings. The anomaly list is ordered by pass, then chronologically
// within each pass. The call never fails for a structurally valid record:
// a pass that cannot run on this record is logged and skipped.
func (d *Detector) DetectAnomalies(rec domain.ShipmentRecord) domain.AnnotatedShipment {
	now := d.now()
	var anomalies []domain.Anomaly
	for _, p := range d.passes {
		found, err := p.run(&rec, d.baseline, now)
		if err != nil {
			d.log.Warn().
				Err(err).
				Str("shipment_id", rec.ID).
				Str("pass", p.name).
				Msg("detection pass skipped")
			continue
		}
		anomalies = append(anomalies, found...)
	}
	return domain.Annotate(rec, anomalies)
}

// Process applies DetectAnomalies independently to every record, preserving
// input order. A structurally invalid record (missing id, unparsable
// coordinates) does not abort the batch: it is annotated with a synthetic
// low-severity data-integrity anomaly and processing continues.
func (d *Detector) Process(records []domain.ShipmentRecord) []domain.AnnotatedShipment {
	out := make([]domain.AnnotatedShipment, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			d.log.Warn().Err(err).Str("shipment_id", rec.ID).Msg("structurally invalid record")
			out = append(out, domain.Annotate(rec, []domain.Anomaly{dataIntegrityAnomaly(d.now())}))
			continue
		}
		out = append(out, d.DetectAnomalies(rec))
	}
	return out
}

// dataIntegrityAnomaly is the synthetic annotation attached to records that
// fail structural validation during batch processing.
func dataIntegrityAnomaly(now time.Time) domain.Anomaly {
	return domain.Anomaly{
		Type:        domain.AnomalyPotentialFraud,
		Severity:    domain.SeverityLow,
		Description: "data integrity: record failed structural validation (missing id or unparsable coordinates)",
		Timestamp:   now,
	}
}
