package detector

import "time"

// Overrides are the caller-facing threshold knobs. A zero field keeps the
// baseline's value, whether that came from the built-in defaults or from
// historical calibration.
type Overrides struct {
	DeviationThresholdKm float64
	UnplannedStopMinutes int
	MaxSpeedKmh          float64
	HighValueCargo       float64
	DelayGraceMinutes    int
	NearZeroSpeedKmh     float64
}

// WithOverrides returns a copy of the baseline with any non-zero override applied.
func (b Baseline) WithOverrides(o Overrides) Baseline {
	if o.DeviationThresholdKm > 0 {
		b.DeviationThresholdKm = o.DeviationThresholdKm
	}
	if o.UnplannedStopMinutes > 0 {
		b.UnplannedStopThreshold = time.Duration(o.UnplannedStopMinutes) * time.Minute
	}
	if o.MaxSpeedKmh > 0 {
		b.MaxSpeedKmh = o.MaxSpeedKmh
	}
	if o.HighValueCargo > 0 {
		b.HighValueCargo = o.HighValueCargo
	}
	if o.DelayGraceMinutes > 0 {
		b.DelayGrace = time.Duration(o.DelayGraceMinutes) * time.Minute
	}
	if o.NearZeroSpeedKmh > 0 {
		b.NearZeroSpeedKmh = o.NearZeroSpeedKmh
	}
	return b
}
