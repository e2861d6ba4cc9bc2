// Package detector implements the shipment anomaly detection engine: a fixed
// pipeline of independent, rule-based detection passes that inspect a
// shipment's routes, speed profile, stops, schedule, and temperature log and
// emit typed, severity-ranked anomaly records.
package detector

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
)

// Built-in default thresholds, used whenever no historical baseline is available.
const (
	defaultDeviationThresholdKm   = 50.0
	defaultNearZeroSpeedKmh       = 5.0
	defaultMinStopRun             = 15 * time.Minute
	defaultUnplannedStopThreshold = 30 * time.Minute
	defaultHighStopDuration       = 2 * time.Hour
	defaultPlannedStopRadiusKm    = 5.0
	defaultMaxSpeedKmh            = 120.0
	defaultHighSpeedFactor        = 1.3
	defaultHighValueCargo         = 100_000.0
	defaultRouteLengthRatio       = 1.5
	defaultDelayGrace             = 30 * time.Minute
	defaultHighDelayOverage       = 4 * time.Hour
)

// Baseline is the immutable reference data every detection pass reads.
// It is computed once at detector construction and never mutated afterwards;
// recalibrating requires constructing a new detector.
type Baseline struct {
	// DeviationThresholdKm is the distance from the planned route beyond
	// which an actual waypoint counts as deviating.
	DeviationThresholdKm float64
	// NearZeroSpeedKmh is the cutoff below which a waypoint counts as stopped.
	NearZeroSpeedKmh float64
	// MinStopRun is the minimum duration for a run of stopped waypoints to
	// qualify as a stop at all.
	MinStopRun time.Duration
	// UnplannedStopThreshold is the stop duration beyond which an unplanned
	// stop becomes anomalous.
	UnplannedStopThreshold time.Duration
	// HighStopDuration is the stop duration at which severity becomes high.
	HighStopDuration time.Duration
	// PlannedStopRadiusKm is how close a stop must be to a planned waypoint
	// or endpoint to count as planned.
	PlannedStopRadiusKm float64
	// MaxSpeedKmh is the speed ceiling applied when no cargo-specific one exists.
	MaxSpeedKmh float64
	// HighSpeedFactor scales MaxSpeedKmh to the high-severity band.
	HighSpeedFactor float64
	// HighValueCargo is the cargo value above which fraud heuristics engage.
	HighValueCargo float64
	// RouteLengthRatio is the actual/planned route length ratio that is
	// suspicious when no route deviation explains it.
	RouteLengthRatio float64
	// DelayGrace is the arrival overage tolerated before a delay is flagged.
	DelayGrace time.Duration
	// HighDelayOverage is the overage at which a delay becomes high severity.
	HighDelayOverage time.Duration
	// CargoSpeedKmh holds historically calibrated speed ceilings per cargo type.
	CargoSpeedKmh map[string]float64
}

// DefaultBaseline returns the built-in thresholds.
func DefaultBaseline() Baseline {
	return Baseline{
		DeviationThresholdKm:   defaultDeviationThresholdKm,
		NearZeroSpeedKmh:       defaultNearZeroSpeedKmh,
		MinStopRun:             defaultMinStopRun,
		UnplannedStopThreshold: defaultUnplannedStopThreshold,
		HighStopDuration:       defaultHighStopDuration,
		PlannedStopRadiusKm:    defaultPlannedStopRadiusKm,
		MaxSpeedKmh:            defaultMaxSpeedKmh,
		HighSpeedFactor:        defaultHighSpeedFactor,
		HighValueCargo:         defaultHighValueCargo,
		RouteLengthRatio:       defaultRouteLengthRatio,
		DelayGrace:             defaultDelayGrace,
		HighDelayOverage:       defaultHighDelayOverage,
		CargoSpeedKmh:          map[string]float64{},
	}
}

// SpeedLimitFor returns the speed ceiling for a cargo type, falling back to
// the generic ceiling when no calibrated value exists.
func (b Baseline) SpeedLimitFor(cargoType string) float64 {
	if v, ok := b.CargoSpeedKmh[cargoType]; ok && v > 0 {
		return v
	}
	return b.MaxSpeedKmh
}

// LoadBaseline computes baseline statistics from a historical shipments CSV.
// Expected columns: cargo_type, avg_speed_kmh, max_deviation_km, stop_minutes.
// Any failure to read or parse degrades silently to the defaults: a missing
// or broken baseline is a non-fatal condition, never an error.
func LoadBaseline(path string, log zerolog.Logger) Baseline {
	base := DefaultBaseline()
	if path == "" {
		return base
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("historical baseline unavailable, using defaults")
		return base
	}
	defer f.Close()

	if err := calibrate(&base, f, log); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("historical baseline unreadable, using defaults")
		return DefaultBaseline()
	}

	log.Info().Str("path", path).Msg("baseline calibrated from historical data")
	return base
}

// calibrate folds historical rows into the baseline. Thresholds are set to
// mean + 2 standard deviations of the observed values, so routine variation
// stays below the trigger point.
func calibrate(base *Baseline, r io.Reader, log zerolog.Logger) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return err
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}

	speedsByCargo := map[string][]float64{}
	var deviations, stopMinutes []float64

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		cargoType := field(row, col, "cargo_type")
		if v, ok := parseField(row, col, "avg_speed_kmh"); ok && cargoType != "" {
			speedsByCargo[cargoType] = append(speedsByCargo[cargoType], v)
		}
		if v, ok := parseField(row, col, "max_deviation_km"); ok {
			deviations = append(deviations, v)
		}
		if v, ok := parseField(row, col, "stop_minutes"); ok {
			stopMinutes = append(stopMinutes, v)
		}
	}

	for cargoType, speeds := range speedsByCargo {
		if ceiling, ok := upperBound(speeds); ok {
			base.CargoSpeedKmh[cargoType] = ceiling
		}
	}
	if tolerance, ok := upperBound(deviations); ok {
		base.DeviationThresholdKm = tolerance
	}
	if minutes, ok := upperBound(stopMinutes); ok {
		base.UnplannedStopThreshold = time.Duration(minutes * float64(time.Minute))
	}

	log.Debug().
		Int("cargo_types", len(speedsByCargo)).
		Int("deviation_samples", len(deviations)).
		Int("stop_samples", len(stopMinutes)).
		Msg("baseline samples aggregated")
	return nil
}

// upperBound computes mean + 2σ for a sample set.
func upperBound(sample []float64) (float64, bool) {
	if len(sample) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(sample)
	if err != nil {
		return 0, false
	}
	sd, err := stats.StandardDeviation(sample)
	if err != nil {
		return 0, false
	}
	bound := mean + 2*sd
	if bound <= 0 {
		return 0, false
	}
	return bound, true
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseField(row []string, col map[string]int, name string) (float64, bool) {
	s := field(row, col, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
