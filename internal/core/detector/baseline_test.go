package detector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeHistoricalCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "historical.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBaselineCalibratesFromHistory(t *testing.T) {
	path := writeHistoricalCSV(t, `id,cargo_type,avg_speed_kmh,max_deviation_km,stop_minutes
SHP-1,refrigerated,70,10,20
SHP-2,refrigerated,80,14,25
SHP-3,refrigerated,75,12,22
SHP-4,general,95,30,40
SHP-5,general,105,26,45
`)

	base := LoadBaseline(path, zerolog.Nop())

	if _, ok := base.CargoSpeedKmh["refrigerated"]; !ok {
		t.Fatal("expected a calibrated speed ceiling for refrigerated cargo")
	}
	if base.CargoSpeedKmh["refrigerated"] >= base.CargoSpeedKmh["general"] {
		t.Errorf("refrigerated ceiling (%.1f) should sit below general (%.1f)",
			base.CargoSpeedKmh["refrigerated"], base.CargoSpeedKmh["general"])
	}
	if base.DeviationThresholdKm == defaultDeviationThresholdKm {
		t.Error("deviation tolerance should be recalibrated from history")
	}
	if base.UnplannedStopThreshold == defaultUnplannedStopThreshold {
		t.Error("stop threshold should be recalibrated from history")
	}
}

func TestLoadBaselineMissingFileFallsBackSilently(t *testing.T) {
	base := LoadBaseline("/nonexistent/historical.csv", zerolog.Nop())
	if base.DeviationThresholdKm != defaultDeviationThresholdKm {
		t.Error("missing history must fall back to default thresholds")
	}
	if base.MaxSpeedKmh != defaultMaxSpeedKmh {
		t.Error("missing history must fall back to the default speed ceiling")
	}
}

func TestLoadBaselineMalformedFileFallsBackToDefaults(t *testing.T) {
	path := writeHistoricalCSV(t, "id,cargo_type\n\"broken")
	base := LoadBaseline(path, zerolog.Nop())
	if base.UnplannedStopThreshold != defaultUnplannedStopThreshold {
		t.Error("unparsable history must degrade to defaults, not partial state")
	}
}

func TestLoadBaselineEmptyPathUsesDefaults(t *testing.T) {
	base := LoadBaseline("", zerolog.Nop())
	if base.DelayGrace != 30*time.Minute {
		t.Errorf("expected 30 minute delay grace, got %s", base.DelayGrace)
	}
	if base.HighValueCargo != 100_000 {
		t.Errorf("expected $100,000 high-value threshold, got %.0f", base.HighValueCargo)
	}
}

func TestSpeedLimitFallsBackToGenericCeiling(t *testing.T) {
	base := DefaultBaseline()
	base.CargoSpeedKmh["refrigerated"] = 90

	if got := base.SpeedLimitFor("refrigerated"); got != 90 {
		t.Errorf("expected calibrated limit 90, got %.1f", got)
	}
	if got := base.SpeedLimitFor("furniture"); got != defaultMaxSpeedKmh {
		t.Errorf("expected fallback to %.0f, got %.1f", defaultMaxSpeedKmh, got)
	}
}
