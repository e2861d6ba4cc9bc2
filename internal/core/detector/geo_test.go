package detector

import (
	"math"
	"testing"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name   string
		a, b   domain.Coordinates
		wantKm float64
	}{
		{
			name:   "Paris to London",
			a:      domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
			b:      domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278},
			wantKm: 344,
		},
		{
			name:   "Hamburg to Munich",
			a:      domain.Coordinates{Latitude: 53.55, Longitude: 9.99},
			b:      domain.Coordinates{Latitude: 48.14, Longitude: 11.58},
			wantKm: 612,
		},
		{
			name:   "same point",
			a:      domain.Coordinates{Latitude: 10, Longitude: 10},
			b:      domain.Coordinates{Latitude: 10, Longitude: 10},
			wantKm: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := haversineKm(tc.a, tc.b)
			if math.Abs(got-tc.wantKm) > tc.wantKm*0.01+0.001 {
				t.Errorf("expected ~%.0f km, got %.2f km", tc.wantKm, got)
			}
		})
	}
}

func TestRouteLengthSumsSegments(t *testing.T) {
	route := []domain.Waypoint{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 0},
		{Latitude: 2, Longitude: 0},
	}
	got := actualRouteLengthKm(route)
	// Two one-degree meridian segments, ~111.2 km each.
	if math.Abs(got-222.4) > 1 {
		t.Errorf("expected ~222.4 km, got %.2f", got)
	}
}

func TestChronologicalDetectsRegression(t *testing.T) {
	route := []domain.Waypoint{
		{Timestamp: testBase.Add(10 * time.Minute)},
		{Timestamp: testBase},
	}
	if chronological(route) {
		t.Error("regressing timestamps must be detected")
	}
}
