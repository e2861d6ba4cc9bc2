package detector

import (
	"math"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(a, b domain.Coordinates) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// actualRouteLengthKm sums the segment distances along the actual route.
func actualRouteLengthKm(route []domain.Waypoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += haversineKm(route[i-1].Coordinates(), route[i].Coordinates())
	}
	return total
}

// plannedRouteLengthKm sums the segment distances along the planned route.
func plannedRouteLengthKm(route []domain.PlannedWaypoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		a := domain.Coordinates{Latitude: route[i-1].Latitude, Longitude: route[i-1].Longitude}
		b := domain.Coordinates{Latitude: route[i].Latitude, Longitude: route[i].Longitude}
		total += haversineKm(a, b)
	}
	return total
}

// nearestPlannedDistanceKm returns the minimum distance from p to any planned waypoint.
func nearestPlannedDistanceKm(p domain.Coordinates, planned []domain.PlannedWaypoint) float64 {
	min := math.Inf(1)
	for _, wp := range planned {
		d := haversineKm(p, domain.Coordinates{Latitude: wp.Latitude, Longitude: wp.Longitude})
		if d < min {
			min = d
		}
	}
	return min
}

// chronological reports whether route timestamps are non-decreasing.
func chronological(route []domain.Waypoint) bool {
	for i := 1; i < len(route); i++ {
		if route[i].Timestamp.Before(route[i-1].Timestamp) {
			return false
		}
	}
	return true
}
