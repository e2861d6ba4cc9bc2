package handler

import (
	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// toDomainRecord converts a validated analyze request into the detector's
// input entity.
func toDomainRecord(req analyzeShipmentRequest) domain.ShipmentRecord {
	rec := domain.ShipmentRecord{
		ID:                   req.ID,
		Status:               domain.ShipmentStatus(req.Status),
		Origin:               toDomainLocation(req.Origin),
		Destination:          toDomainLocation(req.Destination),
		EstimatedArrivalTime: req.EstimatedArrivalTime,
		ActualArrivalTime:    req.ActualArrivalTime,
		DriverID:             req.DriverID,
		VehicleID:            req.VehicleID,
		Cargo: domain.Cargo{
			Type:                  req.Cargo.Type,
			Value:                 req.Cargo.Value,
			WeightKg:              req.Cargo.WeightKg,
			TemperatureControlled: req.Cargo.TemperatureControlled,
		},
	}
	if req.Cargo.TemperatureRange != nil {
		rec.Cargo.TemperatureRange = &domain.TemperatureRange{
			Min: req.Cargo.TemperatureRange.Min,
			Max: req.Cargo.TemperatureRange.Max,
		}
	}
	for _, wp := range req.PlannedRoute {
		rec.PlannedRoute = append(rec.PlannedRoute, domain.PlannedWaypoint{
			Latitude:  wp.Latitude,
			Longitude: wp.Longitude,
			Timestamp: wp.Timestamp,
		})
	}
	for _, wp := range req.ActualRoute {
		rec.ActualRoute = append(rec.ActualRoute, domain.Waypoint{
			Latitude:    wp.Latitude,
			Longitude:   wp.Longitude,
			Timestamp:   wp.Timestamp,
			SpeedKmh:    wp.SpeedKmh,
			Temperature: wp.Temperature,
		})
	}
	return rec
}

func toDomainLocation(req locationRequest) domain.Location {
	return domain.Location{
		City:    req.City,
		Country: req.Country,
		Coordinates: domain.Coordinates{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
		},
	}
}
