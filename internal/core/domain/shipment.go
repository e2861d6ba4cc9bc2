package domain

import (
	"errors"
	"math"
	"time"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusDelayed   ShipmentStatus = "delayed"
	StatusCancelled ShipmentStatus = "cancelled"
)

var ErrShipmentNotFound = errors.New("shipment not found")
var ErrInvalidRecord = errors.New("structurally invalid shipment record")
var ErrAlertNotFound = errors.New("alert not found")

// IsValid reports whether s is one of the known shipment statuses.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Location represents a named place on a shipment's itinerary.
type Location struct {
	City        string      `json:"city" bson:"city"`
	Country     string      `json:"country" bson:"country"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// TemperatureRange declares the acceptable bounds for temperature-controlled cargo.
type TemperatureRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Cargo describes what is being shipped.
type Cargo struct {
	Type                  string            `json:"type" bson:"type"`
	Value                 float64           `json:"value" bson:"value"`
	WeightKg              float64           `json:"weight_kg" bson:"weight_kg"`
	TemperatureControlled bool              `json:"temperature_controlled" bson:"temperature_controlled"`
	TemperatureRange      *TemperatureRange `json:"temperature_range,omitempty" bson:"temperature_range,omitempty"`
}

// PlannedWaypoint is a single point on the planned route.
type PlannedWaypoint struct {
	Latitude  float64   `json:"latitude" bson:"latitude"`
	Longitude float64   `json:"longitude" bson:"longitude"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Waypoint is a single geotagged, timestamped observation on the actual route.
// SpeedKmh is the instantaneous speed; Temperature is the optional reading from
// the cargo sensor at that moment.
type Waypoint struct {
	Latitude    float64   `json:"latitude" bson:"latitude"`
	Longitude   float64   `json:"longitude" bson:"longitude"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	SpeedKmh    float64   `json:"speed" bson:"speed"`
	Temperature *float64  `json:"temperature,omitempty" bson:"temperature,omitempty"`
}

// Coordinates returns the waypoint's position as a Coordinates value.
func (w Waypoint) Coordinates() Coordinates {
	return Coordinates{Latitude: w.Latitude, Longitude: w.Longitude}
}

// ShipmentRecord is the raw input entity the detector operates on.
//
// Invariant: ActualRoute timestamps are non-decreasing. An empty ActualRoute
// disables every route-derived detection for the shipment.
type ShipmentRecord struct {
	ID                   string            `json:"id" bson:"_id,omitempty"`
	Status               ShipmentStatus    `json:"status" bson:"status"`
	Origin               Location          `json:"origin" bson:"origin"`
	Destination          Location          `json:"destination" bson:"destination"`
	EstimatedArrivalTime time.Time         `json:"estimated_arrival_time" bson:"estimated_arrival_time"`
	ActualArrivalTime    *time.Time        `json:"actual_arrival_time,omitempty" bson:"actual_arrival_time,omitempty"`
	Cargo                Cargo             `json:"cargo" bson:"cargo"`
	PlannedRoute         []PlannedWaypoint `json:"planned_route" bson:"planned_route"`
	ActualRoute          []Waypoint        `json:"actual_route" bson:"actual_route"`
	DriverID             string            `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	VehicleID            string            `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	CreatedAt            time.Time         `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt            time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Validate checks the structural invariants a record must satisfy before it can
// be run through the detector: a non-empty id and parseable coordinates.
// Missing optional fields (routes, cargo details, arrival times) are fine.
func (r *ShipmentRecord) Validate() error {
	if r.ID == "" {
		return ErrInvalidRecord
	}
	if !validCoordinates(r.Origin.Coordinates) || !validCoordinates(r.Destination.Coordinates) {
		return ErrInvalidRecord
	}
	for _, w := range r.ActualRoute {
		if !validCoordinates(w.Coordinates()) {
			return ErrInvalidRecord
		}
	}
	return nil
}

func validCoordinates(c Coordinates) bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
