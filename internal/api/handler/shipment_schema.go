package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type coordinatesRequest struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type locationRequest struct {
	City        string             `json:"city"        validate:"required"`
	Country     string             `json:"country"     validate:"required"`
	Coordinates coordinatesRequest `json:"coordinates" validate:"required"`
}

type temperatureRangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type cargoRequest struct {
	Type                  string                   `json:"type"      validate:"required"`
	Value                 float64                  `json:"value"     validate:"gte=0"`
	WeightKg              float64                  `json:"weight_kg" validate:"gte=0"`
	TemperatureControlled bool                     `json:"temperature_controlled"`
	TemperatureRange      *temperatureRangeRequest `json:"temperature_range,omitempty"`
}

type plannedWaypointRequest struct {
	Latitude  float64   `json:"latitude"  validate:"latitude"`
	Longitude float64   `json:"longitude" validate:"longitude"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

type waypointRequest struct {
	Latitude    float64   `json:"latitude"  validate:"latitude"`
	Longitude   float64   `json:"longitude" validate:"longitude"`
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	SpeedKmh    float64   `json:"speed"     validate:"gte=0"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type analyzeShipmentRequest struct {
	ID                   string                   `json:"id"     validate:"required"`
	Status               string                   `json:"status" validate:"required,oneof=pending in_transit delivered delayed cancelled"`
	Origin               locationRequest          `json:"origin"      validate:"required"`
	Destination          locationRequest          `json:"destination" validate:"required"`
	EstimatedArrivalTime time.Time                `json:"estimated_arrival_time"`
	ActualArrivalTime    *time.Time               `json:"actual_arrival_time,omitempty"`
	Cargo                cargoRequest             `json:"cargo" validate:"required"`
	PlannedRoute         []plannedWaypointRequest `json:"planned_route" validate:"dive"`
	ActualRoute          []waypointRequest        `json:"actual_route"  validate:"dive"`
	DriverID             string                   `json:"driver_id,omitempty"`
	VehicleID            string                   `json:"vehicle_id,omitempty"`
}

type analyzeBatchRequest struct {
	Records []analyzeShipmentRequest `json:"records" validate:"required,min=1,dive"`
}

// --- Response types ---

type analyzeBatchResponse struct {
	Enqueued int `json:"enqueued"`
}

type listShipmentsResponse struct {
	Shipments any   `json:"shipments"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
}
