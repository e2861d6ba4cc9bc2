package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

// ShipmentHandler serves read-side shipment queries for the dashboard.
type ShipmentHandler struct {
	query ports.ShipmentQueryService
}

func NewShipmentHandler(query ports.ShipmentQueryService) *ShipmentHandler {
	return &ShipmentHandler{query: query}
}

// List handles GET /v1/shipments.
//
// @Summary      List annotated shipments
// @Tags         shipments
// @Produce      json
// @Param        status       query  string  false  "Filter by shipment status"
// @Param        cargo_type   query  string  false  "Filter by cargo type"
// @Param        origin       query  string  false  "Filter by origin city"
// @Param        destination  query  string  false  "Filter by destination city"
// @Param        high_risk    query  bool    false  "Only shipments with high-severity anomalies"
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        limit        query  int     false  "Page size (default 20, max 100)"
// @Success      200  {object}  listShipmentsResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	highRisk, _ := strconv.ParseBool(c.QueryParam("high_risk"))

	filter := ports.ListShipmentsFilter{
		Status:          c.QueryParam("status"),
		CargoType:       c.QueryParam("cargo_type"),
		OriginCity:      c.QueryParam("origin"),
		DestinationCity: c.QueryParam("destination"),
		HighRiskOnly:    highRisk,
		Page:            page,
		Limit:           limit,
	}

	shipments, total, err := h.query.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if shipments == nil {
		shipments = []*domain.AnnotatedShipment{}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return c.JSON(http.StatusOK, listShipmentsResponse{
		Shipments: shipments,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

// Get handles GET /v1/shipments/:id.
//
// @Summary      Get one annotated shipment
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment id (e.g. SHP-1001)"
// @Success      200  {object}  domain.AnnotatedShipment
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	shipment, err := h.query.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "shipment not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, shipment)
}

// Stats handles GET /v1/shipments/stats/summary.
//
// @Summary      Dashboard summary counters
// @Tags         shipments
// @Produce      json
// @Success      200  {object}  ports.ShipmentStats
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/stats/summary [get]
func (h *ShipmentHandler) Stats(c echo.Context) error {
	stats, err := h.query.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
