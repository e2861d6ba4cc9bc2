package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

// AlertHandler serves the dashboard's high-priority alert feed.
type AlertHandler struct {
	alerts ports.AlertService
}

func NewAlertHandler(alerts ports.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List handles GET /v1/alerts.
//
// @Summary      List recent alerts
// @Tags         alerts
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of alerts (default 50)"
// @Success      200    {array}   domain.Alert
// @Failure      500    {object}  errorResponse
// @Router       /v1/alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	alerts, err := h.alerts.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []*domain.Alert{}
	}
	return c.JSON(http.StatusOK, alerts)
}
