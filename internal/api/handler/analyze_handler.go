package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

// RecordEnqueuer abstracts the sharded dispatcher for asynchronous batches.
type RecordEnqueuer interface {
	EnqueueBatch(records []domain.ShipmentRecord)
}

// AnalyzeHandler accepts shipment records for anomaly detection.
type AnalyzeHandler struct {
	service  ports.DetectionService
	enqueuer RecordEnqueuer
}

func NewAnalyzeHandler(service ports.DetectionService, enqueuer RecordEnqueuer) *AnalyzeHandler {
	return &AnalyzeHandler{service: service, enqueuer: enqueuer}
}

// Analyze handles POST /v1/shipments/analyze: synchronous single-record detection.
//
// @Summary      Analyze one shipment record
// @Tags         detection
// @Accept       json
// @Produce      json
// @Param        record  body      analyzeShipmentRequest  true  "Shipment record"
// @Success      200     {object}  domain.AnnotatedShipment
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /v1/shipments/analyze [post]
func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	var req analyzeShipmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	annotated, err := h.service.Analyze(c.Request().Context(), toDomainRecord(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, annotated)
}

// AnalyzeBatch handles POST /v1/shipments/analyze/batch: asynchronous batch intake.
//
// @Summary      Enqueue a batch of shipment records for detection
// @Tags         detection
// @Accept       json
// @Produce      json
// @Param        batch  body      analyzeBatchRequest  true  "Batch of shipment records"
// @Success      202    {object}  analyzeBatchResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/shipments/analyze/batch [post]
func (h *AnalyzeHandler) AnalyzeBatch(c echo.Context) error {
	var req analyzeBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	records := make([]domain.ShipmentRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, toDomainRecord(r))
	}
	h.enqueuer.EnqueueBatch(records)

	return c.JSON(http.StatusAccepted, analyzeBatchResponse{Enqueued: len(records)})
}
