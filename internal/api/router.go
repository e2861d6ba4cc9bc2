package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetwatch/logistics-monitor/internal/api/handler"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

// Dependencies holds everything the router needs to register handlers.
type Dependencies struct {
	Detection ports.DetectionService
	Alerts    ports.AlertService
	Query     ports.ShipmentQueryService
	Enqueuer  handler.RecordEnqueuer
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("logistics"))

	// --- Handlers ---
	shipmentHandler := handler.NewShipmentHandler(deps.Query)
	analyzeHandler := handler.NewAnalyzeHandler(deps.Detection, deps.Enqueuer)
	alertHandler := handler.NewAlertHandler(deps.Alerts)

	// --- API v1 routes ---
	v1 := e.Group("/v1")
	v1.GET("/shipments", shipmentHandler.List)
	v1.GET("/shipments/stats/summary", shipmentHandler.Stats)
	v1.GET("/shipments/:id", shipmentHandler.Get)
	v1.POST("/shipments/analyze", analyzeHandler.Analyze)
	v1.POST("/shipments/analyze/batch", analyzeHandler.AnalyzeBatch)
	v1.GET("/alerts", alertHandler.List)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
