package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/api"
	"github.com/fleetwatch/logistics-monitor/internal/core/detector"
	"github.com/fleetwatch/logistics-monitor/internal/core/service"
	"github.com/fleetwatch/logistics-monitor/internal/infrastructure/db/mongo"
	"github.com/fleetwatch/logistics-monitor/internal/infrastructure/db/redis"
	"github.com/fleetwatch/logistics-monitor/internal/infrastructure/queue"
	"github.com/fleetwatch/logistics-monitor/internal/pkg/config"
	"github.com/fleetwatch/logistics-monitor/pkg/logger"
)

// @title Logistics Monitor API
// @version 1.0
// @description Shipment anomaly detection and alerting for logistics fleets.
// @BasePath /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "logistics-monitor",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	shipmentRepo := mongo.NewShipmentRepository(db)
	if err := shipmentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}
	alertRepo := mongo.NewAlertRepository(db)
	deduper := redis.NewAlertDeduper(rdb)

	// --- Detection core ---
	baseline := detector.LoadBaseline(cfg.Detector.HistoricalDataPath, logger.Component("baseline"))
	baseline = baseline.WithOverrides(detector.Overrides{
		DeviationThresholdKm: cfg.Detector.DeviationKm,
		UnplannedStopMinutes: cfg.Detector.StopMinutes,
		MaxSpeedKmh:          cfg.Detector.MaxSpeedKmh,
		HighValueCargo:       cfg.Detector.HighValueCargo,
		DelayGraceMinutes:    cfg.Detector.DelayGraceMinutes,
		NearZeroSpeedKmh:     cfg.Detector.NearZeroSpeedKmh,
	})
	det := detector.New(baseline, logger.Component("detector"))

	// --- Services ---
	alertService := service.NewAlertService(alertRepo, deduper, logger.Component("alerts"))
	detectionService := service.NewDetectionService(det, shipmentRepo, alertService, logger.Component("detection"))
	queryService := service.NewShipmentQueryService(shipmentRepo, logger.Component("query"))

	// --- Async analysis workers ---
	dispatcher := queue.NewDispatcher(cfg.Workers, detectionService, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Detection: detectionService,
		Alerts:    alertService,
		Query:     queryService,
		Enqueuer:  dispatcher,
		Mongo:     db,
		Redis:     rdb,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
