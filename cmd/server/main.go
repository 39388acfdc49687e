// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qprocure/inventory-backend/internal/api"
	"github.com/qprocure/inventory-backend/internal/cache"
	"github.com/qprocure/inventory-backend/internal/config"
	"github.com/qprocure/inventory-backend/internal/repository/postgres"
	"github.com/qprocure/inventory-backend/internal/service"
	"github.com/qprocure/inventory-backend/internal/storage"
	"github.com/qprocure/inventory-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache unavailable, running without cache")
		forecastCache = cache.NewNoopForecastCache()
	}

	var frames storage.FrameArchive
	if cfg.Storage.Enabled {
		archive, err := storage.NewMinioArchive(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize frame archive")
		}
		frames = archive
	}

	productRepo := postgres.NewProductRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)

	services := &api.Services{
		Inventory:  service.NewInventoryService(productRepo, historyRepo, forecastCache),
		Prediction: service.NewPredictionService(productRepo, historyRepo, forecastCache, cfg.App.ForecastWindowDays),
		Frames:     frames,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
