// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/qprocure/inventory-backend/internal/api/handlers"
	"github.com/qprocure/inventory-backend/internal/api/middleware"
	"github.com/qprocure/inventory-backend/internal/service"
	"github.com/qprocure/inventory-backend/internal/storage"
)

type Services struct {
	Inventory  *service.InventoryService
	Prediction *service.PredictionService
	Frames     storage.FrameArchive
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Inventory != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.Inventory, services.Frames)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/current", inventoryHandler.GetCurrent)
				inventoryGroup.GET("/history/:code", inventoryHandler.GetHistory)
				inventoryGroup.POST("/record", inventoryHandler.RecordManual)
				inventoryGroup.POST("/detections", inventoryHandler.RecordDetections)
			}
		}

		if services.Prediction != nil {
			predictionHandler := handlers.NewPredictionHandler(services.Prediction)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/predictions", predictionHandler.GetPredictions)
				inventoryGroup.GET("/predictions/:code", predictionHandler.GetPrediction)
				inventoryGroup.GET("/alerts", predictionHandler.GetAlerts)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
