package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/service"
)

type PredictionHandler struct {
	service *service.PredictionService
}

func NewPredictionHandler(service *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	code := c.Param("code")

	forecast, err := h.service.Predict(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	forecasts, err := h.service.PredictAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecasts", "details": err.Error()})
		return
	}

	fleet := domain.FleetForecast{
		TotalProducts: len(forecasts),
		Predictions:   forecasts,
	}
	for _, forecast := range forecasts {
		switch forecast.Status {
		case domain.StatusCritical:
			fleet.CriticalCount++
		case domain.StatusWarning:
			fleet.WarningCount++
		}
	}

	c.JSON(http.StatusOK, fleet)
}

func (h *PredictionHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.service.LowStockAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alert_count": len(alerts),
		"alerts":      alerts,
	})
}
