package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/qprocure/inventory-backend/internal/cache"
	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/repository"
)

const (
	defaultForecastWindowDays = 7

	// Forecast confidence ramps linearly with history size and saturates
	// once ten observations fall inside the window.
	confidenceSaturation = 10.0
)

// PredictionService forecasts reorder timing from recent stock history.
// Forecasts are computed on demand; the fleet-wide run is cached between
// stock mutations.
type PredictionService struct {
	products   repository.ProductRepository
	history    repository.HistoryRepository
	cache      cache.ForecastCache
	windowDays int
	now        func() time.Time
}

func NewPredictionService(products repository.ProductRepository, history repository.HistoryRepository, cacheImpl cache.ForecastCache, windowDays int) *PredictionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	if windowDays <= 0 {
		windowDays = defaultForecastWindowDays
	}
	return &PredictionService{
		products:   products,
		history:    history,
		cache:      cacheImpl,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Predict computes the reorder forecast for one product. Unknown codes are
// the only hard failure; sparse history degrades to a partial result with
// only the status populated.
func (s *PredictionService) Predict(ctx context.Context, code string) (*domain.Forecast, error) {
	product, err := s.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, 0, -s.windowDays)
	records, err := s.history.Query(ctx, code, since)
	if err != nil {
		return nil, err
	}

	forecast := &domain.Forecast{
		ProductCode:  product.Code,
		ProductName:  product.Name,
		CurrentStock: product.CurrentStock,
		MinStock:     product.MinStock,
		ReorderPoint: product.ReorderPoint,
		StockUnit:    product.StockUnit,
		Status:       domain.ClassifyStock(product.CurrentStock, product.ReorderPoint, product.MinStock),
	}

	if len(records) < 2 {
		forecast.InsufficientData = true
		forecast.Message = "not enough history for a forecast (need at least 2 records)"
		return forecast, nil
	}

	// Endpoint-difference estimate over the window, not a regression. Stock
	// dropping over time yields a positive consumption rate.
	first := records[0]
	last := records[len(records)-1]

	quantityDiff := float64(first.Quantity - last.Quantity)
	timeSpanDays := last.Timestamp.Sub(first.Timestamp).Hours() / 24

	if timeSpanDays <= 0 {
		forecast.InsufficientData = true
		forecast.Message = "time span too short"
		return forecast, nil
	}

	rate := quantityDiff / timeSpanDays

	if rate <= 0 {
		forecast.Status = domain.StatusSafe
		forecast.NoConsumption = true
		forecast.DailyConsumptionRate = ptr(round2(rate))
		forecast.Message = "stock is flat or increasing"
		return forecast, nil
	}

	daysUntilReorder := (float64(product.CurrentStock) - float64(product.ReorderPoint)) / rate
	daysUntilStockout := (float64(product.CurrentStock) - float64(product.MinStock)) / rate

	// Negative day counts mean the threshold is already crossed; the dates
	// land in the past on purpose to signal an overdue reorder.
	forecast.DailyConsumptionRate = ptr(round2(rate))
	forecast.DaysUntilReorder = ptr(round1(daysUntilReorder))
	forecast.DaysUntilStockout = ptr(round1(daysUntilStockout))
	forecast.ReorderDate = dateAfter(now, daysUntilReorder)
	forecast.StockoutDate = dateAfter(now, daysUntilStockout)
	forecast.Confidence = ptr(round2(math.Min(float64(len(records))/confidenceSaturation, 1.0)))
	forecast.DataPoints = len(records)

	return forecast, nil
}

// PredictAll forecasts every product in the catalog, most urgent first.
func (s *PredictionService) PredictAll(ctx context.Context) ([]domain.Forecast, error) {
	if forecasts, ok, err := s.cache.GetFleet(ctx); err == nil && ok {
		return forecasts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	forecasts := make([]domain.Forecast, 0, len(products))
	for _, product := range products {
		forecast, err := s.Predict(ctx, product.Code)
		if err == domain.ErrProductNotFound {
			// Product removed between the list and the fetch; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, *forecast)
	}

	sortByUrgency(forecasts)

	if err := s.cache.SetFleet(ctx, forecasts); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return forecasts, nil
}

// LowStockAlerts returns the actionable subset of the fleet forecast:
// critical or warning products with enough history to trust the status.
// Fresh, unobserved products never surface as alerts.
func (s *PredictionService) LowStockAlerts(ctx context.Context) ([]domain.Forecast, error) {
	forecasts, err := s.PredictAll(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Forecast, 0)
	for _, forecast := range forecasts {
		if forecast.InsufficientData {
			continue
		}
		if forecast.Status == domain.StatusCritical || forecast.Status == domain.StatusWarning {
			alerts = append(alerts, forecast)
		}
	}

	return alerts, nil
}

// sortByUrgency orders forecasts by severity, then by days until reorder.
// Forecasts without a day estimate sort last within their severity tier.
func sortByUrgency(forecasts []domain.Forecast) {
	sort.SliceStable(forecasts, func(i, j int) bool {
		ri, rj := domain.SeverityRank(forecasts[i].Status), domain.SeverityRank(forecasts[j].Status)
		if ri != rj {
			return ri < rj
		}
		return daysOrInf(forecasts[i].DaysUntilReorder) < daysOrInf(forecasts[j].DaysUntilReorder)
	})
}

func daysOrInf(days *float64) float64 {
	if days == nil {
		return math.Inf(1)
	}
	return *days
}

func dateAfter(now time.Time, days float64) string {
	return now.Add(time.Duration(days * 24 * float64(time.Hour))).Format("2006-01-02")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}
