package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/qprocure/inventory-backend/internal/cache"
	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/repository"
)

const defaultHistoryDays = 30

// InventoryService owns the stock-mutation protocol: every update sets the
// product's current stock to an absolute observed quantity and appends exactly
// one history record, atomically. Detection events and manual entries share
// the same mechanics and differ only in source and confidence.
type InventoryService struct {
	products repository.ProductRepository
	history  repository.HistoryRepository
	cache    cache.ForecastCache
	now      func() time.Time
}

func NewInventoryService(products repository.ProductRepository, history repository.HistoryRepository, cacheImpl cache.ForecastCache) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &InventoryService{
		products: products,
		history:  history,
		cache:    cacheImpl,
		now:      time.Now,
	}
}

// RecordManual applies an operator-supplied absolute stock quantity.
// Setting the same quantity twice is idempotent: the second call records a
// zero change.
func (s *InventoryService) RecordManual(ctx context.Context, code string, quantity int, notes string) (*domain.StockUpdate, error) {
	update, err := s.products.RecordStockLevel(ctx, domain.StockRecord{
		ProductCode: code,
		Quantity:    quantity,
		Confidence:  1.0,
		Source:      domain.SourceManual,
		Notes:       notes,
		Timestamp:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.invalidateForecasts(ctx)

	log.Info().
		Str("code", code).
		Int("quantity", quantity).
		Int("change", update.QuantityChange).
		Msg("manual stock entry recorded")

	return update, nil
}

// RecordDetectionBatch applies a batch of detected counts. Each product is
// updated in its own transaction, so one unresolved code never rolls back the
// rest of the batch: unresolved codes are collected and reported back as
// warnings. A batch with zero matches is a success with an empty applied set.
func (s *InventoryService) RecordDetectionBatch(ctx context.Context, frameRef string, items []domain.DetectionItem) (*domain.DetectionBatchResult, error) {
	result := &domain.DetectionBatchResult{
		Applied:    make([]domain.AppliedDetection, 0, len(items)),
		Unresolved: make([]string, 0),
		FrameRef:   frameRef,
	}

	for _, item := range items {
		product, err := s.products.GetByCode(ctx, item.Code)
		if err == domain.ErrProductNotFound {
			log.Warn().Str("code", item.Code).Msg("detected code not in catalog, skipping")
			result.Unresolved = append(result.Unresolved, item.Code)
			continue
		}
		if err != nil {
			return nil, err
		}

		update, err := s.products.RecordStockLevel(ctx, domain.StockRecord{
			ProductCode: product.Code,
			Quantity:    item.Count,
			Confidence:  clampConfidence(item.Confidence),
			Source:      domain.SourceDetection,
			FrameRef:    frameRef,
			Timestamp:   s.now(),
		})
		if err == domain.ErrProductNotFound {
			// Product vanished between lookup and update; treat as unresolved.
			result.Unresolved = append(result.Unresolved, item.Code)
			continue
		}
		if err != nil {
			return nil, err
		}

		result.Applied = append(result.Applied, domain.AppliedDetection{
			StockUpdate: *update,
			ProductName: product.Name,
			Confidence:  clampConfidence(item.Confidence),
		})

		log.Info().
			Str("code", product.Code).
			Int("count", item.Count).
			Int("change", update.QuantityChange).
			Float64("confidence", item.Confidence).
			Msg("detection applied")
	}

	if len(result.Applied) > 0 {
		s.invalidateForecasts(ctx)
	}

	return result, nil
}

// CurrentInventory returns every product with its computed stock status and
// per-status counts for the dashboard.
func (s *InventoryService) CurrentInventory(ctx context.Context) (*domain.InventorySummary, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.InventorySummary{
		TotalProducts: len(products),
		Products:      make([]domain.ProductStock, 0, len(products)),
	}

	for _, product := range products {
		status := domain.ClassifyStock(product.CurrentStock, product.ReorderPoint, product.MinStock)
		switch status {
		case domain.StatusCritical:
			summary.CriticalCount++
		case domain.StatusWarning:
			summary.WarningCount++
		default:
			summary.SafeCount++
		}
		summary.Products = append(summary.Products, domain.ProductStock{
			Product:     product,
			StockStatus: status,
		})
	}

	return summary, nil
}

// History returns a product's stock records within the given day window,
// newest first.
func (s *InventoryService) History(ctx context.Context, code string, days int) (*domain.StockHistory, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}

	product, err := s.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -days)
	records, err := s.history.Query(ctx, code, since)
	if err != nil {
		return nil, err
	}

	// Query returns oldest first; the history view wants newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return &domain.StockHistory{
		ProductCode:  product.Code,
		ProductName:  product.Name,
		CurrentStock: product.CurrentStock,
		HistoryCount: len(records),
		History:      records,
	}, nil
}

func (s *InventoryService) invalidateForecasts(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast: cache invalidate failed")
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
