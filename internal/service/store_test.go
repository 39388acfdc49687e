package service

import (
	"context"
	"sort"
	"time"

	"github.com/qprocure/inventory-backend/internal/domain"
)

// memStore is an in-memory stand-in for the postgres repositories. It mirrors
// the transactional contract of RecordStockLevel: read previous stock, set the
// new level and append the history record as one step.
type memStore struct {
	products map[string]*domain.Product
	records  map[string][]domain.StockRecord
	nextID   int64
}

func newMemStore(products ...domain.Product) *memStore {
	s := &memStore{
		products: make(map[string]*domain.Product),
		records:  make(map[string][]domain.StockRecord),
	}
	for i := range products {
		p := products[i]
		s.products[p.Code] = &p
	}
	return s
}

func (s *memStore) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	product, ok := s.products[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *memStore) List(ctx context.Context) ([]domain.Product, error) {
	codes := make([]string, 0, len(s.products))
	for code := range s.products {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	products := make([]domain.Product, 0, len(codes))
	for _, code := range codes {
		products = append(products, *s.products[code])
	}
	return products, nil
}

func (s *memStore) RecordStockLevel(ctx context.Context, record domain.StockRecord) (*domain.StockUpdate, error) {
	product, ok := s.products[record.ProductCode]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	previous := product.CurrentStock
	product.CurrentStock = record.Quantity
	record.QuantityChange = record.Quantity - previous

	s.nextID++
	record.ID = s.nextID
	s.records[record.ProductCode] = append(s.records[record.ProductCode], record)

	return &domain.StockUpdate{
		ProductCode:    record.ProductCode,
		PreviousStock:  previous,
		CurrentStock:   record.Quantity,
		QuantityChange: record.QuantityChange,
	}, nil
}

func (s *memStore) Append(ctx context.Context, record *domain.StockRecord) error {
	s.nextID++
	record.ID = s.nextID
	s.records[record.ProductCode] = append(s.records[record.ProductCode], *record)
	return nil
}

func (s *memStore) Query(ctx context.Context, productCode string, since time.Time) ([]domain.StockRecord, error) {
	var out []domain.StockRecord
	for _, record := range s.records[productCode] {
		if !record.Timestamp.Before(since) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// countingCache wraps the noop cache to observe invalidations.
type countingCache struct {
	invalidations int
}

func (c *countingCache) GetFleet(ctx context.Context) ([]domain.Forecast, bool, error) {
	return nil, false, nil
}

func (c *countingCache) SetFleet(ctx context.Context, forecasts []domain.Forecast) error {
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.invalidations++
	return nil
}
