package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/repository"
)

type historyRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, record *domain.StockRecord) error {
	query := `
		INSERT INTO stock_records
			(product_code, quantity, quantity_change, confidence, source, frame_ref, notes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &record.ID, query,
		record.ProductCode, record.Quantity, record.QuantityChange,
		record.Confidence, record.Source, record.FrameRef, record.Notes, record.Timestamp,
	); err != nil {
		return fmt.Errorf("error appending stock record for %s: %w", record.ProductCode, err)
	}

	return nil
}

func (r *historyRepository) Query(ctx context.Context, productCode string, since time.Time) ([]domain.StockRecord, error) {
	query := `
		SELECT id, product_code, quantity, quantity_change, confidence,
		       source, frame_ref, notes, timestamp
		FROM stock_records
		WHERE product_code = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
	`

	var records []domain.StockRecord
	if err := r.db.SelectContext(ctx, &records, query, productCode, since); err != nil {
		return nil, fmt.Errorf("error querying stock history for %s: %w", productCode, err)
	}

	return records, nil
}
