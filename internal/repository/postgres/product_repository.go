package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, code, name, category, current_stock, min_stock, max_stock,
	reorder_point, stock_unit, low_stock_alert, created_at, updated_at
`

func (r *productRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("error getting product %s: %w", code, err)
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY code`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return products, nil
}

// RecordStockLevel performs the read-modify-write under a single transaction:
// the previous stock is read with a row lock, current_stock is set to the
// observed quantity, and the history record is appended. All three steps
// commit or roll back together.
func (r *productRepository) RecordStockLevel(ctx context.Context, record domain.StockRecord) (*domain.StockUpdate, error) {
	var update domain.StockUpdate

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var previousStock int
		err := tx.GetContext(ctx, &previousStock,
			`SELECT current_stock FROM products WHERE code = $1 FOR UPDATE`, record.ProductCode)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("error reading current stock for %s: %w", record.ProductCode, err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET current_stock = $1, updated_at = NOW() WHERE code = $2`,
			record.Quantity, record.ProductCode); err != nil {
			return fmt.Errorf("error updating stock for %s: %w", record.ProductCode, err)
		}

		record.QuantityChange = record.Quantity - previousStock

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_records
				(product_code, quantity, quantity_change, confidence, source, frame_ref, notes, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			record.ProductCode, record.Quantity, record.QuantityChange,
			record.Confidence, record.Source, record.FrameRef, record.Notes, record.Timestamp,
		); err != nil {
			return fmt.Errorf("error appending stock record for %s: %w", record.ProductCode, err)
		}

		update = domain.StockUpdate{
			ProductCode:    record.ProductCode,
			PreviousStock:  previousStock,
			CurrentStock:   record.Quantity,
			QuantityChange: record.QuantityChange,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &update, nil
}
