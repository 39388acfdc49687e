// internal/repository/product_repository.go
package repository

import (
	"context"

	"github.com/qprocure/inventory-backend/internal/domain"
)

// ProductRepository provides read access to the catalog and the single write
// path the inventory core owns: setting a product's current stock.
type ProductRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)

	// RecordStockLevel sets current_stock to record.Quantity and appends the
	// history record in one transaction. The previous stock is read inside the
	// same transaction so interleaved detections and manual entries on the same
	// product cannot lose updates. record.QuantityChange is computed here.
	RecordStockLevel(ctx context.Context, record domain.StockRecord) (*domain.StockUpdate, error)
}
