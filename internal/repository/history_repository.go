// internal/repository/history_repository.go
package repository

import (
	"context"
	"time"

	"github.com/qprocure/inventory-backend/internal/domain"
)

// HistoryRepository is the append-only store of stock observations.
// Records are immutable once inserted; callers may re-query freely.
type HistoryRepository interface {
	Append(ctx context.Context, record *domain.StockRecord) error

	// Query returns records with timestamp >= since, ascending by timestamp.
	Query(ctx context.Context, productCode string, since time.Time) ([]domain.StockRecord, error)
}
