// internal/domain/models.go
package domain

import "time"

// Product represents a catalog item tracked by the inventory core.
// Catalog CRUD is owned elsewhere; this service only ever writes CurrentStock.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	Code          string    `json:"code" db:"code"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	CurrentStock  int       `json:"current_stock" db:"current_stock"`
	MinStock      int       `json:"min_stock" db:"min_stock"`
	MaxStock      int       `json:"max_stock" db:"max_stock"`
	ReorderPoint  int       `json:"reorder_point" db:"reorder_point"`
	StockUnit     string    `json:"stock_unit" db:"stock_unit"`
	LowStockAlert bool      `json:"low_stock_alert" db:"low_stock_alert"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// StockSource tags the provenance of a stock observation.
type StockSource string

const (
	SourceDetection StockSource = "detection"
	SourceManual    StockSource = "manual"
)

// StockRecord is a point-in-time observation of a product's quantity.
// Records are append-only and never rewritten once inserted.
type StockRecord struct {
	ID             int64       `json:"id" db:"id"`
	ProductCode    string      `json:"product_code" db:"product_code"`
	Quantity       int         `json:"quantity" db:"quantity"`
	QuantityChange int         `json:"quantity_change" db:"quantity_change"`
	Confidence     float64     `json:"confidence" db:"confidence"`
	Source         StockSource `json:"source" db:"source"`
	FrameRef       string      `json:"frame_ref,omitempty" db:"frame_ref"`
	Notes          string      `json:"notes,omitempty" db:"notes"`
	Timestamp      time.Time   `json:"timestamp" db:"timestamp"`
}

// StockUpdate is the outcome of a single stock mutation.
type StockUpdate struct {
	ProductCode    string `json:"product_code"`
	PreviousStock  int    `json:"previous_stock"`
	CurrentStock   int    `json:"current_stock"`
	QuantityChange int    `json:"quantity_change"`
}

// DetectionItem is one detected product count supplied by the vision collaborator.
type DetectionItem struct {
	Code       string  `json:"code" binding:"required"`
	Count      int     `json:"count" binding:"min=0"`
	Confidence float64 `json:"confidence"`
}

// AppliedDetection is a successfully applied detection update.
type AppliedDetection struct {
	StockUpdate
	ProductName string  `json:"product_name"`
	Confidence  float64 `json:"confidence"`
}

// DetectionBatchResult reports the outcome of a detection batch. Unresolved
// codes did not abort the rest of the batch; they are surfaced as warnings.
type DetectionBatchResult struct {
	Applied    []AppliedDetection `json:"applied"`
	Unresolved []string           `json:"unresolved"`
	FrameRef   string             `json:"frame_ref,omitempty"`
}

// ProductStock is a product annotated with its computed stock status.
type ProductStock struct {
	Product
	StockStatus StockStatus `json:"stock_status"`
}

// InventorySummary is the current stock view across the whole catalog.
type InventorySummary struct {
	TotalProducts int            `json:"total_products"`
	CriticalCount int            `json:"critical_count"`
	WarningCount  int            `json:"warning_count"`
	SafeCount     int            `json:"safe_count"`
	Products      []ProductStock `json:"products"`
}

// StockHistory is a product's recent observation window, newest first.
type StockHistory struct {
	ProductCode  string        `json:"product_code"`
	ProductName  string        `json:"product_name"`
	CurrentStock int           `json:"current_stock"`
	HistoryCount int           `json:"history_count"`
	History      []StockRecord `json:"history"`
}

// Forecast is the reorder-timing prediction for one product. It is computed
// on demand and never persisted. When InsufficientData or NoConsumption is
// set, the rate/day/date fields that could not be derived are left nil/empty
// so callers cannot mistake a missing estimate for a firm one.
type Forecast struct {
	ProductCode          string      `json:"product_code"`
	ProductName          string      `json:"product_name"`
	CurrentStock         int         `json:"current_stock"`
	MinStock             int         `json:"min_stock"`
	ReorderPoint         int         `json:"reorder_point"`
	StockUnit            string      `json:"stock_unit,omitempty"`
	DailyConsumptionRate *float64    `json:"daily_consumption_rate,omitempty"`
	DaysUntilReorder     *float64    `json:"days_until_reorder,omitempty"`
	DaysUntilStockout    *float64    `json:"days_until_stockout,omitempty"`
	ReorderDate          string      `json:"reorder_date,omitempty"`
	StockoutDate         string      `json:"stockout_date,omitempty"`
	Status               StockStatus `json:"status"`
	Confidence           *float64    `json:"confidence,omitempty"`
	DataPoints           int         `json:"data_points,omitempty"`
	InsufficientData     bool        `json:"insufficient_data,omitempty"`
	NoConsumption        bool        `json:"no_consumption,omitempty"`
	Message              string      `json:"message,omitempty"`
}

// FleetForecast is the urgency-ordered forecast across the catalog.
type FleetForecast struct {
	TotalProducts int        `json:"total_products"`
	CriticalCount int        `json:"critical_count"`
	WarningCount  int        `json:"warning_count"`
	Predictions   []Forecast `json:"predictions"`
}
