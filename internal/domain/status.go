package domain

// StockStatus is the tier a product's stock level falls into.
type StockStatus string

const (
	StatusSafe     StockStatus = "safe"
	StatusWarning  StockStatus = "warning"
	StatusCritical StockStatus = "critical"
)

// ClassifyStock maps a stock level against its thresholds. The critical check
// runs before the warning check so that a misconfigured product with
// reorder_point below min_stock still reports critical at very low stock;
// ties resolve toward the more severe tier.
func ClassifyStock(currentStock, reorderPoint, minStock int) StockStatus {
	if currentStock <= minStock {
		return StatusCritical
	}
	if currentStock <= reorderPoint {
		return StatusWarning
	}
	return StatusSafe
}

var severityRank = map[StockStatus]int{
	StatusCritical: 0,
	StatusWarning:  1,
	StatusSafe:     2,
}

// SeverityRank orders statuses most-urgent-first; unknown statuses sort last.
func SeverityRank(status StockStatus) int {
	if rank, ok := severityRank[status]; ok {
		return rank
	}
	return 3
}
