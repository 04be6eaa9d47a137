package dto

// DashboardStatsDTO contadores del panel principal.
type DashboardStatsDTO struct {
	TotalProducts      int `json:"totalProducts"`
	LowStockItems      int `json:"lowStockItems"`
	OutOfStockItems    int `json:"outOfStockItems"`
	PendingReceipts    int `json:"pendingReceipts"`
	PendingDeliveries  int `json:"pendingDeliveries"`
	ScheduledTransfers int `json:"scheduledTransfers"`
}
