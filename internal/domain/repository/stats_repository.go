package repository

import "context"

// DashboardStats contadores agregados para el panel principal.
type DashboardStats struct {
	TotalProducts      int
	LowStockItems      int
	OutOfStockItems    int
	PendingReceipts    int
	PendingDeliveries  int
	PendingTransfers   int
}

// StatsRepository consultas read-only de agregados. No participa en las
// transacciones del motor de operaciones.
type StatsRepository interface {
	CountProducts(ctx context.Context) (total, lowStock, outOfStock int, err error)
	CountPendingOperations(ctx context.Context, opType string) (int, error)
}
