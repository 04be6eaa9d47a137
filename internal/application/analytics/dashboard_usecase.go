// Package analytics contiene los casos de uso read-only para el panel
// principal del almacén.
package analytics

import (
	"context"

	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// DashboardUseCase genera los contadores del panel: catálogo, niveles críticos
// y operaciones pendientes por tipo.
//
// Fuente de datos: StatsRepository (consultas read-only). No participa en las
// transacciones del motor de operaciones.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(statsRepo repository.StatsRepository) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo}
}

// GetStats construye el DashboardStatsDTO.
//
// Dos llamadas en paralelo:
//  1. CountProducts            → totales del catálogo y niveles críticos
//  2. CountPendingOperations   → pendientes por tipo (receipt/delivery/transfer)
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	type productsResult struct {
		total, lowStock, outOfStock int
		err                         error
	}
	type pendingResult struct {
		receipts, deliveries, transfers int
		err                             error
	}

	productsCh := make(chan productsResult, 1)
	pendingCh := make(chan pendingResult, 1)

	go func() {
		total, lowStock, outOfStock, err := uc.statsRepo.CountProducts(ctx)
		productsCh <- productsResult{total, lowStock, outOfStock, err}
	}()
	go func() {
		var res pendingResult
		res.receipts, res.err = uc.statsRepo.CountPendingOperations(ctx, entity.OperationTypeReceipt)
		if res.err == nil {
			res.deliveries, res.err = uc.statsRepo.CountPendingOperations(ctx, entity.OperationTypeDelivery)
		}
		if res.err == nil {
			res.transfers, res.err = uc.statsRepo.CountPendingOperations(ctx, entity.OperationTypeTransfer)
		}
		pendingCh <- res
	}()

	products := <-productsCh
	pending := <-pendingCh
	if products.err != nil {
		return nil, products.err
	}
	if pending.err != nil {
		return nil, pending.err
	}

	return &dto.DashboardStatsDTO{
		TotalProducts:      products.total,
		LowStockItems:      products.lowStock,
		OutOfStockItems:    products.outOfStock,
		PendingReceipts:    pending.receipts,
		PendingDeliveries:  pending.deliveries,
		ScheduledTransfers: pending.transfers,
	}, nil
}
