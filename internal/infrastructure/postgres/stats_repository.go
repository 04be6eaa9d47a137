package postgres

import (
	"context"
	"fmt"

	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas read-only de agregados para el dashboard.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool (no requiere tx).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountProducts devuelve el total del catálogo y los contadores de niveles críticos.
func (r *StatsRepo) CountProducts(ctx context.Context) (total, lowStock, outOfStock int, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE stock <= min_stock),
		       COUNT(*) FILTER (WHERE stock = 0)
		FROM products`
	if err := r.q.QueryRow(ctx, query).Scan(&total, &lowStock, &outOfStock); err != nil {
		return 0, 0, 0, fmt.Errorf("count products: %w", err)
	}
	return total, lowStock, outOfStock, nil
}

// CountPendingOperations cuenta operaciones del tipo dado que no están en
// estado terminal.
func (r *StatsRepo) CountPendingOperations(ctx context.Context, opType string) (int, error) {
	query := `
		SELECT COUNT(*) FROM operations
		WHERE type = $1 AND status NOT IN ('done', 'canceled')`
	var count int
	if err := r.q.QueryRow(ctx, query, opType).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending operations: %w", err)
	}
	return count, nil
}
