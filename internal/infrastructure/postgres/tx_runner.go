package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockmaster/stockmaster-api/internal/application/counting"
	"github.com/stockmaster/stockmaster-api/internal/application/operations"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// Ensure TxRunner implements operations.TxRunner and counting.CountingTxRunner.
var _ operations.TxRunner = (*TxRunner)(nil)
var _ counting.CountingTxRunner = (*TxRunner)(nil)

// maxTxRetries límite de reintentos ante fallos de serialización o deadlock
// antes de rendirse con domain.ErrConflict.
const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Fallos de serialización/deadlock se reintentan hasta
// maxTxRetries veces y después se devuelve domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	opRepo := NewOperationRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(opRepo, ledgerRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCounting inicia una transacción con los repos que necesita el motor de
// conteo (sesiones + los del motor de operaciones para aplicar descuadres).
func (r *TxRunner) RunCounting(ctx context.Context, fn func(
	sessionRepo repository.CountingSessionRepository,
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		sessionRepo := NewCountingSessionRepository(tx)
		opRepo := NewOperationRepository(tx)
		ledgerRepo := NewLedgerRepository(tx)
		productRepo := NewProductRepository(tx)

		if err := fn(sessionRepo, opRepo, ledgerRepo, productRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// withRetry reintenta attempt ante errores de serialización/deadlock. Los
// errores de dominio y demás fallos salen tal cual al primer intento.
func (r *TxRunner) withRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = attempt(ctx)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}
