package counting

import (
	"context"
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// CountingTxRunner ejecuta una función dentro de una transacción con los
// repositorios que necesita el motor de conteo. Incluye los repos de
// operaciones y ledger porque aplicar descuadres genera ajustes a través del
// motor de operaciones, en la misma transacción.
type CountingTxRunner interface {
	RunCounting(ctx context.Context, fn func(
		sessionRepo repository.CountingSessionRepository,
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Adjuster aplica un ajuste de inventario dentro de la transacción del caller.
// Lo implementa operations.LifecycleUseCase: el motor de conteo nunca escribe
// stock ni ledger por su cuenta.
type Adjuster interface {
	ApplyAdjustmentInTx(
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		productID, productName string,
		delta int,
		notes string,
		now time.Time,
	) (*entity.Operation, error)
}
