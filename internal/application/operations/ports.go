package operations

import (
	"context"

	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la tripleta stock + ledger +
// estado de la operación se escribe completa o no se escribe nada.
//
// La implementación debe reintentar fallos de serialización/deadlock un número
// acotado de veces y devolver domain.ErrConflict si se agotan los reintentos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error) error
}
