package repository

import (
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// LedgerFilter filtros para consultar el ledger. Cadena vacía o "all" = sin filtro.
type LedgerFilter struct {
	ProductID string
	Type      string
	DateFrom  *time.Time // inclusivo (created_at >= DateFrom)
	DateTo    *time.Time // exclusivo (created_at < DateTo)
}

// LedgerRepository define el puerto del registro de movimientos de stock.
// Es append-only: no existe API de actualización ni de borrado (la única
// eliminación posible es el cascade al borrar un producto).
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	// List devuelve entradas ordenadas por fecha descendente (la más reciente primero).
	List(filter LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error)
	// LastByProduct devuelve la entrada más reciente de un producto, o nil si no hay.
	LastByProduct(productID string) (*entity.LedgerEntry, error)
}
