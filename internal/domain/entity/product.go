package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
//
// Stock es la cantidad actual en mano y debe coincidir siempre con el Balance
// de la última entrada del ledger para este producto. Esa invariante la
// garantiza el motor de operaciones (transacción única stock + ledger +
// estado); nadie más escribe Stock.
type Product struct {
	ID            string
	Name          string
	SKU           string // código único de negocio
	Category      string
	UnitOfMeasure string
	Stock         int
	MinStock      int // punto de reorden
	Warehouse     string
	Location      string
	Price         decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el producto está en o por debajo del punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
