package entity

import "time"

// Tipo de entrada adicional del ledger (los demás tipos espejan los de Operation).
const LedgerTypeOpeningStock = "opening-stock"

// LedgerEntry es el registro inmutable de un movimiento de stock.
//
// ProductName y SKU se desnormalizan para que la historia quede estable aunque
// el producto se edite después. Exactamente uno de QuantityIn/QuantityOut es
// distinto de cero por entrada, y Balance es el stock resultante después de
// aplicarla: ordenadas por creación, las entradas de un producto forman una
// caminata consistente balance[i] = balance[i-1] + in[i] - out[i].
type LedgerEntry struct {
	ID          string
	ProductID   string
	ProductName string
	SKU         string
	Type        string // opening-stock, receipt, delivery, transfer, adjustment
	Reference   string // código legible que apunta a la operación origen
	QuantityIn  int
	QuantityOut int
	Balance     int
	Location    string
	Notes       string
	CreatedAt   time.Time
}
