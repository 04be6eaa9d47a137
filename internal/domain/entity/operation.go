package entity

import "time"

// Tipos de operación de stock.
const (
	OperationTypeReceipt    = "receipt"    // recepción de proveedor
	OperationTypeDelivery   = "delivery"   // entrega a cliente
	OperationTypeTransfer   = "transfer"   // traslado entre ubicaciones
	OperationTypeAdjustment = "adjustment" // ajuste de inventario
)

// Estados del ciclo de vida de una operación.
const (
	OperationStatusDraft    = "draft"
	OperationStatusWaiting  = "waiting"
	OperationStatusReady    = "ready"
	OperationStatusDone     = "done"
	OperationStatusCanceled = "canceled"
)

// validTransitions define la máquina de estados de Operation de forma
// explícita: solo avances hacia adelante, más la salida a canceled. done y
// canceled son terminales. La transición se verifica antes de ejecutar
// cualquier efecto (stock, ledger), de modo que una doble validación o una
// cancelación tardía se rechazan sin tocar nada.
var validTransitions = map[string][]string{
	OperationStatusDraft:   {OperationStatusWaiting, OperationStatusReady, OperationStatusDone, OperationStatusCanceled},
	OperationStatusWaiting: {OperationStatusReady, OperationStatusDone, OperationStatusCanceled},
	OperationStatusReady:   {OperationStatusDone, OperationStatusCanceled},
}

// Operation representa una intención de mover stock. No toca stock ni ledger
// hasta que se valida; Quantity es inmutable después de creada.
//
// Quantity es magnitud para receipt/delivery/transfer y delta con signo para
// adjustment.
type Operation struct {
	ID           string
	Type         string
	Status       string
	ProductID    string
	ProductName  string
	Quantity     int
	Supplier     string // receipt
	Customer     string // delivery
	FromLocation string // transfer
	ToLocation   string // transfer
	Notes        string // adjustment
	CreatedAt    time.Time
	CompletedAt  *time.Time // solo al completar
}

// CanTransition indica si el paso Status -> to es una arista válida de la
// máquina de estados.
func (o *Operation) CanTransition(to string) bool {
	for _, next := range validTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si la operación ya no admite más transiciones.
func (o *Operation) IsTerminal() bool {
	return o.Status == OperationStatusDone || o.Status == OperationStatusCanceled
}

// ValidOperationType valida el tipo recibido desde la capa HTTP.
func ValidOperationType(t string) bool {
	switch t {
	case OperationTypeReceipt, OperationTypeDelivery, OperationTypeTransfer, OperationTypeAdjustment:
		return true
	}
	return false
}
