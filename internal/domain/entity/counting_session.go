package entity

import "time"

// Estados de una sesión de conteo cíclico.
const (
	SessionStatusDraft      = "draft"
	SessionStatusInProgress = "in-progress"
	SessionStatusCompleted  = "completed"
	SessionStatusApplied    = "applied"
)

// CountingSession es un flujo de conteo físico: congela las cantidades del
// sistema para un subconjunto de productos y luego compara contra el conteo.
type CountingSession struct {
	ID            string
	Name          string
	Warehouse     string // filtro de bodega (vacío = todas)
	Category      string // filtro de categoría (vacío o "all" = todas)
	ItemCount     int
	Status        string
	Discrepancies int
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// SessionItem es un producto dentro de una sesión de conteo.
//
// SystemQuantity es una foto tomada al crear la sesión; no sigue los cambios
// posteriores del stock vivo. CountedQuantity queda nil hasta que se cuenta.
type SessionItem struct {
	ID              string
	SessionID       string
	ProductID       string
	ProductName     string
	SKU             string
	Location        string
	Unit            string
	SystemQuantity  int
	CountedQuantity *int
	Counted         bool
}

// HasDiscrepancy indica si el ítem fue contado y difiere de la foto del sistema.
func (i *SessionItem) HasDiscrepancy() bool {
	return i.Counted && i.CountedQuantity != nil && *i.CountedQuantity != i.SystemQuantity
}
