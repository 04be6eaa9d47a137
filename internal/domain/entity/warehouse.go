package entity

import "time"

// Warehouse representa una bodega física donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	Used      int
	CreatedAt time.Time
	UpdatedAt time.Time
}
