package repository

import "github.com/stockmaster/stockmaster-api/internal/domain/entity"

// ProductFilter filtros para el listado de productos.
type ProductFilter struct {
	Category  string
	Warehouse string
	Search    string // nombre o SKU; el repo compara sin mayúsculas ni tildes en ambos lados
}

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// GetForUpdate y UpdateStock existen para el motor de operaciones: el stock
// solo se escribe después de bloquear la fila dentro de la transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, stock int) error
	Update(product *entity.Product) error
	List(filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	// ListAll devuelve todos los productos que cumplen el filtro, sin paginar.
	// Lo usa el motor de conteo para congelar la foto de una sesión.
	ListAll(filter ProductFilter) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
