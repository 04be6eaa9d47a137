package repository

import (
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// OperationFilter filtros para el listado de operaciones. Cadena vacía o "all"
// significa sin filtro.
type OperationFilter struct {
	Type   string
	Status string
}

// OperationRepository define el puerto de persistencia para Operation (DIP).
type OperationRepository interface {
	Create(op *entity.Operation) error
	GetByID(id string) (*entity.Operation, error)
	// GetForUpdate obtiene la operación bloqueando la fila (SELECT FOR UPDATE),
	// de modo que dos validaciones concurrentes del mismo id se serializan y la
	// segunda observa el estado terminal. Solo dentro de una transacción.
	GetForUpdate(id string) (*entity.Operation, error)
	UpdateStatus(id, status string, completedAt *time.Time) error
	List(filter OperationFilter, limit, offset int) ([]*entity.Operation, error)
}
