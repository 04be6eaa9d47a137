package repository

import (
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// CountingSessionRepository define el puerto de persistencia para sesiones de
// conteo y sus ítems.
type CountingSessionRepository interface {
	Create(session *entity.CountingSession) error
	GetByID(id string) (*entity.CountingSession, error)
	// GetForUpdate bloquea la fila de la sesión (SELECT FOR UPDATE) para
	// serializar guardados/aplicaciones concurrentes. Solo dentro de una tx.
	GetForUpdate(id string) (*entity.CountingSession, error)
	UpdateStatus(id, status string, discrepancies int, completedAt *time.Time) error
	List(limit, offset int) ([]*entity.CountingSession, error)

	AddItem(item *entity.SessionItem) error
	ListItems(sessionID string) ([]*entity.SessionItem, error)
	UpdateItemCount(sessionID, productID string, countedQuantity *int, counted bool) error
}
