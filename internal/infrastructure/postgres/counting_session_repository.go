package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

var _ repository.CountingSessionRepository = (*CountingSessionRepo)(nil)

const sessionColumns = "id, name, warehouse, category, item_count, status, discrepancies, created_at, completed_at"

// CountingSessionRepo implementación del puerto CountingSessionRepository
// sobre PostgreSQL (usable con pool o tx).
type CountingSessionRepo struct {
	q Querier
}

// NewCountingSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountingSessionRepository(q Querier) *CountingSessionRepo {
	return &CountingSessionRepo{q: q}
}

// Create persiste una sesión.
func (r *CountingSessionRepo) Create(session *entity.CountingSession) error {
	query := `
		INSERT INTO counting_sessions (id, name, warehouse, category, item_count, status, discrepancies, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.Name, nullIfEmpty(session.Warehouse), nullIfEmpty(session.Category),
		session.ItemCount, session.Status, session.Discrepancies, session.CreatedAt, session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert counting session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *CountingSessionRepo) GetByID(id string) (*entity.CountingSession, error) {
	query := "SELECT " + sessionColumns + " FROM counting_sessions WHERE id = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene una sesión bloqueando la fila (SELECT FOR UPDATE).
func (r *CountingSessionRepo) GetForUpdate(id string) (*entity.CountingSession, error) {
	query := "SELECT " + sessionColumns + " FROM counting_sessions WHERE id = $1 FOR UPDATE"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus escribe estado, descuadres y completed_at de la sesión.
func (r *CountingSessionRepo) UpdateStatus(id, status string, discrepancies int, completedAt *time.Time) error {
	query := `UPDATE counting_sessions SET status = $1, discrepancies = $2, completed_at = $3 WHERE id = $4`
	_, err := r.q.Exec(context.Background(), query, status, discrepancies, completedAt, id)
	if err != nil {
		return fmt.Errorf("update counting session: %w", err)
	}
	return nil
}

// List devuelve sesiones, la más reciente primero.
func (r *CountingSessionRepo) List(limit, offset int) ([]*entity.CountingSession, error) {
	query := "SELECT " + sessionColumns + " FROM counting_sessions ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list counting sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountingSession
	for rows.Next() {
		session, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, session)
	}
	return list, rows.Err()
}

// AddItem persiste un ítem de sesión.
func (r *CountingSessionRepo) AddItem(item *entity.SessionItem) error {
	query := `
		INSERT INTO counting_session_items (id, session_id, product_id, product_name, sku, location, unit, system_quantity, counted_quantity, counted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SessionID, item.ProductID, item.ProductName, item.SKU,
		nullIfEmpty(item.Location), nullIfEmpty(item.Unit),
		item.SystemQuantity, item.CountedQuantity, item.Counted,
	)
	if err != nil {
		return fmt.Errorf("insert session item: %w", err)
	}
	return nil
}

// ListItems devuelve los ítems de una sesión.
func (r *CountingSessionRepo) ListItems(sessionID string) ([]*entity.SessionItem, error) {
	query := `
		SELECT id, session_id, product_id, product_name, sku, location, unit, system_quantity, counted_quantity, counted
		FROM counting_session_items WHERE session_id = $1 ORDER BY product_name`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SessionItem
	for rows.Next() {
		var item entity.SessionItem
		var location, unit *string
		if err := rows.Scan(
			&item.ID, &item.SessionID, &item.ProductID, &item.ProductName, &item.SKU,
			&location, &unit, &item.SystemQuantity, &item.CountedQuantity, &item.Counted,
		); err != nil {
			return nil, fmt.Errorf("scan session item: %w", err)
		}
		item.Location = deref(location)
		item.Unit = deref(unit)
		list = append(list, &item)
	}
	return list, rows.Err()
}

// UpdateItemCount registra el conteo físico de un ítem.
func (r *CountingSessionRepo) UpdateItemCount(sessionID, productID string, countedQuantity *int, counted bool) error {
	query := `
		UPDATE counting_session_items
		SET counted_quantity = $1, counted = $2
		WHERE session_id = $3 AND product_id = $4`
	_, err := r.q.Exec(context.Background(), query, countedQuantity, counted, sessionID, productID)
	if err != nil {
		return fmt.Errorf("update session item: %w", err)
	}
	return nil
}

func (r *CountingSessionRepo) scanOne(row pgx.Row) (*entity.CountingSession, error) {
	session, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *CountingSessionRepo) scanRow(row pgx.Row) (*entity.CountingSession, error) {
	var s entity.CountingSession
	var warehouse, category *string
	err := row.Scan(
		&s.ID, &s.Name, &warehouse, &category, &s.ItemCount,
		&s.Status, &s.Discrepancies, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan counting session: %w", err)
	}
	s.Warehouse = deref(warehouse)
	s.Category = deref(category)
	return &s, nil
}
