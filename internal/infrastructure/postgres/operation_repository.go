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

var _ repository.OperationRepository = (*OperationRepo)(nil)

const operationColumns = "id, type, status, product_id, product_name, quantity, supplier, customer, from_location, to_location, notes, created_at, completed_at"

// OperationRepo implementación del puerto OperationRepository sobre PostgreSQL
// (usable con pool o tx).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// Create persiste una operación.
func (r *OperationRepo) Create(op *entity.Operation) error {
	query := `
		INSERT INTO operations (id, type, status, product_id, product_name, quantity, supplier, customer, from_location, to_location, notes, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Type, op.Status, nullIfEmpty(op.ProductID), op.ProductName, op.Quantity,
		nullIfEmpty(op.Supplier), nullIfEmpty(op.Customer),
		nullIfEmpty(op.FromLocation), nullIfEmpty(op.ToLocation), nullIfEmpty(op.Notes),
		op.CreatedAt, op.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID obtiene una operación por ID.
func (r *OperationRepo) GetByID(id string) (*entity.Operation, error) {
	query := "SELECT " + operationColumns + " FROM operations WHERE id = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la operación bloqueando la fila (SELECT FOR UPDATE).
// El guard de estado de Validate/Cancel corre con este lock tomado.
func (r *OperationRepo) GetForUpdate(id string) (*entity.Operation, error) {
	query := "SELECT " + operationColumns + " FROM operations WHERE id = $1 FOR UPDATE"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus escribe el nuevo estado y, si aplica, completed_at.
func (r *OperationRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	query := `UPDATE operations SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`
	_, err := r.q.Exec(context.Background(), query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("update operation status: %w", err)
	}
	return nil
}

// List devuelve operaciones con filtros opcionales, las más recientes primero.
func (r *OperationRepo) List(filter repository.OperationFilter, limit, offset int) ([]*entity.Operation, error) {
	query := "SELECT " + operationColumns + " FROM operations WHERE 1=1"
	var args []any
	pos := 1
	if filter.Type != "" && filter.Type != "all" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.Status != "" && filter.Status != "all" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		op, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

func (r *OperationRepo) scanOne(row pgx.Row) (*entity.Operation, error) {
	op, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return op, nil
}

func (r *OperationRepo) scanRow(row pgx.Row) (*entity.Operation, error) {
	var op entity.Operation
	var productID, supplier, customer, fromLocation, toLocation, notes *string
	err := row.Scan(
		&op.ID, &op.Type, &op.Status, &productID, &op.ProductName, &op.Quantity,
		&supplier, &customer, &fromLocation, &toLocation, &notes,
		&op.CreatedAt, &op.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan operation: %w", err)
	}
	op.ProductID = deref(productID)
	op.Supplier = deref(supplier)
	op.Customer = deref(customer)
	op.FromLocation = deref(fromLocation)
	op.ToLocation = deref(toLocation)
	op.Notes = deref(notes)
	return &op, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
