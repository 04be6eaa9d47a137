package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = "id, product_id, product_name, sku, type, reference, quantity_in, quantity_out, balance, location, notes, created_at"

// LedgerRepo implementación del puerto LedgerRepository sobre PostgreSQL
// (usable con pool o tx). Solo inserta y consulta: el ledger es append-only.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una entrada. No existe Update ni Delete.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (id, product_id, product_name, sku, type, reference, quantity_in, quantity_out, balance, location, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.ProductName, entry.SKU, entry.Type, entry.Reference,
		entry.QuantityIn, entry.QuantityOut, entry.Balance,
		nullIfEmpty(entry.Location), nullIfEmpty(entry.Notes), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// List devuelve entradas con filtros opcionales, la más reciente primero.
func (r *LedgerRepo) List(filter repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := "SELECT " + ledgerColumns + " FROM stock_ledger WHERE 1=1"
	var args []any
	pos := 1
	if filter.ProductID != "" && filter.ProductID != "all" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" && filter.Type != "all" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.DateFrom)
		pos++
	}
	// DateTo llega como inicio del día siguiente: comparación estricta para no
	// arrastrar entradas con timestamp exactamente en esa medianoche.
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND created_at < $%d", pos)
		args = append(args, *filter.DateTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// LastByProduct devuelve la entrada más reciente de un producto, o nil si no hay.
func (r *LedgerRepo) LastByProduct(productID string) (*entity.LedgerEntry, error) {
	query := "SELECT " + ledgerColumns + " FROM stock_ledger WHERE product_id = $1 ORDER BY created_at DESC LIMIT 1"
	entry, err := scanLedgerRow(r.q.QueryRow(context.Background(), query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanLedgerRow(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var location, notes *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.ProductName, &e.SKU, &e.Type, &e.Reference,
		&e.QuantityIn, &e.QuantityOut, &e.Balance, &location, &notes, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	e.Location = deref(location)
	e.Notes = deref(notes)
	return &e, nil
}
