package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "id, name, sku, category, unit_of_measure, stock, min_stock, warehouse, location, price, created_at, updated_at"

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, category, unit_of_measure, stock, min_stock, warehouse, location, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.SKU, product.Category, product.UnitOfMeasure,
		product.Stock, product.MinStock, product.Warehouse, product.Location, product.Price,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE sku = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku))
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) para
// el read-modify-write del stock dentro de la transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1 FOR UPDATE"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStock escribe el nuevo stock. Solo lo llama el motor de operaciones
// después de GetForUpdate.
func (r *ProductRepo) UpdateStock(id string, stock int) error {
	query := `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`
	_, err := r.q.Exec(context.Background(), query, stock, id)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Update actualiza los metadatos del producto (no el stock).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, category = $3, unit_of_measure = $4, min_stock = $5,
		    warehouse = $6, location = $7, price = $8, updated_at = $9
		WHERE id = $10`
	_, err := r.q.Exec(context.Background(), query,
		product.Name, product.SKU, product.Category, product.UnitOfMeasure, product.MinStock,
		product.Warehouse, product.Location, product.Price, product.UpdatedAt, product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List devuelve productos con filtros opcionales, los más recientes primero.
func (r *ProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []any
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Warehouse != "" {
		query += fmt.Sprintf(" AND warehouse = $%d", pos)
		args = append(args, filter.Warehouse)
		pos++
	}
	if filter.Search != "" {
		// unaccent en ambos lados: "almacén" encuentra "almacen" y al revés.
		query += fmt.Sprintf(" AND (unaccent(name) ILIKE unaccent($%d) OR unaccent(sku) ILIKE unaccent($%d))", pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.scanMany(query, args...)
}

// ListAll devuelve todos los productos que cumplen el filtro, sin paginar.
// Lo usa el motor de conteo para congelar la foto de una sesión.
func (r *ProductRepo) ListAll(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []any
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Warehouse != "" {
		query += fmt.Sprintf(" AND warehouse = $%d", pos)
		args = append(args, filter.Warehouse)
		pos++
	}
	query += " ORDER BY name"
	return r.scanMany(query, args...)
}

// ListLowStock devuelve productos en o por debajo del punto de reorden,
// ordenados del stock más bajo al más alto.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE stock <= min_stock ORDER BY stock ASC"
	return r.scanMany(query)
}

// Delete elimina un producto. El ledger cae en cascada y las operaciones
// quedan con product_id en NULL (FKs del esquema).
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Category, &p.UnitOfMeasure,
		&p.Stock, &p.MinStock, &p.Warehouse, &p.Location, &p.Price,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Category, &p.UnitOfMeasure,
			&p.Stock, &p.MinStock, &p.Warehouse, &p.Location, &p.Price,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
