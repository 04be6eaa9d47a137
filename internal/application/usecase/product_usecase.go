package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/application/operations"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. El stock solo lo
// escribe el motor de operaciones; aquí únicamente se siembra el stock inicial
// con su entrada opening-stock, en la misma transacción que crea el producto.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner operations.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner operations.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un producto. Si el stock inicial es mayor que cero, agrega la
// entrada opening-stock del ledger en la misma transacción, de modo que la
// invariante stock == último balance se cumple desde el primer día.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = "pcs"
	}
	if in.MinStock == 0 {
		in.MinStock = 10
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		SKU:           in.SKU,
		Category:      in.Category,
		UnitOfMeasure: in.UnitOfMeasure,
		Stock:         in.Stock,
		MinStock:      in.MinStock,
		Warehouse:     in.Warehouse,
		Location:      in.Location,
		Price:         in.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.Stock > 0 {
			return ledgerRepo.Append(&entity.LedgerEntry{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Type:        entity.LedgerTypeOpeningStock,
				Reference:   "OPEN-001",
				QuantityIn:  in.Stock,
				Balance:     in.Stock,
				Location:    product.Warehouse,
				Notes:       "Opening stock",
				CreatedAt:   now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve productos con filtros de categoría, bodega y búsqueda por
// nombre o SKU. La búsqueda es insensible a mayúsculas y tildes: el repo
// normaliza ambos lados, de modo que "almacén" encuentra "almacen" y al revés.
func (uc *ProductUseCase) List(in dto.ListProductsRequest) ([]*entity.Product, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{}
	if in.Category != "" && in.Category != "all" {
		filter.Category = in.Category
	}
	if in.Warehouse != "" && in.Warehouse != "all" {
		filter.Warehouse = in.Warehouse
	}
	if in.Search != "" {
		filter.Search = in.Search
	}
	return uc.repo.List(filter, in.Limit, in.Offset)
}

// ListLowStock devuelve los productos en o por debajo del punto de reorden,
// ordenados del más crítico al menos.
func (uc *ProductUseCase) ListLowStock() ([]*entity.Product, error) {
	return uc.repo.ListLowStock()
}

// Update actualiza los metadatos del producto. El stock no se toca aquí.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		conflict, err := uc.repo.GetBySKU(*in.SKU)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.Warehouse != nil {
		product.Warehouse = *in.Warehouse
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina un producto. Las operaciones que lo referencian quedan con
// product_id en NULL y su ledger se borra en cascada (política referencial).
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
