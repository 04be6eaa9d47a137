package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/application/usecase"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// quitaTildes replica el unaccent() que el repo real aplica a ambos lados de
// la búsqueda.
var quitaTildes = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func sinDiacriticos(s string) string {
	out, _, err := transform.String(quitaTildes, s)
	if err != nil {
		return s
	}
	return strings.ToLower(out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos: el caso de uso de productos solo necesita el repo de
// productos, el de ledger y un runner con rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	ledger   []*entity.LedgerEntry
}

func newMemStore() *memStore {
	return &memStore{products: make(map[string]*entity.Product)}
}

type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	products := make(map[string]*entity.Product, len(r.store.products))
	for id, p := range r.store.products {
		cp := *p
		products[id] = &cp
	}
	ledger := make([]*entity.LedgerEntry, len(r.store.ledger))
	copy(ledger, r.store.ledger)

	err := fn(nil, &memLedgerRepo{store: r.store}, &memProductRepo{store: r.store})
	if err != nil {
		r.store.products = products
		r.store.ledger = ledger
	}
	return err
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) UpdateStock(id string, stock int) error {
	if p, ok := r.store.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	all, err := r.ListAll(filter)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memProductRepo) ListAll(filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Warehouse != "" && p.Warehouse != filter.Warehouse {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(sinDiacriticos(p.Name), sinDiacriticos(filter.Search)) &&
			!strings.Contains(sinDiacriticos(p.SKU), sinDiacriticos(filter.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.Stock <= p.MinStock {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

type memLedgerRepo struct {
	store *memStore
}

func (r *memLedgerRepo) Append(e *entity.LedgerEntry) error {
	cp := *e
	r.store.ledger = append(r.store.ledger, &cp)
	return nil
}

func (r *memLedgerRepo) List(filter repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := len(r.store.ledger) - 1; i >= 0; i-- {
		e := r.store.ledger[i]
		if filter.ProductID != "" && e.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.DateFrom != nil && e.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !e.CreatedAt.Before(*filter.DateTo) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLedgerRepo) LastByProduct(productID string) (*entity.LedgerEntry, error) {
	for i := len(r.store.ledger) - 1; i >= 0; i-- {
		if r.store.ledger[i].ProductID == productID {
			cp := *r.store.ledger[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func newProductUC(seed ...*entity.Product) (*usecase.ProductUseCase, *memStore) {
	store := newMemStore()
	for _, p := range seed {
		cp := *p
		store.products[p.ID] = &cp
	}
	return usecase.NewProductUseCase(&memProductRepo{store: store}, &fakeTxRunner{store: store}), store
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConStockInicial_SiembraOpeningStock(t *testing.T) {
	uc, store := newProductUC()

	product, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Tornillo M6",
		SKU:       "TOR-M6",
		Category:  "ferretería",
		Stock:     20,
		MinStock:  5,
		Warehouse: "Bodega Central",
		Price:     decimal.NewFromFloat(150.50),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, product.Stock)

	require.Len(t, store.ledger, 1)
	entry := store.ledger[0]
	assert.Equal(t, entity.LedgerTypeOpeningStock, entry.Type)
	assert.Equal(t, "OPEN-001", entry.Reference)
	assert.Equal(t, 20, entry.QuantityIn)
	assert.Equal(t, 0, entry.QuantityOut)
	assert.Equal(t, 20, entry.Balance, "stock == último balance desde el primer día")
	assert.Equal(t, "Opening stock", entry.Notes)
	assert.Equal(t, product.ID, entry.ProductID)
}

func TestCreate_SinStockInicial_NoEscribeLedger(t *testing.T) {
	uc, store := newProductUC()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Tuerca M6", SKU: "TUE-M6",
	})
	require.NoError(t, err)
	assert.Empty(t, store.ledger)
}

func TestCreate_AplicaDefaults(t *testing.T) {
	uc, _ := newProductUC()

	product, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Arandela", SKU: "ARA-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "pcs", product.UnitOfMeasure)
	assert.Equal(t, 10, product.MinStock)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUC(&entity.Product{ID: "p1", Name: "Tornillo M6", SKU: "TOR-M6"})

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Otro tornillo", SKU: "TOR-M6",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "falta nombre")

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "falta SKU")

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// List / búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestList_BusquedaInsensibleADiacriticos(t *testing.T) {
	uc, _ := newProductUC(
		&entity.Product{ID: "p1", Name: "Cinta de embalaje", SKU: "CIN-01"},
		&entity.Product{ID: "p2", Name: "Candado almacen", SKU: "CAN-01"},
		&entity.Product{ID: "p3", Name: "Candado almacén", SKU: "CAN-02"},
	)

	// Las tildes no cuentan en ninguno de los dos lados: "almacén" y "almacen"
	// encuentran tanto el nombre guardado con tilde como el guardado sin ella.
	for _, search := range []string{"almacén", "almacen"} {
		products, err := uc.List(dto.ListProductsRequest{Search: search})
		require.NoError(t, err)
		require.Len(t, products, 2, "búsqueda %q", search)
		assert.Equal(t, "p2", products[0].ID)
		assert.Equal(t, "p3", products[1].ID)
	}
}

func TestList_FiltroCategoriaAllNoFiltra(t *testing.T) {
	p1 := &entity.Product{ID: "p1", Name: "A", SKU: "A", Category: "ferretería"}
	p2 := &entity.Product{ID: "p2", Name: "B", SKU: "B", Category: "empaque"}
	uc, _ := newProductUC(p1, p2)

	products, err := uc.List(dto.ListProductsRequest{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = uc.List(dto.ListProductsRequest{Category: "empaque"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_NoTocaStock(t *testing.T) {
	uc, store := newProductUC(&entity.Product{
		ID: "p1", Name: "Tornillo M6", SKU: "TOR-M6", Stock: 42, MinStock: 10,
	})

	nuevoNombre := "Tornillo M6 zincado"
	nuevoMin := 15
	product, err := uc.Update("p1", dto.UpdateProductRequest{
		Name: &nuevoNombre, MinStock: &nuevoMin,
	})
	require.NoError(t, err)

	assert.Equal(t, "Tornillo M6 zincado", product.Name)
	assert.Equal(t, 15, product.MinStock)
	assert.Equal(t, 42, store.products["p1"].Stock, "el stock solo lo escribe el motor de operaciones")
}

func TestUpdate_SKUEnConflicto(t *testing.T) {
	uc, _ := newProductUC(
		&entity.Product{ID: "p1", Name: "A", SKU: "SKU-A"},
		&entity.Product{ID: "p2", Name: "B", SKU: "SKU-B"},
	)

	skuB := "SKU-B"
	_, err := uc.Update("p1", dto.UpdateProductRequest{SKU: &skuB})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_Inexistente(t *testing.T) {
	uc, _ := newProductUC()
	nombre := "X"
	_, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	uc, store := newProductUC(&entity.Product{ID: "p1", Name: "A", SKU: "A"})

	require.NoError(t, uc.Delete("p1"))
	assert.Empty(t, store.products)

	assert.ErrorIs(t, uc.Delete("p1"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListLowStock
// ──────────────────────────────────────────────────────────────────────────────

func TestListLowStock(t *testing.T) {
	uc, _ := newProductUC(
		&entity.Product{ID: "p1", Name: "A", SKU: "A", Stock: 3, MinStock: 10},
		&entity.Product{ID: "p2", Name: "B", SKU: "B", Stock: 10, MinStock: 10},
		&entity.Product{ID: "p3", Name: "C", SKU: "C", Stock: 50, MinStock: 10},
	)

	products, err := uc.ListLowStock()
	require.NoError(t, err)
	require.Len(t, products, 2, "en o por debajo del punto de reorden")
	assert.Equal(t, "p1", products[0].ID, "el más crítico primero")
}

// sanity: los timestamps del producto se setean al crear.
func TestCreate_Timestamps(t *testing.T) {
	uc, _ := newProductUC()
	before := time.Now().Add(-time.Second)

	product, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "X", SKU: "X"})
	require.NoError(t, err)
	assert.True(t, product.CreatedAt.After(before))
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)
}
