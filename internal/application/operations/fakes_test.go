package operations_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional
//
// memStore guarda el estado y fakeTxRunner lo protege: cada Run toma el lock,
// saca una foto y la restaura si la función devuelve error, de modo que las
// transacciones quedan serializadas y con rollback, igual que contra Postgres.
// Los repos no sincronizan por su cuenta; fuera de Run los tests no concurren.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	operations map[string]*entity.Operation
	ledger     []*entity.LedgerEntry
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		operations: make(map[string]*entity.Operation),
	}
}

type storeSnapshot struct {
	products   map[string]*entity.Product
	operations map[string]*entity.Operation
	ledger     []*entity.LedgerEntry
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products:   make(map[string]*entity.Product, len(s.products)),
		operations: make(map[string]*entity.Operation, len(s.operations)),
		ledger:     make([]*entity.LedgerEntry, len(s.ledger)),
	}
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, op := range s.operations {
		cp := *op
		snap.operations[id] = &cp
	}
	copy(snap.ledger, s.ledger)
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.products = snap.products
	s.operations = snap.operations
	s.ledger = snap.ledger
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
	snap := r.store.snapshot()
	err := fn(&memOperationRepo{store: r.store}, &memLedgerRepo{store: r.store}, &memProductRepo{store: r.store})
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

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
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(p.SKU), strings.ToLower(filter.Search)) {
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
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

type memOperationRepo struct {
	store *memStore
}

func (r *memOperationRepo) Create(op *entity.Operation) error {
	cp := *op
	r.store.operations[op.ID] = &cp
	return nil
}

func (r *memOperationRepo) GetByID(id string) (*entity.Operation, error) {
	op, ok := r.store.operations[id]
	if !ok {
		return nil, nil
	}
	cp := *op
	return &cp, nil
}

func (r *memOperationRepo) GetForUpdate(id string) (*entity.Operation, error) {
	return r.GetByID(id)
}

func (r *memOperationRepo) UpdateStatus(id, status string, completedAt *time.Time) error {
	op, ok := r.store.operations[id]
	if !ok {
		return nil
	}
	op.Status = status
	if completedAt != nil {
		op.CompletedAt = completedAt
	}
	return nil
}

func (r *memOperationRepo) List(filter repository.OperationFilter, limit, offset int) ([]*entity.Operation, error) {
	var out []*entity.Operation
	for _, op := range r.store.operations {
		if filter.Type != "" && filter.Type != "all" && op.Type != filter.Type {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && op.Status != filter.Status {
			continue
		}
		cp := *op
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
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
