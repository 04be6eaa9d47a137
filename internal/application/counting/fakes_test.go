package counting_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (ver operations/fakes_test.go)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	operations map[string]*entity.Operation
	ledger     []*entity.LedgerEntry
	sessions   map[string]*entity.CountingSession
	items      []*entity.SessionItem
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		operations: make(map[string]*entity.Operation),
		sessions:   make(map[string]*entity.CountingSession),
	}
}

type storeSnapshot struct {
	products   map[string]*entity.Product
	operations map[string]*entity.Operation
	ledger     []*entity.LedgerEntry
	sessions   map[string]*entity.CountingSession
	items      []*entity.SessionItem
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products:   make(map[string]*entity.Product, len(s.products)),
		operations: make(map[string]*entity.Operation, len(s.operations)),
		ledger:     make([]*entity.LedgerEntry, len(s.ledger)),
		sessions:   make(map[string]*entity.CountingSession, len(s.sessions)),
		items:      make([]*entity.SessionItem, len(s.items)),
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
	for id, sess := range s.sessions {
		cp := *sess
		snap.sessions[id] = &cp
	}
	for i, item := range s.items {
		cp := *item
		snap.items[i] = &cp
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.products = snap.products
	s.operations = snap.operations
	s.ledger = snap.ledger
	s.sessions = snap.sessions
	s.items = snap.items
}

type fakeCountingTxRunner struct {
	store *memStore
}

func (r *fakeCountingTxRunner) RunCounting(ctx context.Context, fn func(
	sessionRepo repository.CountingSessionRepository,
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&memSessionRepo{store: r.store},
		&memOperationRepo{store: r.store},
		&memLedgerRepo{store: r.store},
		&memProductRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// fakeTxRunner satisface operations.TxRunner para construir el motor de
// operaciones que actúa como adjuster en estos tests.
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

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) Create(session *entity.CountingSession) error {
	cp := *session
	r.store.sessions[session.ID] = &cp
	return nil
}

func (r *memSessionRepo) GetByID(id string) (*entity.CountingSession, error) {
	s, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) GetForUpdate(id string) (*entity.CountingSession, error) {
	return r.GetByID(id)
}

func (r *memSessionRepo) UpdateStatus(id, status string, discrepancies int, completedAt *time.Time) error {
	s, ok := r.store.sessions[id]
	if !ok {
		return nil
	}
	s.Status = status
	s.Discrepancies = discrepancies
	s.CompletedAt = completedAt
	return nil
}

func (r *memSessionRepo) List(limit, offset int) ([]*entity.CountingSession, error) {
	var out []*entity.CountingSession
	for _, s := range r.store.sessions {
		cp := *s
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

func (r *memSessionRepo) AddItem(item *entity.SessionItem) error {
	cp := *item
	r.store.items = append(r.store.items, &cp)
	return nil
}

func (r *memSessionRepo) ListItems(sessionID string) ([]*entity.SessionItem, error) {
	var out []*entity.SessionItem
	for _, item := range r.store.items {
		if item.SessionID == sessionID {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSessionRepo) UpdateItemCount(sessionID, productID string, countedQuantity *int, counted bool) error {
	for _, item := range r.store.items {
		if item.SessionID == sessionID && item.ProductID == productID {
			item.CountedQuantity = countedQuantity
			item.Counted = counted
		}
	}
	return nil
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
	return r.ListAll(filter)
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
		cp := *r.store.ledger[i]
		out = append(out, &cp)
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
