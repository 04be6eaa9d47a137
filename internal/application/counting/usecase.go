package counting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// UseCase es el motor de sesiones de conteo cíclico: congela cantidades del
// sistema en ítems de sesión, recibe conteos físicos y calcula descuadres.
//
// Guardar una sesión no toca stock ni ledger; la reconciliación es un paso
// aparte (ApplyDiscrepancies) que delega cada ajuste en el motor de
// operaciones dentro de una misma transacción.
type UseCase struct {
	txRunner    CountingTxRunner
	adjuster    Adjuster
	sessionRepo repository.CountingSessionRepository
}

// NewUseCase construye el motor de conteo.
func NewUseCase(txRunner CountingTxRunner, adjuster Adjuster, sessionRepo repository.CountingSessionRepository) *UseCase {
	return &UseCase{txRunner: txRunner, adjuster: adjuster, sessionRepo: sessionRepo}
}

// CreateSession crea una sesión y congela en sus ítems el stock actual de
// todos los productos que cumplen los filtros, todo en una transacción. La
// foto no sigue los cambios posteriores del stock vivo.
func (uc *UseCase) CreateSession(ctx context.Context, in dto.CreateSessionRequest) (*entity.CountingSession, []*entity.SessionItem, error) {
	if in.Name == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	session := &entity.CountingSession{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Warehouse: in.Warehouse,
		Category:  in.Category,
		Status:    entity.SessionStatusDraft,
		CreatedAt: time.Now(),
	}
	var items []*entity.SessionItem
	err := uc.txRunner.RunCounting(ctx, func(
		sessionRepo repository.CountingSessionRepository,
		_ repository.OperationRepository,
		_ repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		filter := repository.ProductFilter{Warehouse: in.Warehouse}
		if in.Category != "" && in.Category != "all" {
			filter.Category = in.Category
		}
		products, err := productRepo.ListAll(filter)
		if err != nil {
			return err
		}
		session.ItemCount = len(products)
		if err := sessionRepo.Create(session); err != nil {
			return err
		}
		for _, p := range products {
			item := &entity.SessionItem{
				ID:             uuid.New().String(),
				SessionID:      session.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				SKU:            p.SKU,
				Location:       p.Location,
				Unit:           p.UnitOfMeasure,
				SystemQuantity: p.Stock,
			}
			if err := sessionRepo.AddItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return session, items, nil
}

// RecordCounts guarda conteos parciales sin cerrar la sesión: con el primer
// avance la sesión pasa de draft a in-progress y ahí se queda hasta que
// SaveSession la complete. No calcula descuadres ni toca stock o ledger.
func (uc *UseCase) RecordCounts(ctx context.Context, sessionID string, in dto.SaveSessionRequest) (*entity.CountingSession, []*entity.SessionItem, error) {
	var (
		session *entity.CountingSession
		items   []*entity.SessionItem
	)
	err := uc.txRunner.RunCounting(ctx, func(
		sessionRepo repository.CountingSessionRepository,
		_ repository.OperationRepository,
		_ repository.LedgerRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		session, err = sessionRepo.GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status == entity.SessionStatusCompleted || session.Status == entity.SessionStatusApplied {
			return domain.ErrInvalidState
		}
		for _, item := range in.Items {
			if err := sessionRepo.UpdateItemCount(sessionID, item.ProductID, item.CountedQuantity, item.Counted); err != nil {
				return err
			}
		}
		if session.Status == entity.SessionStatusDraft {
			if err := sessionRepo.UpdateStatus(sessionID, entity.SessionStatusInProgress, session.Discrepancies, nil); err != nil {
				return err
			}
			session.Status = entity.SessionStatusInProgress
		}
		items, err = sessionRepo.ListItems(sessionID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return session, items, nil
}

// SaveSession registra los conteos físicos y cierra la sesión (desde draft o
// in-progress). El descuadre de cada ítem se calcula contra la foto almacenada
// (system_quantity), nunca contra valores que eche de vuelta el cliente. No
// muta stock ni ledger.
func (uc *UseCase) SaveSession(ctx context.Context, sessionID string, in dto.SaveSessionRequest) (int, error) {
	var discrepancies int
	err := uc.txRunner.RunCounting(ctx, func(
		sessionRepo repository.CountingSessionRepository,
		_ repository.OperationRepository,
		_ repository.LedgerRepository,
		_ repository.ProductRepository,
	) error {
		session, err := sessionRepo.GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status == entity.SessionStatusCompleted || session.Status == entity.SessionStatusApplied {
			return domain.ErrInvalidState
		}
		for _, item := range in.Items {
			if err := sessionRepo.UpdateItemCount(sessionID, item.ProductID, item.CountedQuantity, item.Counted); err != nil {
				return err
			}
		}
		items, err := sessionRepo.ListItems(sessionID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.HasDiscrepancy() {
				discrepancies++
			}
		}
		now := time.Now()
		return sessionRepo.UpdateStatus(sessionID, entity.SessionStatusCompleted, discrepancies, &now)
	})
	if err != nil {
		return 0, err
	}
	return discrepancies, nil
}

// ApplyDiscrepancies convierte los descuadres de una sesión completada en
// ajustes de inventario (delta = contado - sistema) y pasa la sesión a
// applied. Todo o nada: si un ajuste falla, ninguno queda aplicado.
//
// El sistema original insinúa esta acción en la UI pero no la implementa en el
// backend; aquí se completa el flujo de conteo con ella.
func (uc *UseCase) ApplyDiscrepancies(ctx context.Context, sessionID string) (int, error) {
	var applied int
	err := uc.txRunner.RunCounting(ctx, func(
		sessionRepo repository.CountingSessionRepository,
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		session, err := sessionRepo.GetForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status != entity.SessionStatusCompleted {
			return domain.ErrInvalidState
		}
		items, err := sessionRepo.ListItems(sessionID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, item := range items {
			if !item.HasDiscrepancy() {
				continue
			}
			delta := *item.CountedQuantity - item.SystemQuantity
			notes := fmt.Sprintf("Cycle count %q", session.Name)
			if _, err := uc.adjuster.ApplyAdjustmentInTx(
				opRepo, ledgerRepo, productRepo,
				item.ProductID, item.ProductName, delta, notes, now,
			); err != nil {
				return err
			}
			applied++
		}
		return sessionRepo.UpdateStatus(sessionID, entity.SessionStatusApplied, session.Discrepancies, session.CompletedAt)
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// Get devuelve una sesión con sus ítems.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.CountingSession, []*entity.SessionItem, error) {
	session, err := uc.sessionRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.sessionRepo.ListItems(id)
	if err != nil {
		return nil, nil, err
	}
	return session, items, nil
}

// List devuelve las sesiones más recientes primero.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.CountingSession, error) {
	return uc.sessionRepo.List(limit, offset)
}
