package operations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// LifecycleUseCase es el motor del ciclo de vida de operaciones de stock:
// creación de borradores (receipt/delivery/transfer), ajustes inmediatos,
// validación y cancelación.
//
// Toda mutación de products.stock o inserción en stock_ledger pasa por aquí y
// ocurre dentro de una transacción del TxRunner, con la fila del producto
// bloqueada (SELECT FOR UPDATE). La verificación de stock al crear una entrega
// es solo informativa para la UI; la autoritativa es la que corre dentro de la
// transacción de Validate.
type LifecycleUseCase struct {
	txRunner    TxRunner
	opRepo      repository.OperationRepository
	productRepo repository.ProductRepository
}

// NewLifecycleUseCase construye el motor.
func NewLifecycleUseCase(
	txRunner TxRunner,
	opRepo repository.OperationRepository,
	productRepo repository.ProductRepository,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:    txRunner,
		opRepo:      opRepo,
		productRepo: productRepo,
	}
}

// CreateReceipt crea una recepción en borrador. No toca stock ni ledger.
func (uc *LifecycleUseCase) CreateReceipt(ctx context.Context, in dto.CreateReceiptRequest) (*entity.Operation, error) {
	if in.ProductID == "" || in.ProductName == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	op := &entity.Operation{
		ID:          uuid.New().String(),
		Type:        entity.OperationTypeReceipt,
		Status:      entity.OperationStatusDraft,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Supplier:    in.Supplier,
		CreatedAt:   time.Now(),
	}
	if err := uc.opRepo.Create(op); err != nil {
		return nil, err
	}
	return op, nil
}

// CreateDelivery crea una entrega en borrador. Verifica que el producto exista
// y que el stock alcance, pero esa verificación es solo de cortesía: el stock
// puede cambiar entre la creación y la validación, y es Validate quien decide
// bajo la transacción.
func (uc *LifecycleUseCase) CreateDelivery(ctx context.Context, in dto.CreateDeliveryRequest) (*entity.Operation, error) {
	if in.ProductID == "" || in.ProductName == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Stock < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	op := &entity.Operation{
		ID:          uuid.New().String(),
		Type:        entity.OperationTypeDelivery,
		Status:      entity.OperationStatusDraft,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Customer:    in.Customer,
		CreatedAt:   time.Now(),
	}
	if err := uc.opRepo.Create(op); err != nil {
		return nil, err
	}
	return op, nil
}

// CreateTransfer crea un traslado en borrador. El modelo no particiona stock
// por ubicación, así que un traslado nunca cambia el total: no hay
// verificación de stock aquí y su validación solo deja constancia en el ledger.
func (uc *LifecycleUseCase) CreateTransfer(ctx context.Context, in dto.CreateTransferRequest) (*entity.Operation, error) {
	if in.ProductID == "" || in.ProductName == "" || in.Quantity <= 0 ||
		in.FromLocation == "" || in.ToLocation == "" {
		return nil, domain.ErrInvalidInput
	}
	op := &entity.Operation{
		ID:           uuid.New().String(),
		Type:         entity.OperationTypeTransfer,
		Status:       entity.OperationStatusDraft,
		ProductID:    in.ProductID,
		ProductName:  in.ProductName,
		Quantity:     in.Quantity,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		CreatedAt:    time.Now(),
	}
	if err := uc.opRepo.Create(op); err != nil {
		return nil, err
	}
	return op, nil
}

// CreateAdjustment aplica un ajuste de inmediato: en una sola transacción lee
// el stock con la fila bloqueada, lo ajusta con clamp a cero, inserta la
// operación ya en done y agrega la entrada del ledger.
func (uc *LifecycleUseCase) CreateAdjustment(ctx context.Context, in dto.CreateAdjustmentRequest) (*entity.Operation, error) {
	if in.ProductID == "" || in.ProductName == "" || in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	var op *entity.Operation
	err := uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		op, err = uc.ApplyAdjustmentInTx(opRepo, ledgerRepo, productRepo,
			in.ProductID, in.ProductName, in.Quantity, in.Notes, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// ApplyAdjustmentInTx ejecuta un ajuste usando los repositorios proporcionados
// (misma transacción del caller). Lo usa CreateAdjustment y también el motor de
// conteo al aplicar descuadres, para que el stock y el ledger solo se escriban
// dentro de la frontera transaccional de este motor.
func (uc *LifecycleUseCase) ApplyAdjustmentInTx(
	opRepo repository.OperationRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	productID, productName string,
	delta int,
	notes string,
	now time.Time,
) (*entity.Operation, error) {
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// Clamp a cero: un delta negativo mayor que el stock deja 0, pero la
	// operación y el ledger registran el delta solicitado, no el efectivo.
	newStock := max(0, product.Stock+delta)
	if err := productRepo.UpdateStock(productID, newStock); err != nil {
		return nil, err
	}
	op := &entity.Operation{
		ID:          uuid.New().String(),
		Type:        entity.OperationTypeAdjustment,
		Status:      entity.OperationStatusDone,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    delta,
		Notes:       notes,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if err := opRepo.Create(op); err != nil {
		return nil, err
	}
	err = ledgerRepo.Append(&entity.LedgerEntry{
		ID:          uuid.New().String(),
		ProductID:   productID,
		ProductName: productName,
		SKU:         product.SKU,
		Type:        entity.OperationTypeAdjustment,
		Reference:   "ADJ-" + op.ID,
		QuantityIn:  max(delta, 0),
		QuantityOut: max(-delta, 0),
		Balance:     newStock,
		Location:    product.Warehouse,
		Notes:       notes,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Validate completa una operación en borrador: en una sola transacción bloquea
// la operación y el producto, re-verifica el stock (entregas), persiste el
// nuevo stock, marca la operación como done y agrega la entrada del ledger.
//
// El guard de estado corre con la fila de la operación bloqueada: de dos
// validaciones concurrentes del mismo id solo una gana; la otra ve el estado
// terminal y recibe ErrInvalidState sin aplicar nada dos veces.
func (uc *LifecycleUseCase) Validate(ctx context.Context, operationID string) error {
	return uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		op, err := opRepo.GetForUpdate(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.CanTransition(entity.OperationStatusDone) {
			return domain.ErrInvalidState
		}
		product, err := productRepo.GetForUpdate(op.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newStock := product.Stock
		switch op.Type {
		case entity.OperationTypeReceipt:
			newStock += op.Quantity
		case entity.OperationTypeDelivery:
			if product.Stock < op.Quantity {
				return domain.ErrInsufficientStock
			}
			newStock -= op.Quantity
		case entity.OperationTypeTransfer:
			// El total no cambia: el traslado solo deja rastro en el ledger.
		default:
			// Los ajustes nacen en done y nunca llegan aquí.
			return domain.ErrInvalidState
		}

		if err := productRepo.UpdateStock(op.ProductID, newStock); err != nil {
			return err
		}
		now := time.Now()
		if err := opRepo.UpdateStatus(op.ID, entity.OperationStatusDone, &now); err != nil {
			return err
		}

		var in, out int
		if op.Type == entity.OperationTypeReceipt {
			in = op.Quantity
		}
		if op.Type == entity.OperationTypeDelivery {
			out = op.Quantity
		}
		return ledgerRepo.Append(&entity.LedgerEntry{
			ID:          uuid.New().String(),
			ProductID:   op.ProductID,
			ProductName: op.ProductName,
			SKU:         product.SKU,
			Type:        op.Type,
			Reference:   operationReference(op),
			QuantityIn:  in,
			QuantityOut: out,
			Balance:     newStock,
			Location:    product.Warehouse,
			Notes:       ledgerNotes(op),
			CreatedAt:   now,
		})
	})
}

// Cancel marca una operación como cancelada. Solo operaciones no terminales:
// cancelar algo ya hecho dejaría el ledger contando un movimiento "cancelado".
func (uc *LifecycleUseCase) Cancel(ctx context.Context, operationID string) error {
	return uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		_ repository.LedgerRepository,
		_ repository.ProductRepository,
	) error {
		op, err := opRepo.GetForUpdate(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if !op.CanTransition(entity.OperationStatusCanceled) {
			return domain.ErrInvalidState
		}
		return opRepo.UpdateStatus(op.ID, entity.OperationStatusCanceled, nil)
	})
}

// List devuelve operaciones con filtros opcionales de tipo y estado.
func (uc *LifecycleUseCase) List(ctx context.Context, filter repository.OperationFilter, limit, offset int) ([]*entity.Operation, error) {
	return uc.opRepo.List(filter, limit, offset)
}

// Get devuelve una operación por id.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*entity.Operation, error) {
	op, err := uc.opRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// operationReference arma el código legible del ledger: las tres primeras
// letras del tipo en mayúscula más el id de la operación (REC-, DEL-, TRA-).
func operationReference(op *entity.Operation) string {
	return strings.ToUpper(op.Type[:3]) + "-" + op.ID
}

// ledgerNotes arma la nota de la entrada según el tipo de operación.
func ledgerNotes(op *entity.Operation) string {
	switch op.Type {
	case entity.OperationTypeReceipt:
		return "Supplier: " + orNA(op.Supplier)
	case entity.OperationTypeDelivery:
		return "Customer: " + orNA(op.Customer)
	case entity.OperationTypeTransfer:
		return fmt.Sprintf("Transfer: %s to %s", orNA(op.FromLocation), orNA(op.ToLocation))
	}
	return ""
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
