package usecase

import (
	"time"

	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// LedgerUseCase expone la consulta del registro de movimientos. El ledger es
// de solo lectura desde aquí: las escrituras ocurren únicamente dentro de las
// transacciones del motor de operaciones.
type LedgerUseCase struct {
	repo repository.LedgerRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(repo repository.LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{repo: repo}
}

// List devuelve entradas del ledger filtradas, la más reciente primero.
// Las fechas llegan como YYYY-MM-DD; DateTo es inclusivo (se corre al inicio
// del día siguiente).
func (uc *LedgerUseCase) List(in dto.ListLedgerRequest) ([]*entity.LedgerEntry, error) {
	in.DefaultPage()
	filter := repository.LedgerFilter{}
	if in.ProductID != "" && in.ProductID != "all" {
		filter.ProductID = in.ProductID
	}
	if in.Type != "" && in.Type != "all" {
		filter.Type = in.Type
	}
	if in.DateFrom != "" {
		from, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateFrom = &from
	}
	if in.DateTo != "" {
		to, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = to.AddDate(0, 0, 1)
		filter.DateTo = &to
	}
	return uc.repo.List(filter, in.Limit, in.Offset)
}

// LastByProduct devuelve la última entrada de un producto. El balance de esa
// entrada debe coincidir con el stock vivo del producto.
func (uc *LedgerUseCase) LastByProduct(productID string) (*entity.LedgerEntry, error) {
	entry, err := uc.repo.LastByProduct(productID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}
