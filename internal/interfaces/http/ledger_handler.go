package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/application/usecase"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// LedgerHandler maneja la consulta del registro de movimientos (protegido).
type LedgerHandler struct {
	uc *usecase.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func ledgerToResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		SKU:         e.SKU,
		Type:        e.Type,
		Reference:   e.Reference,
		QuantityIn:  e.QuantityIn,
		QuantityOut: e.QuantityOut,
		Balance:     e.Balance,
		Location:    e.Location,
		Notes:       e.Notes,
		Date:        e.CreatedAt.Format("2006-01-02"),
		Time:        e.CreatedAt.Format("15:04:05"),
	}
}

// List godoc
// @Summary      Consultar el ledger de stock
// @Description  Entradas ordenadas de la más reciente a la más antigua.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  false  "Filtrar por producto (UUID)"
// @Param        type       query  string  false  "opening-stock | receipt | delivery | transfer | adjustment | all"
// @Param        dateFrom   query  string  false  "YYYY-MM-DD"
// @Param        dateTo     query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        limit      query  int     false  "Máximo de resultados (por defecto 50)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var in dto.ListLedgerRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	entries, err := h.uc.List(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas inválidas, formato esperado YYYY-MM-DD"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledgerToResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// LastByProduct godoc
// @Summary      Última entrada del ledger de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/products/{productId}/last [get]
func (h *LedgerHandler) LastByProduct(c *fiber.Ctx) error {
	entry, err := h.uc.LastByProduct(c.Params("productId"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el producto no tiene movimientos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(ledgerToResponse(entry))
}
