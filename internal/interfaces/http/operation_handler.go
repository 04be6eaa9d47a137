package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/application/operations"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
	"github.com/stockmaster/stockmaster-api/internal/domain/repository"
)

// OperationHandler maneja el ciclo de vida de operaciones de stock (protegido).
type OperationHandler struct {
	uc *operations.LifecycleUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *operations.LifecycleUseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

func operationToResponse(op *entity.Operation) dto.OperationResponse {
	out := dto.OperationResponse{
		ID:           op.ID,
		Type:         op.Type,
		Status:       op.Status,
		ProductID:    op.ProductID,
		ProductName:  op.ProductName,
		Quantity:     op.Quantity,
		Supplier:     op.Supplier,
		Customer:     op.Customer,
		FromLocation: op.FromLocation,
		ToLocation:   op.ToLocation,
		Notes:        op.Notes,
		CreatedAt:    op.CreatedAt.Format(time.RFC3339),
	}
	if op.CompletedAt != nil {
		out.CompletedAt = op.CompletedAt.Format(time.RFC3339)
	}
	return out
}

// mapOperationError traduce errores de dominio del motor de operaciones a HTTP.
// Usa errors.Is porque los conflictos de concurrencia llegan envueltos desde el
// runner transaccional.
func mapOperationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "operación o producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la operación no admite esa transición"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// CreateReceipt godoc
// @Summary      Crear recepción de proveedor (borrador)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "productId, productName, quantity, supplier"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/receipts [post]
func (h *OperationHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.CreateReceipt(c.Context(), in)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationToResponse(op))
}

// CreateDelivery godoc
// @Summary      Crear entrega a cliente (borrador)
// @Description  Verifica stock de forma orientativa al crear; la verificación
// @Description  definitiva ocurre al validar la operación.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "productId, productName, quantity, customer"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/deliveries [post]
func (h *OperationHandler) CreateDelivery(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.CreateDelivery(c.Context(), in)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationToResponse(op))
}

// CreateTransfer godoc
// @Summary      Crear traslado entre ubicaciones (borrador)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "productId, productName, quantity, fromLocation, toLocation"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/transfers [post]
func (h *OperationHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.CreateTransfer(c.Context(), in)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationToResponse(op))
}

// CreateAdjustment godoc
// @Summary      Crear y aplicar ajuste de inventario
// @Description  Los ajustes se aplican de inmediato: quantity es un delta con
// @Description  signo y el stock resultante se recorta a cero como mínimo.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "productId, quantity (delta con signo), notes"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/adjustments [post]
func (h *OperationHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.uc.CreateAdjustment(c.Context(), in)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationToResponse(op))
}

// Validate godoc
// @Summary      Validar una operación pendiente
// @Description  Aplica el efecto de stock y escribe la entrada del ledger en
// @Description  una sola transacción. Idempotencia por máquina de estados: una
// @Description  segunda validación devuelve 409 sin efectos.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/validate [post]
func (h *OperationHandler) Validate(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Validate(c.Context(), id); err != nil {
		return mapOperationError(c, err)
	}
	op, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.JSON(operationToResponse(op))
}

// Cancel godoc
// @Summary      Cancelar una operación pendiente
// @Description  Solo operaciones no terminales; no toca stock ni ledger.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/cancel [post]
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Cancel(c.Context(), id); err != nil {
		return mapOperationError(c, err)
	}
	op, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.JSON(operationToResponse(op))
}

// GetByID godoc
// @Summary      Obtener una operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	op, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapOperationError(c, err)
	}
	return c.JSON(operationToResponse(op))
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "receipt | delivery | transfer | adjustment | all"
// @Param        status  query  string  false  "draft | waiting | ready | done | canceled | all"
// @Param        limit   query  int     false  "Máximo de resultados (por defecto 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.OperationResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	var in dto.ListOperationsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	ops, err := h.uc.List(c.Context(), repository.OperationFilter{Type: in.Type, Status: in.Status}, in.Limit, in.Offset)
	if err != nil {
		return mapOperationError(c, err)
	}
	out := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationToResponse(op))
	}
	return c.JSON(fiber.Map{"total": len(out), "operations": out})
}
