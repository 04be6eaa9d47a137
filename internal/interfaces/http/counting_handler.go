package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stockmaster/stockmaster-api/internal/application/counting"
	"github.com/stockmaster/stockmaster-api/internal/application/dto"
	"github.com/stockmaster/stockmaster-api/internal/domain"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// CountingHandler maneja las sesiones de conteo cíclico (protegido).
type CountingHandler struct {
	uc *counting.UseCase
}

// NewCountingHandler construye el handler.
func NewCountingHandler(uc *counting.UseCase) *CountingHandler {
	return &CountingHandler{uc: uc}
}

func sessionToResponse(s *entity.CountingSession, items []*entity.SessionItem) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:            s.ID,
		Name:          s.Name,
		Warehouse:     s.Warehouse,
		Category:      s.Category,
		ItemCount:     s.ItemCount,
		Status:        s.Status,
		Discrepancies: s.Discrepancies,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if s.CompletedAt != nil {
		out.CompletedAt = s.CompletedAt.Format(time.RFC3339)
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SessionItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SKU:             it.SKU,
			Location:        it.Location,
			Unit:            it.Unit,
			SystemQuantity:  it.SystemQuantity,
			CountedQuantity: it.CountedQuantity,
			Counted:         it.Counted,
		})
	}
	return out
}

func mapCountingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la sesión no admite esa transición"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear sesión de conteo
// @Description  Congela las cantidades del sistema para los productos que
// @Description  cumplan los filtros de bodega y categoría.
// @Tags         counting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "name, warehouse (opcional), category (opcional)"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counting-sessions [post]
func (h *CountingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, items, err := h.uc.CreateSession(c.Context(), in)
	if err != nil {
		return mapCountingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionToResponse(session, items))
}

// RecordCounts godoc
// @Summary      Registrar avances de conteo sin cerrar la sesión
// @Description  Guarda conteos parciales; con el primer avance la sesión pasa
// @Description  de draft a in-progress. No calcula descuadres ni toca stock.
// @Tags         counting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.SaveSessionRequest  true  "items contados hasta ahora"
// @Success      200   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counting-sessions/{id}/items [patch]
func (h *CountingHandler) RecordCounts(c *fiber.Ctx) error {
	var in dto.SaveSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, items, err := h.uc.RecordCounts(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapCountingError(c, err)
	}
	return c.JSON(sessionToResponse(session, items))
}

// Save godoc
// @Summary      Guardar conteos y completar la sesión
// @Description  Registra las cantidades contadas, calcula los descuadres contra
// @Description  la foto del sistema y marca la sesión como completed.
// @Tags         counting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la sesión"
// @Param        body  body  dto.SaveSessionRequest  true  "items contados"
// @Success      200   {object}  dto.SaveSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counting-sessions/{id} [put]
func (h *CountingHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	discrepancies, err := h.uc.SaveSession(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapCountingError(c, err)
	}
	return c.JSON(dto.SaveSessionResponse{Discrepancies: discrepancies})
}

// Apply godoc
// @Summary      Aplicar los descuadres de una sesión completada
// @Description  Genera un ajuste de inventario por cada ítem con descuadre y
// @Description  marca la sesión como applied, todo en una transacción.
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ApplySessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counting-sessions/{id}/apply [post]
func (h *CountingHandler) Apply(c *fiber.Ctx) error {
	created, err := h.uc.ApplyDiscrepancies(c.Context(), c.Params("id"))
	if err != nil {
		return mapCountingError(c, err)
	}
	return c.JSON(dto.ApplySessionResponse{AdjustmentsCreated: created})
}

// GetByID godoc
// @Summary      Obtener una sesión de conteo con sus ítems
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counting-sessions/{id} [get]
func (h *CountingHandler) GetByID(c *fiber.Ctx) error {
	session, items, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCountingError(c, err)
	}
	return c.JSON(sessionToResponse(session, items))
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         counting
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (por defecto 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/counting-sessions [get]
func (h *CountingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	sessions, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return mapCountingError(c, err)
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionToResponse(s, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "sessions": out})
}
