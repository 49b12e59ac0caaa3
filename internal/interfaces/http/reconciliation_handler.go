package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// Reconciler operaciones sobre el diario de reconciliación.
type Reconciler interface {
	ListPending(ctx context.Context) ([]*entity.ReconciliationItem, error)
	Retry(ctx context.Context, id string) (*entity.ReconciliationItem, error)
	Dismiss(ctx context.Context, id string) error
}

// ReconciliationHandler maneja los ajustes pendientes (solo administradores).
type ReconciliationHandler struct {
	uc Reconciler
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc Reconciler) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// List godoc
// @Summary      Ajustes pendientes
// @Tags         reconciliaciones
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "total, items"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /reconciliaciones [get]
func (h *ReconciliationHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.ListPending(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReconciliationItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewReconciliationItemResponse(it))
	}
	return c.JSON(fiber.Map{
		"total": len(out),
		"items": out,
	})
}

// Retry godoc
// @Summary      Reintentar un ajuste
// @Description  Reaplica la cantidad objetivo si el recurso sigue en su valor previo.
// @Tags         reconciliaciones
// @Produce      json
// @Param        id   path  string  true  "id del ítem"
// @Success      200  {object}  dto.ReconciliationItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /reconciliaciones/{id}/reintentar [post]
func (h *ReconciliationHandler) Retry(c *fiber.Ctx) error {
	item, err := h.uc.Retry(c.Context(), c.Params("id"))
	if err != nil {
		// el ítem sigue pendiente con el intento contado
		if item != nil && !errors.Is(err, domain.ErrReconciliationStale) && !domain.IsSessionError(err) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"code":  CodeRemoteRejection,
				"error": err.Error(),
				"item":  dto.NewReconciliationItemResponse(item),
			})
		}
		return writeError(c, err)
	}
	return c.JSON(dto.NewReconciliationItemResponse(item))
}

// Dismiss godoc
// @Summary      Descartar un ajuste
// @Tags         reconciliaciones
// @Param        id   path  string  true  "id del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /reconciliaciones/{id} [delete]
func (h *ReconciliationHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.uc.Dismiss(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
