package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// SaleRegistrar registra ventas.
type SaleRegistrar interface {
	Execute(ctx context.Context, in inventory.SaleInput) (*inventory.Result, error)
}

// PurchaseRegistrar registra compras de insumos.
type PurchaseRegistrar interface {
	Execute(ctx context.Context, in inventory.PurchaseInput) (*inventory.Result, error)
}

// UsageRegistrar registra usos de insumos.
type UsageRegistrar interface {
	Execute(ctx context.Context, in inventory.UsageInput) (*inventory.Result, error)
}

// InventoryHandler maneja los flujos que mueven inventario (protegido).
type InventoryHandler struct {
	sale     SaleRegistrar
	purchase PurchaseRegistrar
	usage    UsageRegistrar
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(sale SaleRegistrar, purchase PurchaseRegistrar, usage UsageRegistrar) *InventoryHandler {
	return &InventoryHandler{sale: sale, purchase: purchase, usage: usage}
}

// RegisterSale godoc
// @Summary      Registrar venta
// @Description  Registra la venta y descuenta lo vendido de cada lote de producción.
//
//	207 = venta registrada con ajustes pendientes de reconciliación.
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "idCliente, metodoPago, detalles"
// @Success      201   {object}  dto.WorkflowResponse
// @Success      207   {object}  dto.WorkflowResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /ventas [post]
func (h *InventoryHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.sale.Execute(c.Context(), in.ToInput())
	return workflowResponse(c, res, err)
}

// RegisterPurchase godoc
// @Summary      Registrar compra de insumo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "idInsumo"
// @Param        body  body  dto.PurchaseRequest  true  "idProveedor, cantidad, precioUnitario, fechaCompra"
// @Success      201   {object}  dto.WorkflowResponse
// @Success      207   {object}  dto.WorkflowResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /insumos/{id}/compras [post]
func (h *InventoryHandler) RegisterPurchase(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body dto.PurchaseRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	in := inventory.PurchaseInput{
		IDInsumo:       id,
		IDProveedor:    body.IDProveedor,
		Cantidad:       body.Cantidad,
		PrecioUnitario: body.PrecioUnitario,
	}
	if body.FechaCompra != "" {
		fecha, err := entity.ParseDate(body.FechaCompra)
		if err != nil {
			return writeError(c, &domain.ValidationError{Field: "fechaCompra", Reason: "use el formato AAAA-MM-DD"})
		}
		in.FechaCompra = fecha
	}
	res, err := h.purchase.Execute(c.Context(), in)
	return workflowResponse(c, res, err)
}

// RegisterUsage godoc
// @Summary      Registrar uso de insumo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "idInsumo"
// @Param        body  body  dto.UsageRequest  true  "cantidad"
// @Success      201   {object}  dto.WorkflowResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /insumos/{id}/usos [post]
func (h *InventoryHandler) RegisterUsage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var body dto.UsageRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	res, err := h.usage.Execute(c.Context(), inventory.UsageInput{IDInsumo: id, Cantidad: body.Cantidad})
	return workflowResponse(c, res, err)
}

// workflowResponse 201 si todo se aplicó; 207 si el movimiento quedó registrado con
// ajustes pendientes; el error mapeado en otro caso. Una sesión perdida en un ajuste
// manda a /login aunque el movimiento se haya registrado.
func workflowResponse(c *fiber.Ctx, res *inventory.Result, err error) error {
	var partial *domain.PartialConsistencyError
	if errors.As(err, &partial) && res != nil && !domain.IsSessionError(err) {
		return c.Status(fiber.StatusMultiStatus).JSON(dto.NewWorkflowResponse(res, err))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWorkflowResponse(res, nil))
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "identificador inválido"}
	}
	return id, nil
}
