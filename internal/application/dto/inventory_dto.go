package dto

import (
	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
)

// SaleLineRequest línea de venta.
type SaleLineRequest struct {
	IDProduccion   int64           `json:"idProduccion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
}

// SaleRequest cuerpo de POST /ventas (y del archivo de `venta registrar -f`).
type SaleRequest struct {
	IDCliente    int64             `json:"idCliente"`
	MetodoPago   string            `json:"metodoPago"` // EFECTIVO, TARJETA, TRANSFERENCIA
	IDMetodoPago int64             `json:"idMetodoPago"`
	Detalles     []SaleLineRequest `json:"detalles"`
}

// ToInput convierte la petición en la entrada del caso de uso.
func (r SaleRequest) ToInput() inventory.SaleInput {
	in := inventory.SaleInput{IDCliente: r.IDCliente, MetodoPago: r.MetodoPago, IDMetodoPago: r.IDMetodoPago}
	for _, d := range r.Detalles {
		in.Lines = append(in.Lines, inventory.SaleLine{IDProduccion: d.IDProduccion, Cantidad: d.Cantidad, PrecioUnitario: d.PrecioUnitario})
	}
	return in
}

// PurchaseRequest cuerpo de POST /insumos/:id/compras. FechaCompra "YYYY-MM-DD"; vacía = hoy.
type PurchaseRequest struct {
	IDProveedor    int64           `json:"idProveedor,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	FechaCompra    string          `json:"fechaCompra,omitempty"`
}

// UsageRequest cuerpo de POST /insumos/:id/usos.
type UsageRequest struct {
	Cantidad decimal.Decimal `json:"cantidad"`
}

// StepResponse resultado de un ajuste de cantidad.
type StepResponse struct {
	ResourceType     string          `json:"resourceType"`
	ResourceID       int64           `json:"resourceId"`
	Previous         decimal.Decimal `json:"previous"`
	Target           decimal.Decimal `json:"target"`
	Status           string          `json:"status"`
	Error            string          `json:"error,omitempty"`
	ReconciliationID string          `json:"reconciliationId,omitempty"`
}

// WorkflowResponse resultado de un flujo de inventario. Warning no vacío indica
// ajustes pendientes de reconciliación.
type WorkflowResponse struct {
	SagaID            string         `json:"sagaId"`
	Workflow          string         `json:"workflow"`
	MovementCommitted bool           `json:"movementCommitted"`
	Steps             []StepResponse `json:"steps"`
	Redirect          string         `json:"redirect,omitempty"`
	Warning           string         `json:"warning,omitempty"`
}

// NewWorkflowResponse mapea el resultado del caso de uso.
func NewWorkflowResponse(res *inventory.Result, warning error) WorkflowResponse {
	out := WorkflowResponse{
		SagaID:            res.SagaID,
		Workflow:          res.Workflow,
		MovementCommitted: res.MovementCommitted,
		Steps:             make([]StepResponse, 0, len(res.Steps)),
		Redirect:          res.Navigate,
	}
	for _, s := range res.Steps {
		step := StepResponse{
			ResourceType:     s.ResourceType,
			ResourceID:       s.ResourceID,
			Previous:         s.Previous,
			Target:           s.Target,
			Status:           string(s.Status),
			ReconciliationID: s.ReconciliationID,
		}
		if s.Err != nil {
			step.Error = s.Err.Error()
		}
		out.Steps = append(out.Steps, step)
	}
	if warning != nil {
		out.Warning = warning.Error()
	}
	return out
}
