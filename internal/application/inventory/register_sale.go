package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/inventory"
)

// SaleLine línea de venta contra un lote de producción.
type SaleLine struct {
	IDProduccion   int64
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// SaleInput venta a registrar. Loaded son los lotes ya cargados por el llamador;
// los que falten se consultan al backend antes de validar.
type SaleInput struct {
	IDCliente    int64
	MetodoPago   string // EFECTIVO, TARJETA, TRANSFERENCIA u otro
	IDMetodoPago int64
	Lines        []SaleLine
	Loaded       map[int64]entity.Produccion
}

// RegisterSaleUseCase registra una venta y descuenta la cantidad cosechada de cada lote.
//
// Orden: validación local, movimiento (venta con detalles), y solo si el movimiento
// se confirmó, un ajuste absoluto por lote. Un ajuste fallido no revierte la venta:
// queda en el diario de reconciliación y se devuelve *domain.PartialConsistencyError.
type RegisterSaleUseCase struct {
	produccion ProduccionService
	ventas     VentaService
	deps       Deps
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(produccion ProduccionService, ventas VentaService, deps Deps) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{produccion: produccion, ventas: ventas, deps: deps.withDefaults()}
}

// lotPlan ajuste calculado para un lote (todas sus líneas agregadas).
type lotPlan struct {
	lot      entity.Produccion
	quantity decimal.Decimal
	target   decimal.Decimal
}

// Execute ejecuta el flujo completo. Con error de validación o de movimiento el Result
// tiene MovementCommitted=false y no se emitió ningún ajuste.
func (uc *RegisterSaleUseCase) Execute(ctx context.Context, in SaleInput) (*Result, error) {
	res := newResult(WorkflowVenta)

	user, err := uc.deps.currentUser()
	if err != nil {
		uc.deps.Observer.WorkflowFinished(WorkflowVenta, outcomeOf(err))
		return res, err
	}

	plans, err := uc.plan(ctx, in)
	if err != nil {
		uc.deps.Observer.WorkflowFinished(WorkflowVenta, outcomeOf(err))
		return res, err
	}

	// Movimiento: cantidades y precios originales.
	detalles := make([]entity.DetalleVenta, 0, len(in.Lines))
	lines := make([]inventory.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		detalles = append(detalles, entity.DetalleVenta{IDProduccion: l.IDProduccion, Cantidad: l.Cantidad, PrecioUnitario: l.PrecioUnitario})
		lines = append(lines, inventory.Line{Quantity: l.Cantidad, UnitPrice: l.PrecioUnitario})
	}
	venta := entity.NuevaVenta{
		IDCliente:    in.IDCliente,
		IDPersona:    user.ID,
		IDFinca:      user.IDFinca,
		MetodoPago:   entity.MetodoPagoNombre(in.MetodoPago),
		IDMetodoPago: in.IDMetodoPago,
		Total:        inventory.Total(lines),
		Detalles:     detalles,
	}
	if _, err := uc.ventas.CreateVenta(ctx, venta); err != nil {
		uc.deps.Observer.WorkflowFinished(WorkflowVenta, outcomeOf(err))
		return res, fmt.Errorf("registrar venta: %w", err)
	}
	res.MovementCommitted = true
	uc.deps.Log.Info().Str("saga_id", res.SagaID).Int64("id_cliente", in.IDCliente).Str("total", venta.Total.String()).Msg("venta registrada")

	// Ajustes: secuenciales, en orden de aparición; un fallo no detiene los demás.
	today := entity.DateOf(uc.deps.Now()).Day()
	for _, p := range plans {
		fecha := p.lot.FechaCosecha.Day()
		if fecha == "" {
			fecha = today
		}
		err := uc.produccion.Cosechar(ctx, p.lot.IDProduccion, p.target, fecha)
		if err != nil {
			res.Steps = append(res.Steps, uc.deps.journalFailure(ctx, res, entity.ReconciliationItem{
				ResourceType: entity.ResourceProduccion,
				ResourceID:   p.lot.IDProduccion,
				Previous:     p.lot.CantidadCosechada,
				Target:       p.target,
				RefDate:      fecha,
				IDFinca:      user.IDFinca,
			}, err))
			continue
		}
		res.Steps = append(res.Steps, StepOutcome{
			ResourceType: entity.ResourceProduccion,
			ResourceID:   p.lot.IDProduccion,
			Previous:     p.lot.CantidadCosechada,
			Target:       p.target,
			Status:       StepApplied,
		})
	}

	return res, uc.deps.complete(res, PathVentas)
}

// plan valida las líneas y calcula la nueva cantidad de cada lote.
// Solo hace lecturas (lotes no cargados); ninguna escritura.
func (uc *RegisterSaleUseCase) plan(ctx context.Context, in SaleInput) ([]lotPlan, error) {
	if in.IDCliente <= 0 {
		return nil, &domain.ValidationError{Field: "idCliente", Reason: "seleccione un cliente"}
	}
	if len(in.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "detalles", Reason: "agregue al menos un producto"}
	}
	for i, l := range in.Lines {
		if l.IDProduccion <= 0 {
			return nil, &domain.ValidationError{Line: i + 1, Field: "idProduccion", Reason: "seleccione una producción"}
		}
		if !l.Cantidad.IsPositive() {
			return nil, &domain.ValidationError{Line: i + 1, Field: "cantidad", Reason: "debe ser mayor que cero"}
		}
		if !l.PrecioUnitario.IsPositive() {
			return nil, &domain.ValidationError{Line: i + 1, Field: "precioUnitario", Reason: "debe ser mayor que cero"}
		}
	}

	var order []int64
	byLot := map[int64]*lotPlan{}
	for i, l := range in.Lines {
		p, ok := byLot[l.IDProduccion]
		if !ok {
			lot, err := uc.lookup(ctx, in.Loaded, l.IDProduccion)
			if err != nil {
				return nil, err
			}
			p = &lotPlan{lot: *lot, quantity: decimal.Zero}
			byLot[l.IDProduccion] = p
			order = append(order, l.IDProduccion)
		}
		p.quantity = p.quantity.Add(l.Cantidad)
		if !inventory.Covers(p.lot.CantidadCosechada, p.quantity) {
			return nil, &domain.ValidationError{
				Line:      i + 1,
				Field:     "cantidad",
				Available: p.lot.CantidadCosechada.String(),
				Reason:    fmt.Sprintf("la cantidad supera lo disponible de la producción %d", l.IDProduccion),
			}
		}
	}

	plans := make([]lotPlan, 0, len(order))
	for _, id := range order {
		p := byLot[id]
		p.target = inventory.ClampedSubtract(p.lot.CantidadCosechada, p.quantity)
		plans = append(plans, *p)
	}
	return plans, nil
}

func (uc *RegisterSaleUseCase) lookup(ctx context.Context, loaded map[int64]entity.Produccion, id int64) (*entity.Produccion, error) {
	if lot, ok := loaded[id]; ok {
		return &lot, nil
	}
	lot, err := uc.produccion.GetProduccion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultar producción %d: %w", id, err)
	}
	return lot, nil
}
