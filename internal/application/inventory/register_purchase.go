package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// PurchaseInput compra de un insumo. FechaCompra cero = hoy.
// IDProveedor puede omitirse si el insumo ya tiene proveedor.
type PurchaseInput struct {
	IDInsumo       int64
	IDProveedor    int64
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	FechaCompra    entity.Date
}

// RegisterPurchaseUseCase registra una compra de insumo. El backend suma la cantidad;
// el cliente solo asocia el proveedor cuando el insumo aún no tiene uno. Una vez
// asociado, el proveedor no se reasigna.
type RegisterPurchaseUseCase struct {
	insumos InsumoService
	compras CompraService
	deps    Deps
}

// NewRegisterPurchaseUseCase construye el caso de uso.
func NewRegisterPurchaseUseCase(insumos InsumoService, compras CompraService, deps Deps) *RegisterPurchaseUseCase {
	return &RegisterPurchaseUseCase{insumos: insumos, compras: compras, deps: deps.withDefaults()}
}

// Execute valida, registra el movimiento y, si corresponde, asocia el proveedor.
func (uc *RegisterPurchaseUseCase) Execute(ctx context.Context, in PurchaseInput) (*Result, error) {
	res := newResult(WorkflowCompra)
	fail := func(err error) (*Result, error) {
		uc.deps.Observer.WorkflowFinished(WorkflowCompra, outcomeOf(err))
		return res, err
	}

	user, err := uc.deps.currentUser()
	if err != nil {
		return fail(err)
	}
	if in.IDInsumo <= 0 {
		return fail(&domain.ValidationError{Field: "idInsumo", Reason: "seleccione un insumo"})
	}
	if !in.Cantidad.IsPositive() {
		return fail(&domain.ValidationError{Field: "cantidad", Reason: "debe ser mayor que cero"})
	}
	if !in.PrecioUnitario.IsPositive() {
		return fail(&domain.ValidationError{Field: "precioUnitario", Reason: "debe ser mayor que cero"})
	}

	insumo, err := uc.insumos.GetInsumo(ctx, in.IDInsumo)
	if err != nil {
		return fail(fmt.Errorf("consultar insumo %d: %w", in.IDInsumo, err))
	}

	locked := insumo.ProveedorID()
	proveedor := in.IDProveedor
	switch {
	case locked != 0 && proveedor != 0 && proveedor != locked:
		return fail(fmt.Errorf("%w: insumo %d usa el proveedor %d", domain.ErrProviderLocked, in.IDInsumo, locked))
	case locked != 0:
		proveedor = locked
	case proveedor == 0:
		return fail(&domain.ValidationError{Field: "idProveedor", Reason: "seleccione un proveedor"})
	}

	fecha := in.FechaCompra
	if fecha.IsZero() {
		fecha = entity.DateOf(uc.deps.Now())
	}
	if _, err := uc.compras.CreateCompra(ctx, entity.NuevaCompra{
		IDInsumo:       in.IDInsumo,
		IDProveedor:    proveedor,
		Cantidad:       in.Cantidad,
		PrecioUnitario: in.PrecioUnitario,
		FechaCompra:    fecha,
	}); err != nil {
		return fail(fmt.Errorf("registrar compra: %w", err))
	}
	res.MovementCommitted = true
	uc.deps.Log.Info().Str("saga_id", res.SagaID).Int64("id_insumo", in.IDInsumo).Str("cantidad", in.Cantidad.String()).Msg("compra registrada")

	if locked == 0 {
		res.Steps = append(res.Steps, uc.attachProvider(ctx, res, in.IDInsumo, proveedor, user.IDFinca))
	}

	return res, uc.deps.complete(res, PathInsumos)
}

// attachProvider relee el insumo (ya con el stock sumado por el backend) y fija el proveedor.
func (uc *RegisterPurchaseUseCase) attachProvider(ctx context.Context, res *Result, idInsumo, proveedor, idFinca int64) StepOutcome {
	item := entity.ReconciliationItem{
		ResourceType: entity.ResourceInsumo,
		ResourceID:   idInsumo,
		ProveedorID:  proveedor,
		IDFinca:      idFinca,
	}
	fresh, err := uc.insumos.GetInsumo(ctx, idInsumo)
	if err != nil {
		return uc.deps.journalFailure(ctx, res, item, err)
	}
	outcome := StepOutcome{
		ResourceType: entity.ResourceInsumo,
		ResourceID:   idInsumo,
		Previous:     fresh.CantidadDisponible,
		Target:       fresh.CantidadDisponible,
	}
	if fresh.ProveedorID() == proveedor {
		outcome.Status = StepSkipped
		return outcome
	}
	cambios := entity.CambiosDe(*fresh, idFinca)
	cambios.IDProveedor = proveedor
	if err := uc.insumos.UpdateInsumo(ctx, idInsumo, cambios); err != nil {
		item.Previous = fresh.CantidadDisponible
		item.Target = fresh.CantidadDisponible
		return uc.deps.journalFailure(ctx, res, item, err)
	}
	outcome.Status = StepApplied
	return outcome
}
