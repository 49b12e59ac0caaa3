package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/inventory"
)

// UsageInput uso (consumo) de un insumo.
type UsageInput struct {
	IDInsumo int64
	Cantidad decimal.Decimal
}

// RegisterSupplyUsageUseCase registra el uso de un insumo. El backend descuenta la
// cantidad en la misma escritura, así que no hay paso posterior que compensar.
type RegisterSupplyUsageUseCase struct {
	insumos InsumoService
	deps    Deps
}

// NewRegisterSupplyUsageUseCase construye el caso de uso.
func NewRegisterSupplyUsageUseCase(insumos InsumoService, deps Deps) *RegisterSupplyUsageUseCase {
	return &RegisterSupplyUsageUseCase{insumos: insumos, deps: deps.withDefaults()}
}

// Execute valida contra la cantidad disponible y registra el uso.
func (uc *RegisterSupplyUsageUseCase) Execute(ctx context.Context, in UsageInput) (*Result, error) {
	res := newResult(WorkflowUso)
	fail := func(err error) (*Result, error) {
		uc.deps.Observer.WorkflowFinished(WorkflowUso, outcomeOf(err))
		return res, err
	}

	if _, err := uc.deps.currentUser(); err != nil {
		return fail(err)
	}
	if in.IDInsumo <= 0 {
		return fail(&domain.ValidationError{Field: "idInsumo", Reason: "seleccione un insumo"})
	}
	if !in.Cantidad.IsPositive() {
		return fail(&domain.ValidationError{Field: "cantidad", Reason: "debe ser mayor que cero"})
	}

	insumo, err := uc.insumos.GetInsumo(ctx, in.IDInsumo)
	if err != nil {
		return fail(fmt.Errorf("consultar insumo %d: %w", in.IDInsumo, err))
	}
	if !inventory.Covers(insumo.CantidadDisponible, in.Cantidad) {
		return fail(&domain.ValidationError{
			Field:     "cantidad",
			Available: insumo.CantidadDisponible.String(),
			Reason:    domain.ErrInsufficientStock.Error() + " de " + insumo.Nombre,
		})
	}

	if err := uc.insumos.RegisterSupplyUsage(ctx, in.IDInsumo, in.Cantidad); err != nil {
		return fail(fmt.Errorf("registrar uso: %w", err))
	}
	res.MovementCommitted = true
	res.Steps = append(res.Steps, StepOutcome{
		ResourceType: entity.ResourceInsumo,
		ResourceID:   in.IDInsumo,
		Previous:     insumo.CantidadDisponible,
		Target:       inventory.ClampedSubtract(insumo.CantidadDisponible, in.Cantidad),
		Status:       StepApplied,
	})
	uc.deps.Log.Info().Str("saga_id", res.SagaID).Int64("id_insumo", in.IDInsumo).Str("cantidad", in.Cantidad.String()).Msg("uso de insumo registrado")

	return res, uc.deps.complete(res, PathInsumos)
}
