package inventory

import (
	"context"
	"fmt"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/repository"
)

// ReconcileUseCase gestiona los ajustes pendientes del diario.
type ReconcileUseCase struct {
	journal    repository.ReconciliationRepository
	produccion ProduccionService
	insumos    InsumoService
	deps       Deps
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(journal repository.ReconciliationRepository, produccion ProduccionService, insumos InsumoService, deps Deps) *ReconcileUseCase {
	return &ReconcileUseCase{journal: journal, produccion: produccion, insumos: insumos, deps: deps.withDefaults()}
}

// ListPending ítems pendientes, más antiguos primero.
func (uc *ReconcileUseCase) ListPending(ctx context.Context) ([]*entity.ReconciliationItem, error) {
	return uc.journal.ListPending(ctx)
}

// Retry relee el recurso y reaplica el objetivo absoluto si sigue en el estado previo.
// Si el recurso ya está en el objetivo se marca resuelto; si cambió por otra vía
// devuelve domain.ErrReconciliationStale y el ítem sigue pendiente.
func (uc *ReconcileUseCase) Retry(ctx context.Context, id string) (*entity.ReconciliationItem, error) {
	if _, err := uc.deps.currentUser(); err != nil {
		return nil, err
	}
	item, err := uc.journal.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != entity.ReconciliationPending {
		return nil, fmt.Errorf("%w: el ítem %s está %s", domain.ErrInvalidInput, id, item.Status)
	}

	var applyErr error
	switch item.ResourceType {
	case entity.ResourceProduccion:
		applyErr = uc.retryProduccion(ctx, item)
	case entity.ResourceInsumo:
		applyErr = uc.retryInsumo(ctx, item)
	default:
		return nil, fmt.Errorf("%w: tipo de recurso %q", domain.ErrInvalidInput, item.ResourceType)
	}

	log := uc.deps.Log.Zerolog().With().Str("reconciliation_id", id).Str("saga_id", item.SagaID).Logger()
	if applyErr != nil {
		item.Attempts++
		item.LastError = applyErr.Error()
		item.UpdatedAt = uc.deps.Now()
		if err := uc.journal.Save(ctx, item); err != nil {
			return nil, fmt.Errorf("actualizar ítem %s: %w", id, err)
		}
		log.Warn().Err(applyErr).Int("attempts", item.Attempts).Msg("reintento de reconciliación fallido")
		return item, applyErr
	}

	if err := uc.journal.MarkResolved(ctx, id, entity.ReconciliationResolved); err != nil {
		return nil, err
	}
	item.Status = entity.ReconciliationResolved
	item.UpdatedAt = uc.deps.Now()
	log.Info().Msg("ajuste de inventario reconciliado")
	return item, nil
}

func (uc *ReconcileUseCase) retryProduccion(ctx context.Context, item *entity.ReconciliationItem) error {
	lot, err := uc.produccion.GetProduccion(ctx, item.ResourceID)
	if err != nil {
		return fmt.Errorf("consultar producción %d: %w", item.ResourceID, err)
	}
	switch {
	case lot.CantidadCosechada.Equal(item.Target):
		return nil
	case lot.CantidadCosechada.Equal(item.Previous):
		fecha := item.RefDate
		if fecha == "" {
			fecha = entity.DateOf(uc.deps.Now()).Day()
		}
		return uc.produccion.Cosechar(ctx, item.ResourceID, item.Target, fecha)
	default:
		return fmt.Errorf("%w: producción %d tiene %s (previo %s, objetivo %s)", domain.ErrReconciliationStale,
			item.ResourceID, lot.CantidadCosechada, item.Previous, item.Target)
	}
}

func (uc *ReconcileUseCase) retryInsumo(ctx context.Context, item *entity.ReconciliationItem) error {
	insumo, err := uc.insumos.GetInsumo(ctx, item.ResourceID)
	if err != nil {
		return fmt.Errorf("consultar insumo %d: %w", item.ResourceID, err)
	}
	switch current := insumo.ProveedorID(); {
	case current == item.ProveedorID:
		return nil
	case current != 0:
		return fmt.Errorf("%w: insumo %d ya tiene el proveedor %d", domain.ErrReconciliationStale, item.ResourceID, current)
	}
	cambios := entity.CambiosDe(*insumo, item.IDFinca)
	cambios.IDProveedor = item.ProveedorID
	return uc.insumos.UpdateInsumo(ctx, item.ResourceID, cambios)
}

// Dismiss descarta un ítem pendiente sin tocar el recurso.
func (uc *ReconcileUseCase) Dismiss(ctx context.Context, id string) error {
	item, err := uc.journal.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.Status != entity.ReconciliationPending {
		return fmt.Errorf("%w: el ítem %s está %s", domain.ErrInvalidInput, id, item.Status)
	}
	if err := uc.journal.MarkResolved(ctx, id, entity.ReconciliationDismissed); err != nil {
		return err
	}
	uc.deps.Log.Info().Str("reconciliation_id", id).Msg("ítem de reconciliación descartado")
	return nil
}
