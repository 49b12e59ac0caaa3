package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/repository"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// Nombres de flujo (métricas, diario).
const (
	WorkflowVenta  = "venta"
	WorkflowCompra = "compra"
	WorkflowUso    = "uso"
)

// Destinos tras completar cada flujo.
const (
	PathVentas  = "/ventas"
	PathInsumos = "/insumos"
)

// StepStatus estado de un paso posterior al movimiento.
type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepOutcome resultado de un ajuste sobre un recurso.
type StepOutcome struct {
	ResourceType     string
	ResourceID       int64
	Previous         decimal.Decimal
	Target           decimal.Decimal
	Status           StepStatus
	Err              error
	ReconciliationID string // ítem del diario si el paso falló
}

// Result registro de una ejecución: qué se confirmó y qué quedó pendiente.
type Result struct {
	SagaID            string
	Workflow          string
	MovementCommitted bool
	Steps             []StepOutcome
	Navigate          string // destino tras completar; vacío si el flujo abortó
}

// Failed pasos que no se aplicaron.
func (r *Result) Failed() []StepOutcome {
	var out []StepOutcome
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			out = append(out, s)
		}
	}
	return out
}

// SessionLost algún ajuste falló porque la sesión expiró o ya no existía.
func (r *Result) SessionLost() bool {
	for _, s := range r.Failed() {
		if domain.IsSessionError(s.Err) {
			return true
		}
	}
	return false
}

// Deps dependencias comunes de los flujos.
type Deps struct {
	Session   SessionReader
	Journal   repository.ReconciliationRepository
	Navigator Navigator
	Observer  Observer
	Log       *logger.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	d.Log = logger.OrNop(d.Log)
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) navigate(target string) {
	if d.Navigator != nil {
		d.Navigator.Navigate(target)
	}
}

func (d Deps) currentUser() (*entity.SessionUser, error) {
	if d.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	u, ok := d.Session.CurrentUser()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func newResult(workflow string) *Result {
	return &Result{SagaID: uuid.New().String(), Workflow: workflow}
}

// journalFailure registra el paso fallido en el diario y devuelve el outcome.
// Un fallo del diario solo se registra en el log: el paso sigue constando en Result.
func (d Deps) journalFailure(ctx context.Context, res *Result, item entity.ReconciliationItem, stepErr error) StepOutcome {
	d.Observer.CompensationFailed(res.Workflow)
	d.Log.Warn().
		Str("saga_id", res.SagaID).
		Str("workflow", res.Workflow).
		Str("resource_type", item.ResourceType).
		Str("resource_id", strconv.FormatInt(item.ResourceID, 10)).
		Err(stepErr).
		Msg("movimiento registrado pero el ajuste del recurso falló; queda pendiente de reconciliación")

	outcome := StepOutcome{
		ResourceType: item.ResourceType,
		ResourceID:   item.ResourceID,
		Previous:     item.Previous,
		Target:       item.Target,
		Status:       StepFailed,
		Err:          stepErr,
	}
	if d.Journal == nil {
		return outcome
	}

	now := d.Now()
	item.ID = uuid.New().String()
	item.SagaID = res.SagaID
	item.Workflow = res.Workflow
	item.Status = entity.ReconciliationPending
	item.LastError = stepErr.Error()
	item.Attempts = 1
	item.CreatedAt = now
	item.UpdatedAt = now
	// el diario se escribe aunque el contexto de la petición se haya cancelado
	if err := d.Journal.Save(context.WithoutCancel(ctx), &item); err != nil {
		d.Log.Error().Err(err).Str("saga_id", res.SagaID).Msg("no se pudo guardar el ítem de reconciliación")
		return outcome
	}
	outcome.ReconciliationID = item.ID
	return outcome
}

// complete navega al destino del flujo y cierra la saga. Si un ajuste perdió la sesión
// el gateway ya navegó a /login y ese destino no se reemplaza.
func (d Deps) complete(res *Result, target string) error {
	if !res.SessionLost() {
		res.Navigate = target
		d.navigate(target)
	}
	return d.finish(res)
}

// finish cierra la saga: métricas y error de consistencia parcial si hubo pasos fallidos.
// Con la sesión perdida el error también es domain.ErrSessionExpired.
func (d Deps) finish(res *Result) error {
	failed := res.Failed()
	if len(failed) == 0 {
		d.Observer.WorkflowFinished(res.Workflow, "ok")
		return nil
	}
	d.Observer.WorkflowFinished(res.Workflow, "partial")
	ids := make([]string, 0, len(failed))
	for _, f := range failed {
		ids = append(ids, strconv.FormatInt(f.ResourceID, 10))
	}
	partial := &domain.PartialConsistencyError{SagaID: res.SagaID, Failed: ids}
	if res.SessionLost() {
		return errors.Join(partial, domain.ErrSessionExpired)
	}
	return partial
}

// outcomeOf clasifica el error con que abortó un flujo.
func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrProviderLocked):
		return "validation"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionExpired):
		return "unauthenticated"
	case errors.Is(err, domain.ErrRemoteRejection):
		return "rejected"
	default:
		return "error"
	}
}
