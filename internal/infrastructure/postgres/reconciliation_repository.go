package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/repository"
)

var _ repository.ReconciliationRepository = (*ReconciliationRepo)(nil)

// Schema tabla del diario. Idempotente.
const Schema = `
CREATE TABLE IF NOT EXISTS reconciliation_items (
	id            TEXT PRIMARY KEY,
	saga_id       TEXT NOT NULL,
	workflow      TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   BIGINT NOT NULL,
	previous_qty  NUMERIC(18,4) NOT NULL DEFAULT 0,
	target_qty    NUMERIC(18,4) NOT NULL DEFAULT 0,
	ref_date      TEXT NOT NULL DEFAULT '',
	proveedor_id  BIGINT NOT NULL DEFAULT 0,
	id_finca      BIGINT NOT NULL DEFAULT 0,
	last_error    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL CHECK (status IN ('PENDING', 'RESOLVED', 'DISMISSED')),
	attempts      INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reconciliation_items_pending
	ON reconciliation_items (created_at) WHERE status = 'PENDING';`

// ReconciliationRepo diario de reconciliación en PostgreSQL (usable con pool o tx).
type ReconciliationRepo struct {
	q Querier
}

// NewReconciliationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReconciliationRepository(q Querier) *ReconciliationRepo {
	return &ReconciliationRepo{q: q}
}

// EnsureSchema crea la tabla si no existe.
func (r *ReconciliationRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("crear tabla reconciliation_items: %w", err)
	}
	return nil
}

const selectItem = `
	SELECT id, saga_id, workflow, resource_type, resource_id, previous_qty, target_qty,
	       ref_date, proveedor_id, id_finca, last_error, status, attempts, created_at, updated_at
	FROM reconciliation_items`

// Save inserta o actualiza por id; created_at se conserva en actualizaciones.
func (r *ReconciliationRepo) Save(ctx context.Context, item *entity.ReconciliationItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidInput
	}
	status := item.Status
	if status == "" {
		status = entity.ReconciliationPending
	}
	query := `
		INSERT INTO reconciliation_items (id, saga_id, workflow, resource_type, resource_id, previous_qty,
			target_qty, ref_date, proveedor_id, id_finca, last_error, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, now()), now())
		ON CONFLICT (id) DO UPDATE SET
			previous_qty = EXCLUDED.previous_qty,
			target_qty   = EXCLUDED.target_qty,
			ref_date     = EXCLUDED.ref_date,
			proveedor_id = EXCLUDED.proveedor_id,
			last_error   = EXCLUDED.last_error,
			status       = EXCLUDED.status,
			attempts     = EXCLUDED.attempts,
			updated_at   = now()`
	var createdAt any
	if !item.CreatedAt.IsZero() {
		createdAt = item.CreatedAt
	}
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SagaID, item.Workflow, item.ResourceType, item.ResourceID, item.Previous,
		item.Target, item.RefDate, item.ProveedorID, item.IDFinca, item.LastError, status, item.Attempts, createdAt,
	)
	if err != nil {
		return translate(err, "guardar ítem de reconciliación")
	}
	return nil
}

// Get devuelve domain.ErrNotFound si el id no existe.
func (r *ReconciliationRepo) Get(ctx context.Context, id string) (*entity.ReconciliationItem, error) {
	item, err := scanItem(r.q.QueryRow(ctx, selectItem+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, translate(err, "obtener ítem de reconciliación")
	}
	return item, nil
}

// ListPending ítems PENDING por fecha de creación.
func (r *ReconciliationRepo) ListPending(ctx context.Context) ([]*entity.ReconciliationItem, error) {
	rows, err := r.q.Query(ctx, selectItem+` WHERE status = $1 ORDER BY created_at, id`, entity.ReconciliationPending)
	if err != nil {
		return nil, translate(err, "listar reconciliaciones")
	}
	defer rows.Close()

	var out []*entity.ReconciliationItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reconciliación: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// MarkResolved cambia el estado a RESOLVED o DISMISSED.
func (r *ReconciliationRepo) MarkResolved(ctx context.Context, id, status string) error {
	if status != entity.ReconciliationResolved && status != entity.ReconciliationDismissed {
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx, `UPDATE reconciliation_items SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return translate(err, "actualizar estado de reconciliación")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.ReconciliationItem, error) {
	var it entity.ReconciliationItem
	err := row.Scan(
		&it.ID, &it.SagaID, &it.Workflow, &it.ResourceType, &it.ResourceID, &it.Previous, &it.Target,
		&it.RefDate, &it.ProveedorID, &it.IDFinca, &it.LastError, &it.Status, &it.Attempts, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func translate(err error, op string) error {
	switch pgCode(err) {
	case codeCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case codeUndefinedTable:
		return fmt.Errorf("%s: la tabla reconciliation_items no existe (ejecute `aproafa migrate`): %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
