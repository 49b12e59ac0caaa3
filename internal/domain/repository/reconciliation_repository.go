package repository

import (
	"context"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// ReconciliationRepository define el puerto del diario de ajustes de inventario pendientes.
type ReconciliationRepository interface {
	// Save inserta o actualiza (por ID) el ítem.
	Save(ctx context.Context, item *entity.ReconciliationItem) error
	// Get devuelve domain.ErrNotFound si no existe.
	Get(ctx context.Context, id string) (*entity.ReconciliationItem, error)
	ListPending(ctx context.Context) ([]*entity.ReconciliationItem, error)
	// MarkResolved cambia el estado a RESOLVED o DISMISSED.
	MarkResolved(ctx context.Context, id, status string) error
}
