package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/domain/repository"
)

// ReconciliationRepo diario de reconciliación en memoria. Con un Backing cada cambio
// se vuelca al área clave-valor (ID -> ítem en JSON) y sobrevive al proceso.
type ReconciliationRepo struct {
	mu      sync.RWMutex
	items   map[string]entity.ReconciliationItem
	backing Backing
}

// Backing área clave-valor persistente (storage.FileStorage en la CLI).
type Backing interface {
	Read(ctx context.Context) (map[string]string, error)
	Write(ctx context.Context, values map[string]string) error
}

var _ repository.ReconciliationRepository = (*ReconciliationRepo)(nil)

// NewReconciliationRepo crea el repositorio vacío.
func NewReconciliationRepo() *ReconciliationRepo {
	return &ReconciliationRepo{items: map[string]entity.ReconciliationItem{}}
}

// NewPersistentReconciliationRepo carga los ítems guardados en b y persiste cada cambio.
func NewPersistentReconciliationRepo(ctx context.Context, b Backing) (*ReconciliationRepo, error) {
	values, err := b.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("leyendo diario de reconciliación: %w", err)
	}
	r := &ReconciliationRepo{items: make(map[string]entity.ReconciliationItem, len(values)), backing: b}
	for id, raw := range values {
		var rec itemRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("ítem %s ilegible: %w", id, err)
		}
		r.items[id] = rec.toEntity()
	}
	return r, nil
}

func (r *ReconciliationRepo) Save(ctx context.Context, item *entity.ReconciliationItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored := *item
	if prev, ok := r.items[item.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = entity.ReconciliationPending
	}
	return r.put(ctx, stored)
}

func (r *ReconciliationRepo) Get(_ context.Context, id string) (*entity.ReconciliationItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// ListPending ordenados por fecha de creación.
func (r *ReconciliationRepo) ListPending(_ context.Context) ([]*entity.ReconciliationItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.ReconciliationItem, 0, len(r.items))
	for _, item := range r.items {
		if item.Status != entity.ReconciliationPending {
			continue
		}
		it := item
		out = append(out, &it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReconciliationRepo) MarkResolved(ctx context.Context, id, status string) error {
	if status != entity.ReconciliationResolved && status != entity.ReconciliationDismissed {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	return r.put(ctx, item)
}

// put guarda el ítem; con Backing solo se aplica si la escritura tuvo éxito. Requiere r.mu.
func (r *ReconciliationRepo) put(ctx context.Context, item entity.ReconciliationItem) error {
	if r.backing != nil {
		values := make(map[string]string, len(r.items)+1)
		for id, it := range r.items {
			raw, err := json.Marshal(newItemRecord(it))
			if err != nil {
				return fmt.Errorf("serializando ítem %s: %w", id, err)
			}
			values[id] = string(raw)
		}
		raw, err := json.Marshal(newItemRecord(item))
		if err != nil {
			return fmt.Errorf("serializando ítem %s: %w", item.ID, err)
		}
		values[item.ID] = string(raw)
		if err := r.backing.Write(ctx, values); err != nil {
			return fmt.Errorf("guardando diario de reconciliación: %w", err)
		}
	}
	r.items[item.ID] = item
	return nil
}

// itemRecord forma en disco del ítem.
type itemRecord struct {
	ID           string          `json:"id"`
	SagaID       string          `json:"sagaId"`
	Workflow     string          `json:"workflow"`
	ResourceType string          `json:"resourceType"`
	ResourceID   int64           `json:"resourceId"`
	Previous     decimal.Decimal `json:"previous"`
	Target       decimal.Decimal `json:"target"`
	RefDate      string          `json:"refDate,omitempty"`
	ProveedorID  int64           `json:"proveedorId,omitempty"`
	IDFinca      int64           `json:"idFinca,omitempty"`
	LastError    string          `json:"lastError,omitempty"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func newItemRecord(it entity.ReconciliationItem) itemRecord {
	return itemRecord{
		ID: it.ID, SagaID: it.SagaID, Workflow: it.Workflow,
		ResourceType: it.ResourceType, ResourceID: it.ResourceID,
		Previous: it.Previous, Target: it.Target, RefDate: it.RefDate,
		ProveedorID: it.ProveedorID, IDFinca: it.IDFinca, LastError: it.LastError,
		Status: it.Status, Attempts: it.Attempts,
		CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

func (rec itemRecord) toEntity() entity.ReconciliationItem {
	return entity.ReconciliationItem{
		ID: rec.ID, SagaID: rec.SagaID, Workflow: rec.Workflow,
		ResourceType: rec.ResourceType, ResourceID: rec.ResourceID,
		Previous: rec.Previous, Target: rec.Target, RefDate: rec.RefDate,
		ProveedorID: rec.ProveedorID, IDFinca: rec.IDFinca, LastError: rec.LastError,
		Status: rec.Status, Attempts: rec.Attempts,
		CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
	}
}
