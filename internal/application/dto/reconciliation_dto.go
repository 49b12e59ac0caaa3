package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// ReconciliationItemResponse ítem del diario de reconciliación.
type ReconciliationItemResponse struct {
	ID           string          `json:"id"`
	SagaID       string          `json:"sagaId"`
	Workflow     string          `json:"workflow"`
	ResourceType string          `json:"resourceType"`
	ResourceID   int64           `json:"resourceId"`
	Previous     decimal.Decimal `json:"previous"`
	Target       decimal.Decimal `json:"target"`
	RefDate      string          `json:"refDate,omitempty"`
	ProveedorID  int64           `json:"proveedorId,omitempty"`
	LastError    string          `json:"lastError"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewReconciliationItemResponse mapea un ítem.
func NewReconciliationItemResponse(item *entity.ReconciliationItem) ReconciliationItemResponse {
	return ReconciliationItemResponse{
		ID:           item.ID,
		SagaID:       item.SagaID,
		Workflow:     item.Workflow,
		ResourceType: item.ResourceType,
		ResourceID:   item.ResourceID,
		Previous:     item.Previous,
		Target:       item.Target,
		RefDate:      item.RefDate,
		ProveedorID:  item.ProveedorID,
		LastError:    item.LastError,
		Status:       item.Status,
		Attempts:     item.Attempts,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
