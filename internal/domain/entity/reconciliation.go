package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recurso afectados por un ajuste pendiente.
const (
	ResourceProduccion = "PRODUCCION"
	ResourceInsumo     = "INSUMO"
)

// Estados de un ítem de reconciliación.
const (
	ReconciliationPending   = "PENDING"
	ReconciliationResolved  = "RESOLVED"
	ReconciliationDismissed = "DISMISSED"
)

// ReconciliationItem ajuste de cantidad que falló después de registrar el movimiento.
// Guarda la cantidad previa y el objetivo absoluto para reintentar de forma idempotente.
type ReconciliationItem struct {
	ID           string
	SagaID       string
	Workflow     string // venta, compra
	ResourceType string
	ResourceID   int64
	Previous     decimal.Decimal
	Target       decimal.Decimal
	RefDate      string // fecha de referencia "YYYY-MM-DD" para cosechas; vacía si no aplica
	ProveedorID  int64  // proveedor a asociar (compras)
	IDFinca      int64
	LastError    string
	Status       string
	Attempts     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
