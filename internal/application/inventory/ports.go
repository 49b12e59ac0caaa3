package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// ProduccionService lotes de producción en el backend.
type ProduccionService interface {
	GetProduccion(ctx context.Context, id int64) (*entity.Produccion, error)
	// Cosechar fija la cantidad cosechada (valor absoluto).
	Cosechar(ctx context.Context, id int64, cantidad decimal.Decimal, fecha string) error
}

// VentaService registro de ventas.
type VentaService interface {
	CreateVenta(ctx context.Context, in entity.NuevaVenta) (*entity.Venta, error)
}

// InsumoService insumos en el backend.
type InsumoService interface {
	GetInsumo(ctx context.Context, id int64) (*entity.Insumo, error)
	UpdateInsumo(ctx context.Context, id int64, in entity.InsumoCambios) error
	RegisterSupplyUsage(ctx context.Context, id int64, cantidad decimal.Decimal) error
}

// CompraService registro de compras de insumos.
type CompraService interface {
	CreateCompra(ctx context.Context, in entity.NuevaCompra) (*entity.CompraInsumo, error)
}

// SessionReader usuario autenticado (empleado y finca de la operación).
type SessionReader interface {
	CurrentUser() (*entity.SessionUser, bool)
}

// Navigator destino tras completar un flujo.
type Navigator interface {
	Navigate(target string)
}

// Observer métricas de los flujos.
type Observer interface {
	WorkflowFinished(workflow, outcome string)
	CompensationFailed(workflow string)
}

type nopObserver struct{}

func (nopObserver) WorkflowFinished(string, string) {}
func (nopObserver) CompensationFailed(string)       {}
