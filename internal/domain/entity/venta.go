package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Venta encabezado de venta tal como lo lista el backend.
type Venta struct {
	IDVenta      int64           `json:"idVenta"`
	IDCliente    int64           `json:"idCliente"`
	IDEmpleado   int64           `json:"idEmpleado"`
	FechaVenta   Date            `json:"fechaVenta"`
	MetodoPago   string          `json:"metodoPago"`
	IDMetodoPago int64           `json:"idMetodoPago"`
	Total        decimal.Decimal `json:"total"`
}

// DetalleVenta línea de venta contra un lote de producción.
type DetalleVenta struct {
	IDProduccion   int64           `json:"idProduccion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
}

// Subtotal cantidad * precio.
func (d DetalleVenta) Subtotal() decimal.Decimal {
	return d.Cantidad.Mul(d.PrecioUnitario)
}

// MetodoPagoNombre traduce el código del formulario al nombre que espera el backend.
func MetodoPagoNombre(codigo string) string {
	switch strings.ToUpper(strings.TrimSpace(codigo)) {
	case "EFECTIVO":
		return "Efectivo"
	case "TARJETA":
		return "Tarjeta"
	case "TRANSFERENCIA":
		return "Transferencia"
	default:
		return "Otro"
	}
}

// NuevaVenta venta a registrar con sus detalles (POST /api/ventas/con-detalles).
type NuevaVenta struct {
	IDCliente    int64
	IDPersona    int64 // empleado que registra
	IDFinca      int64
	MetodoPago   string // nombre ya traducido (Efectivo, Tarjeta...)
	IDMetodoPago int64
	Total        decimal.Decimal
	Detalles     []DetalleVenta
}
