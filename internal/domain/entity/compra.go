package entity

import "github.com/shopspring/decimal"

// CompraInsumo movimiento de compra; el backend suma Cantidad al insumo.
type CompraInsumo struct {
	IDCompra       int64           `json:"idCompra"`
	Insumo         *Insumo         `json:"insumo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	FechaCompra    Date            `json:"fechaCompra"`
	Proveedor      *Proveedor      `json:"proveedor"`
}

// Monto precio * cantidad.
func (c CompraInsumo) Monto() decimal.Decimal {
	return c.PrecioUnitario.Mul(c.Cantidad)
}

// ProveedorID id del proveedor de la compra o 0.
func (c CompraInsumo) ProveedorID() int64 {
	if c.Proveedor == nil {
		return 0
	}
	return c.Proveedor.IDProveedor
}

// NuevaCompra compra de insumo a registrar (POST /api/compra-insumos).
type NuevaCompra struct {
	IDInsumo       int64
	IDProveedor    int64
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	FechaCompra    Date
}
