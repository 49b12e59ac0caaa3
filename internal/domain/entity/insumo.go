package entity

import "github.com/shopspring/decimal"

// Unidades de medida aceptadas por el backend.
const (
	UnidadKg     = "Kg"
	UnidadLitro  = "LITRO"
	UnidadBolsa  = "BOLSA"
	UnidadUnidad = "UNIDAD"
	UnidadCaja   = "CAJA"
)

// Insumo recurso con cantidad de la finca (semillas, abonos, etc.).
// Proveedor nil significa que aún no tiene proveedor asociado.
type Insumo struct {
	IDInsumo           int64           `json:"idInsumo"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	UnidadMedida       string          `json:"unidadMedida"`
	Proveedor          *Proveedor      `json:"proveedor"`
	CantidadDisponible decimal.Decimal `json:"cantidadDisponible"`
}

// ProveedorID id del proveedor asociado o 0.
func (i Insumo) ProveedorID() int64 {
	if i.Proveedor == nil {
		return 0
	}
	return i.Proveedor.IDProveedor
}

// InsumoCambios cuerpo de PUT /insumos/{id} (InsumoDTO del backend).
type InsumoCambios struct {
	Nombre             string
	Descripcion        string
	UnidadMedida       string
	IDProveedor        int64
	CantidadDisponible decimal.Decimal
	IDFinca            int64
}

// CambiosDe copia los campos editables del insumo.
func CambiosDe(i Insumo, idFinca int64) InsumoCambios {
	return InsumoCambios{
		Nombre:             i.Nombre,
		Descripcion:        i.Descripcion,
		UnidadMedida:       i.UnidadMedida,
		IDProveedor:        i.ProveedorID(),
		CantidadDisponible: i.CantidadDisponible,
		IDFinca:            idFinca,
	}
}
