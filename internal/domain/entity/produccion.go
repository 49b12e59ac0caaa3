package entity

import "github.com/shopspring/decimal"

// Estados de una producción.
const (
	EstadoSembrado  = "SEMBRADO"
	EstadoCreciendo = "CRECIENDO"
	EstadoCosechado = "COSECHADO"
)

// Produccion lote de producción; CantidadCosechada es la cantidad disponible para venta.
type Produccion struct {
	IDProduccion      int64           `json:"idProduccion"`
	IDProducto        int64           `json:"idProducto"`
	IDFinca           int64           `json:"idFinca"`
	FechaSiembra      Date            `json:"fechaSiembra"`
	FechaCosecha      Date            `json:"fechaCosecha"`
	Estado            string          `json:"estado"`
	CantidadCosechada decimal.Decimal `json:"cantidadCosechada"`
}

// ReferenceDate fecha de cosecha o, si no hay, la de siembra.
func (p Produccion) ReferenceDate() Date {
	if !p.FechaCosecha.IsZero() {
		return p.FechaCosecha
	}
	return p.FechaSiembra
}
