package inventory

import "github.com/shopspring/decimal"

// ClampedSubtract servicio de dominio: nueva cantidad tras una salida.
// NuevaCantidad = max(0, disponible - cantidad). Nunca devuelve negativo.
func ClampedSubtract(available, quantity decimal.Decimal) decimal.Decimal {
	n := available.Sub(quantity)
	if n.IsNegative() {
		return decimal.Zero
	}
	return n
}

// Covers indica si la cantidad disponible alcanza para la solicitada.
func Covers(available, requested decimal.Decimal) bool {
	return requested.LessThanOrEqual(available)
}

// Total suma cantidad*precio de cada par.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}

// Line par cantidad/precio para totalizar.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}
