package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

// DefaultTopStocked insumos en el gráfico de stock.
const DefaultTopStocked = 8

// StockPoint insumo y cantidad disponible.
type StockPoint struct {
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// Total suma los montos.
func Total(values []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}

// EstimatedMargin ventas menos compras.
func EstimatedMargin(ventas, compras decimal.Decimal) decimal.Decimal {
	return ventas.Sub(compras)
}

// StockExtremes insumo con más y con menos cantidad; el primero gana los empates.
// Sin insumos ambos son {NoData, 0}.
func StockExtremes(insumos []entity.Insumo) (mayor, menor StockPoint) {
	if len(insumos) == 0 {
		empty := StockPoint{Nombre: NoData, Cantidad: decimal.Zero}
		return empty, empty
	}
	hi, lo := insumos[0], insumos[0]
	for _, i := range insumos[1:] {
		if i.CantidadDisponible.GreaterThan(hi.CantidadDisponible) {
			hi = i
		}
		if i.CantidadDisponible.LessThan(lo.CantidadDisponible) {
			lo = i
		}
	}
	return StockPoint{Nombre: hi.Nombre, Cantidad: hi.CantidadDisponible},
		StockPoint{Nombre: lo.Nombre, Cantidad: lo.CantidadDisponible}
}

// TopStocked insumos con más cantidad (a lo sumo limit; <= 0 usa DefaultTopStocked).
func TopStocked(insumos []entity.Insumo, limit int) []StockPoint {
	if limit <= 0 {
		limit = DefaultTopStocked
	}
	out := make([]StockPoint, 0, len(insumos))
	for _, i := range insumos {
		out = append(out, StockPoint{Nombre: i.Nombre, Cantidad: i.CantidadDisponible})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Cantidad.GreaterThan(out[b].Cantidad) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ClienteRefs referencias de ventas a clientes; los que no están en la lista
// se muestran como "Cliente {id}". Ventas sin cliente se omiten.
func ClienteRefs(ventas []entity.Venta, clientes []entity.Cliente) []EntityRef {
	byID := make(map[int64]entity.Cliente, len(clientes))
	for _, c := range clientes {
		byID[c.IDCliente] = c
	}
	refs := make([]EntityRef, 0, len(ventas))
	for _, v := range ventas {
		if v.IDCliente == 0 {
			continue
		}
		label := fmt.Sprintf("Cliente %d", v.IDCliente)
		if c, ok := byID[v.IDCliente]; ok {
			label = c.FullName()
		}
		refs = append(refs, EntityRef{Key: strconv.FormatInt(v.IDCliente, 10), Label: label})
	}
	return refs
}

// ProveedorRefs referencias de compras a proveedores de la finca; sin proveedor
// conocido la etiqueta es "Sin proveedor".
func ProveedorRefs(compras []entity.CompraInsumo, proveedores []entity.Proveedor) []EntityRef {
	byID := make(map[int64]entity.Proveedor, len(proveedores))
	for _, p := range proveedores {
		byID[p.IDProveedor] = p
	}
	refs := make([]EntityRef, 0, len(compras))
	for _, c := range compras {
		id := c.ProveedorID()
		p, ok := byID[id]
		if !ok || p.Nombre == "" {
			refs = append(refs, EntityRef{Key: "-", Label: "Sin proveedor"})
			continue
		}
		refs = append(refs, EntityRef{Key: strconv.FormatInt(id, 10), Label: p.Nombre})
	}
	return refs
}
