package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PointDTO punto de un gráfico por periodo.
type PointDTO struct {
	Periodo string          `json:"periodo"` // "Octubre de 2026" o "19/10"
	Valor   decimal.Decimal `json:"valor"`
}

// RankDTO entrada de un ranking por frecuencia.
type RankDTO struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// StockDTO insumo y cantidad disponible.
type StockDTO struct {
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// ReportSummaryDTO métricas de un solo valor.
type ReportSummaryDTO struct {
	TotalVentas        decimal.Decimal `json:"totalVentas"`
	VentasCount        int             `json:"ventasCount"`
	TotalCompras       decimal.Decimal `json:"totalCompras"`
	ComprasCount       int             `json:"comprasCount"`
	TotalProduccion    decimal.Decimal `json:"totalProduccion"`
	ProduccionCount    int             `json:"produccionCount"`
	TotalActividades   int             `json:"totalActividades"`
	GananciaEstimada   decimal.Decimal `json:"gananciaEstimada"` // ventas - compras
	ClienteFrecuente   string          `json:"clienteFrecuente"`
	ProveedorFrecuente string          `json:"proveedorFrecuente"`
	MayorStock         StockDTO        `json:"mayorStock"`
	MenorStock         StockDTO        `json:"menorStock"`
}

// ReportChartsDTO series por periodo.
type ReportChartsDTO struct {
	Ventas      []PointDTO `json:"ventas"`
	Compras     []PointDTO `json:"compras"`
	Produccion  []PointDTO `json:"produccion"`
	Actividades []PointDTO `json:"actividades"`
}

// ReportDTO salida de GET /reportes.
type ReportDTO struct {
	IDFinca     int64            `json:"idFinca"`
	Periodo     string           `json:"periodo"` // 3meses | 30dias
	GeneradoEn  time.Time        `json:"generadoEn"`
	Resumen     ReportSummaryDTO `json:"resumen"`
	Graficos    ReportChartsDTO  `json:"graficos"`
	Clientes    []RankDTO        `json:"topClientes"`
	Proveedores []RankDTO        `json:"topProveedores"`
	Insumos     []StockDTO       `json:"topInsumos"`
	// Fuentes que no se pudieron consultar; sus listas se tratan como vacías.
	Incompleto []string `json:"incompleto,omitempty"`
}
