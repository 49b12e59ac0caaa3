// Package pdf genera el resumen del reporte de la finca en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: APROAFA + Finca     │  Periodo + Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ventas / compras / ganancia / producción          │
//	│  FRECUENTES: cliente y proveedor · stock mayor y menor      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: periodo | ventas | compras | producción | activ.    │
//	│  TABLAS: top clientes · top proveedores · top insumos       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportPDFGenerator genera el resumen del reporte con Maroto v2.
type ReportPDFGenerator struct{}

// NewReportPDFGenerator construye el generador.
func NewReportPDFGenerator() *ReportPDFGenerator { return &ReportPDFGenerator{} }

// Generate devuelve los bytes del PDF.
func (g *ReportPDFGenerator) Generate(rep *dto.ReportDTO) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte APROAFA", true).
		WithAuthor("APROAFA", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(rep.Resumen)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("EVOLUCIÓN POR PERIODO"))
	m.AddRows(tableHeader([]string{"Periodo", "Ventas", "Compras", "Producción", "Actividades"}, []int{4, 2, 2, 2, 2}))
	m.AddRows(seriesRows(rep.Graficos)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("CLIENTES MÁS FRECUENTES"))
	m.AddRows(rankRows(rep.Clientes, "Ventas")...)
	m.AddRows(sectionTitle("PROVEEDORES MÁS FRECUENTES"))
	m.AddRows(rankRows(rep.Proveedores, "Compras")...)
	m.AddRows(sectionTitle("INSUMOS CON MAYOR STOCK"))
	m.AddRows(stockRows(rep.Insumos)...)

	if len(rep.Incompleto) > 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Datos no disponibles al generar: "+strings.Join(rep.Incompleto, ", "), props.Text{
				Size: 7, Color: colorGray, Top: 3, Style: fontstyle.Italic,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep *dto.ReportDTO) core.Row {
	periodo := "Últimos 3 meses"
	if rep.Periodo == "30dias" {
		periodo = "Últimos 30 días"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("APROAFA", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Reporte de la finca %d", rep.IDFinca), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(periodo, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1}),
			text.New("Emitido: "+rep.GeneradoEn.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRows(s dto.ReportSummaryDTO) []core.Row {
	metric := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	pair := func(label, value string) core.Col {
		return col.New(6).Add(
			text.New(label+": ", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(value, props.Text{Size: 8, Top: 5, Color: colorGray}),
		)
	}
	return []core.Row{
		row.New(14).Add(
			metric(fmt.Sprintf("Ventas (%d)", s.VentasCount), money(s.TotalVentas)),
			metric(fmt.Sprintf("Compras (%d)", s.ComprasCount), money(s.TotalCompras)),
			metric("Ganancia estimada", money(s.GananciaEstimada)),
			metric(fmt.Sprintf("Producción (%d)", s.ProduccionCount), s.TotalProduccion.String()),
		),
		row.New(11).Add(
			pair("Cliente más frecuente", s.ClienteFrecuente),
			pair("Proveedor más frecuente", s.ProveedorFrecuente),
		),
		row.New(11).Add(
			pair("Mayor stock", fmt.Sprintf("%s (%s)", s.MayorStock.Nombre, s.MayorStock.Cantidad)),
			pair("Menor stock", fmt.Sprintf("%s (%s)", s.MenorStock.Nombre, s.MenorStock.Cantidad)),
		),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Actividades registradas: %d", s.TotalActividades), props.Text{Size: 8, Top: 1}),
		)),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// tableHeader cabecera de tabla; sizes debe sumar 12.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func seriesRows(g dto.ReportChartsDTO) []core.Row {
	rows := make([]core.Row, 0, len(g.Ventas))
	for i, p := range g.Ventas {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(cell(p.Periodo, align.Left)),
			col.New(2).Add(cell(money(p.Valor), align.Right)),
			col.New(2).Add(cell(money(valueAt(g.Compras, i)), align.Right)),
			col.New(2).Add(cell(valueAt(g.Produccion, i).String(), align.Right)),
			col.New(2).Add(cell(valueAt(g.Actividades, i).String(), align.Right)),
		))
	}
	return rows
}

func rankRows(entries []dto.RankDTO, countLabel string) []core.Row {
	if len(entries) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := []core.Row{tableHeader([]string{"Nombre", countLabel}, []int{9, 3})}
	for _, e := range entries {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(cell(e.Nombre, align.Left)),
			col.New(3).Add(cell(fmt.Sprintf("%d", e.Cantidad), align.Right)),
		))
	}
	return rows
}

func stockRows(entries []dto.StockDTO) []core.Row {
	if len(entries) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := []core.Row{tableHeader([]string{"Insumo", "Disponible"}, []int{9, 3})}
	for _, e := range entries {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(cell(e.Nombre, align.Left)),
			col.New(3).Add(cell(e.Cantidad.String(), align.Right)),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(s string, a align.Type) core.Component {
	return text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1})
}

func emptyRow() core.Row {
	return row.New(6).Add(col.New(12).Add(text.New("No hay datos", props.Text{Size: 8, Color: colorGray, Top: 1})))
}

func valueAt(points []dto.PointDTO, i int) decimal.Decimal {
	if i < len(points) {
		return points[i].Valor
	}
	return decimal.Zero
}

// money "$" + entero con puntos de miles. Ej: 1500000 → "$1.500.000", -2500 → "-$2.500".
func money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "$" + formatThousands(s)
}

// formatThousands inserta puntos de miles en un string de dígitos.
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
