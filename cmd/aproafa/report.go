package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/application/report"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

func (a *cli) reporteCmd() *cobra.Command {
	var (
		periodo string
		pdfPath string
	)
	cmd := &cobra.Command{
		Use:   "reporte",
		Short: "Reporte de la finca de la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := report.ParseGranularity(periodo)
			if err != nil {
				return &domain.ValidationError{Field: "periodo", Reason: err.Error()}
			}
			c, err := a.authorized(cmd.Context(), "/reportes")
			if err != nil {
				return err
			}
			rep, err := c.Reports.Build(cmd.Context(), report.BuildInput{Periodo: g, TopN: a.cfg.Report.TopN})
			if err != nil {
				return err
			}
			if len(rep.Incompleto) > 0 {
				fmt.Fprintf(a.stderr, "Aviso: sin datos de %s\n", strings.Join(rep.Incompleto, ", "))
			}

			if pdfPath != "" {
				raw, err := c.ReportPDF.Generate(rep)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, raw, 0o644); err != nil {
					return fmt.Errorf("guardar %s: %w", pdfPath, err)
				}
				fmt.Fprintf(a.stderr, "PDF guardado en %s\n", pdfPath)
				return nil
			}
			if a.jsonOut {
				return a.printJSON(rep)
			}
			return a.printReport(rep)
		},
	}
	cmd.Flags().StringVar(&periodo, "periodo", report.PeriodoTresMeses, "3meses o 30dias")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Guardar el reporte en PDF en esta ruta")
	return cmd
}

func (a *cli) printReport(rep *dto.ReportDTO) error {
	s := rep.Resumen
	w := a.table()
	fmt.Fprintf(w, "Finca\t%d\n", rep.IDFinca)
	fmt.Fprintf(w, "Ventas\t%s (%d)\n", s.TotalVentas, s.VentasCount)
	fmt.Fprintf(w, "Compras\t%s (%d)\n", s.TotalCompras, s.ComprasCount)
	fmt.Fprintf(w, "Ganancia estimada\t%s\n", s.GananciaEstimada)
	fmt.Fprintf(w, "Producción\t%s (%d lotes)\n", s.TotalProduccion, s.ProduccionCount)
	fmt.Fprintf(w, "Actividades\t%d\n", s.TotalActividades)
	fmt.Fprintf(w, "Cliente frecuente\t%s\n", s.ClienteFrecuente)
	fmt.Fprintf(w, "Proveedor frecuente\t%s\n", s.ProveedorFrecuente)
	fmt.Fprintf(w, "Mayor stock\t%s (%s)\n", s.MayorStock.Nombre, s.MayorStock.Cantidad)
	fmt.Fprintf(w, "Menor stock\t%s (%s)\n", s.MenorStock.Nombre, s.MenorStock.Cantidad)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PERIODO\tVENTAS\tCOMPRAS\tPRODUCCIÓN\tACTIVIDADES")
	g := rep.Graficos
	for i, p := range g.Ventas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Periodo, p.Valor, at(g.Compras, i), at(g.Produccion, i), at(g.Actividades, i))
	}
	return w.Flush()
}

func at(points []dto.PointDTO, i int) string {
	if i < len(points) {
		return points[i].Valor.String()
	}
	return "0"
}
