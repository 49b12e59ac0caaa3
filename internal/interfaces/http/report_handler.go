package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/application/report"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

// ReportBuilder arma el reporte de la finca de la sesión.
type ReportBuilder interface {
	Build(ctx context.Context, in report.BuildInput) (*dto.ReportDTO, error)
}

// ReportRenderer genera el PDF del reporte.
type ReportRenderer interface {
	Generate(rep *dto.ReportDTO) ([]byte, error)
}

// ReportHandler maneja GET /reportes y su PDF.
type ReportHandler struct {
	builder  ReportBuilder
	renderer ReportRenderer
	topN     int
}

// NewReportHandler construye el handler. topN <= 0 usa el límite por defecto.
func NewReportHandler(builder ReportBuilder, renderer ReportRenderer, topN int) *ReportHandler {
	return &ReportHandler{builder: builder, renderer: renderer, topN: topN}
}

// Get godoc
// @Summary      Reporte de la finca
// @Tags         reportes
// @Produce      json
// @Param        periodo  query  string  false  "3meses (por defecto) o 30dias"
// @Success      200  {object}  dto.ReportDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /reportes [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	rep, err := h.build(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}

// PDF godoc
// @Summary      Reporte de la finca en PDF
// @Tags         reportes
// @Produce      application/pdf
// @Param        periodo  query  string  false  "3meses (por defecto) o 30dias"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /reportes/pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	rep, err := h.build(c)
	if err != nil {
		return writeError(c, err)
	}
	pdfBytes, err := h.renderer.Generate(rep)
	if err != nil {
		return writeError(c, fmt.Errorf("generar PDF: %w", err))
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reporte-finca-%d.pdf"`, rep.IDFinca))
	return c.Send(pdfBytes)
}

func (h *ReportHandler) build(c *fiber.Ctx) (*dto.ReportDTO, error) {
	g, err := report.ParseGranularity(c.Query("periodo"))
	if err != nil {
		return nil, &domain.ValidationError{Field: "periodo", Reason: err.Error()}
	}
	return h.builder.Build(c.Context(), report.BuildInput{Periodo: g, TopN: h.topN})
}
