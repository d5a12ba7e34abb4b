package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fichas-api/internal/application/report"
)

// ReportHandler relatório de vendas y su exportación.
type ReportHandler struct {
	uc  *report.UseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Generate godoc
// @Summary      Relatório de vendas
// @Description  Fechas inclusivas aaaa-mm-dd; vacías = hoy. Si el histórico no responde devuelve el relatório en cero con degradado=true.
// @Tags         fichas
// @Security     Bearer
// @Produce      json
// @Param        inicio  query  string  false  "Fecha inicial"
// @Param        fim     query  string  false  "Fecha final"
// @Success      200  {object}  dto.SalesReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/fichas/relatorio [get]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.Generate(c.UserContext(), c.Query("inicio"), c.Query("fim"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar relatório (pdf, xlsx, xml)
// @Tags         fichas
// @Security     Bearer
// @Produce      application/pdf
// @Param        inicio   query  string  false  "Fecha inicial"
// @Param        fim      query  string  false  "Fecha final"
// @Param        formato  query  string  false  "pdf | xlsx | xml (default pdf)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/fichas/relatorio/exportar [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), c.Query("inicio"), c.Query("fim"), c.Query("formato"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}
