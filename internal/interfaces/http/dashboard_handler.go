package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/fichas-api/internal/application/analytics"
)

// DashboardHandler maneja el painel del día.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve los contadores del cardápio y las ventas de hoy.
// GET /api/fichas/dashboard
//
// Respuesta: DashboardSummary (data, totalProdutos, produtosBaixoEstoque, fichasHoje, vendasHoje).
// "Hoy" es el día calendario en la zona del servidor (APP_TIMEZONE).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summarize(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(summary)
}
