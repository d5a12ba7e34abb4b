package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
)

// TicketHandler ciclo de vida de las fichas.
type TicketHandler struct {
	uc  *ticket.UseCase
	log zerolog.Logger
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *ticket.UseCase, log zerolog.Logger) *TicketHandler {
	return &TicketHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Abrir ficha
// @Description  Congela los precios actuales y descuenta el stock. Solo una ficha pendiente por número.
// @Tags         fichas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTicketRequest  true  "numero, itens"
// @Success      201   {object}  dto.TicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "produto inexistente"
// @Failure      409   {object}  dto.ErrorResponse  "número duplicado o estoque insuficiente"
// @Router       /api/fichas [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "corpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), GetStaff(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// FindByNumber godoc
// @Summary      Buscar ficha por número
// @Tags         fichas
// @Security     Bearer
// @Produce      json
// @Param        numero              path   string  true   "Número de la ficha"
// @Param        incluirConfirmadas  query  bool    false  "Buscar también entre las archivadas"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fichas/{numero} [get]
func (h *TicketHandler) FindByNumber(c *fiber.Ctx) error {
	includeConfirmed := c.QueryBool("incluirConfirmadas", false)
	out, err := h.uc.FindByNumber(c.UserContext(), c.Params("numero"), includeConfirmed)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPending fichas pendientes, más recientes primero.
// GET /api/fichas/pendentes
func (h *TicketHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar pago de la ficha
// @Tags         fichas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ficha"
// @Success      200  {object}  dto.ConfirmationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/fichas/{id}/confirmar [post]
func (h *TicketHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.uc.Confirm(c.UserContext(), c.Params("id"), GetStaff(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
