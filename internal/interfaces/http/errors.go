package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain"
)

// errorBody arma el ErrorResponse; Message y Error llevan el mismo texto.
func errorBody(code, message string, details map[string]any) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: message, Error: message, Details: details}
}

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorBody(code, message, nil))
}

// writeError traduce errores de dominio a status HTTP y mensajes para el cliente.
// Lo no reconocido es 500: se loguea la causa y el cliente recibe un mensaje genérico.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		validation *domain.ValidationError
		duplicate  *domain.DuplicateTicketError
		notFound   *domain.ProductNotFoundError
		stock      *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(errorBody("VALIDATION_ERROR",
			fmt.Sprintf("Dados inválidos em %q: %s", validation.Field, validation.Reason),
			map[string]any{"campo": validation.Field}))
	case errors.Is(err, domain.ErrInvalidInput):
		return respondError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Dados inválidos")

	case errors.As(err, &duplicate):
		return c.Status(fiber.StatusConflict).JSON(errorBody("DUPLICATE_TICKET",
			fmt.Sprintf("Já existe uma ficha pendente com o número %s. Use outro número.", duplicate.Number),
			map[string]any{"numero": duplicate.Number}))
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(errorBody("PRODUCT_NOT_FOUND",
			fmt.Sprintf("Produto com ID %s não encontrado", notFound.ProductID),
			map[string]any{"produto_id": notFound.ProductID}))
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(errorBody("INSUFFICIENT_STOCK",
			fmt.Sprintf("Estoque insuficiente para %s. Disponível: %d", stock.ProductName, stock.Available),
			map[string]any{
				"produto_id": stock.ProductID,
				"disponivel": stock.Available,
				"solicitado": stock.Requested,
			}))
	case errors.Is(err, domain.ErrInsufficientStock):
		return respondError(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "Estoque insuficiente")

	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return respondError(c, fiber.StatusConflict, "ALREADY_CONFIRMED", "Ficha já confirmada")
	case errors.Is(err, domain.ErrProductInUse):
		return respondError(c, fiber.StatusConflict, "PRODUCT_IN_USE", "Produto em uso por fichas pendentes")
	case errors.Is(err, domain.ErrDuplicate):
		return respondError(c, fiber.StatusConflict, "DUPLICATE", "Registro já existe")
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", "Não encontrado")
	case errors.Is(err, domain.ErrUnauthorized):
		return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Credenciais inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, "FORBIDDEN", "Acesso negado")
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return respondError(c, fiber.StatusInternalServerError, "INTERNAL", "Erro interno do servidor")
}

// ErrorHandler para fiber.Config: errores no manejados por los handlers (404 de ruta, panics recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			if fe.Code == fiber.StatusNotFound {
				code = "ROUTE_NOT_FOUND"
			}
			return respondError(c, fe.Code, code, fe.Message)
		}
		return writeError(c, log, err)
	}
}
