package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
)

// Locals keys del usuario autenticado en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalStaff  = "staff"
)

// Authenticator valida un bearer token y devuelve la identidad del atendente.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.StaffIdentity, error)
}

// AuthMiddleware valida el Bearer Token y guarda la identidad en c.Locals.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Token de acesso necessário")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Token de acesso necessário")
		}
		staff, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return respondError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Token inválido ou expirado")
			}
			return err
		}
		c.Locals(LocalUserID, staff.StaffID)
		c.Locals(LocalRole, staff.Role)
		c.Locals(LocalStaff, *staff)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return respondError(c, fiber.StatusUnauthorized, "MISSING_ROLE", "Token sem perfil de acesso")
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return respondError(c, fiber.StatusForbidden, "FORBIDDEN", "Acesso restrito a: "+strings.Join(roles, ", "))
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetStaff identidad completa del usuario autenticado.
func GetStaff(c *fiber.Ctx) entity.StaffIdentity {
	s, _ := c.Locals(LocalStaff).(entity.StaffIdentity)
	return s
}
