package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/pkg/jwt"
)

// Locals keys de Fiber.
const (
	LocalEmail     = "email"
	LocalSession   = "session"
	LocalRequestID = "request_id"
)

// AuthMiddleware valida el Bearer Token JWT y deja el email del usuario en c.Locals.
// El token lo emite el proveedor de identidad; aquí solo se verifica la firma y se lee el email.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		email, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalEmail, email)
		return c.Next()
	}
}

// SessionBinder resuelve el email autenticado a la sesión de su empresa. Lo implementa *tenancy.Resolver.
type SessionBinder interface {
	Bind(ctx context.Context, email string) (*tenancy.Session, error)
}

// TenantMiddleware resuelve el tenant de quien llama y deja la Session en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware.
func TenantMiddleware(binder SessionBinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := GetEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "email no encontrado en el token"})
		}
		sess, err := binder.Bind(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, domain.ErrTenantNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: err.Error()})
			}
			return respondError(c, err)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// RequireRole rechaza con 403 a quien no tenga alguno de los roles indicados.
// Debe usarse DESPUÉS de TenantMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no resuelta"})
		}
		if !allowed[string(sess.Role)] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
		}
		return c.Next()
	}
}

// GetEmail devuelve el email autenticado (después de AuthMiddleware).
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetSession devuelve la sesión del tenant (después de TenantMiddleware).
func GetSession(c *fiber.Ctx) *tenancy.Session {
	s, _ := c.Locals(LocalSession).(*tenancy.Session)
	return s
}

// GetRequestID devuelve el id asignado por RequestLogger.
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}
