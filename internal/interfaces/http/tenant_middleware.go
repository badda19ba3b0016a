package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// Locals keys del usuario interno y su empresa (después de TenantMiddleware).
const (
	LocalUser      = "user"
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// sessionResolver es el contrato mínimo que necesita el middleware para resolver el tenant.
// Lo implementa *usecase.SessionUseCase.
type sessionResolver interface {
	Resolve(ctx context.Context, authUserID string) (*entity.User, error)
}

// TenantMiddleware resuelve el usuario interno de la identidad autenticada y carga
// usuario, empresa y rol en c.Locals. Debe usarse DESPUÉS de AuthMiddleware.
// Toda consulta posterior se acota a GetCompanyID(c).
func TenantMiddleware(resolver sessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authUserID := GetAuthUserID(c)
		if authUserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no encontrada en el token"})
		}
		u, err := resolver.Resolve(c.UserContext(), authUserID)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUser, u)
		c.Locals(LocalUserID, u.ID)
		c.Locals(LocalCompanyID, u.CompanyID)
		c.Locals(LocalRole, u.Role)
		return c.Next()
	}
}

// RequireRole permite continuar solo si el rol del usuario está en roles.
// 401 si no hay rol en el contexto; 403 si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no encontrado"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetUser devuelve el usuario interno del contexto.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el ID del usuario interno del contexto.
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetCompanyID devuelve el CompanyID del contexto.
func GetCompanyID(c *fiber.Ctx) string {
	return localString(c, LocalCompanyID)
}

// GetRole devuelve el rol del usuario interno del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}
