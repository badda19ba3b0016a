package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
)

// subscriptionChecker lo implementa *subscription.ActiveUseCase.
type subscriptionChecker interface {
	HasActive(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveSubscription bloquea la API del tenant cuando la empresa no tiene
// suscripción activa vigente. Debe usarse DESPUÉS de TenantMiddleware.
//
// Comportamiento:
//   - 402 Payment Required → sin suscripción activa con data_fim >= hoy.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - enforce=false deja pasar todo (entornos de desarrollo).
func RequireActiveSubscription(checker subscriptionChecker, enforce bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enforce {
			return c.Next()
		}
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el contexto",
			})
		}

		active, err := checker.HasActive(c.UserContext(), companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_CHECK_FAILED",
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_REQUIRED",
				Message: "assinatura ativa requerida",
			})
		}
		return c.Next()
	}
}
