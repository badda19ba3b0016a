package http

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/jhoicas/segvenc-api/internal/domain"
)

// webhookReconciler lo implementa *subscription.Reconciler.
type webhookReconciler interface {
	Handle(ctx context.Context, raw []byte) (*subscription.Result, error)
}

// WebhookHandler recibe los webhooks de la pasarela de pago (público, autenticado por secret).
type WebhookHandler struct {
	reconciler webhookReconciler
	secret     string
}

// NewWebhookHandler construye el handler. Con secret vacío todas las peticiones se rechazan.
func NewWebhookHandler(reconciler webhookReconciler, secret string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, secret: secret}
}

// Kiwify godoc
// @Summary      Webhook de Kiwify
// @Description  Registra el evento y reconcilia empresa, usuario y suscripción.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        secret  query  string  true  "Secret compartido con la pasarela"
// @Success      200  {object}  subscription.Result
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/webhooks/kiwify [post]
func (h *WebhookHandler) Kiwify(c *fiber.Ctx) error {
	if !h.authorized(c.Query("secret")) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "secret inválido"})
	}
	// c.Body() se reutiliza tras el handler; el reconciliador guarda el payload.
	raw := append([]byte(nil), c.Body()...)
	res, err := h.reconciler.Handle(c.UserContext(), raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (h *WebhookHandler) authorized(got string) bool {
	if h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
