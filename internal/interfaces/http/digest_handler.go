package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
)

type digestComposer interface {
	Preview(ctx context.Context, companyID string) (string, *digest.TenantDigest, error)
	SendTest(ctx context.Context, companyID, to string) ([]string, error)
}

// DigestHandler vista previa del resumen diario y correo de prueba de la empresa.
type DigestHandler struct {
	composer digestComposer
}

func NewDigestHandler(composer digestComposer) *DigestHandler {
	return &DigestHandler{composer: composer}
}

// Preview godoc
// @Summary      Vista previa del resumen diario
// @Description  Devuelve el HTML que recibirían los destinatarios hoy. 404 si no hay ítems.
// @Tags         digest
// @Security     Bearer
// @Produce      html
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/digest/preview [post]
func (h *DigestHandler) Preview(c *fiber.Ctx) error {
	html, d, err := h.composer.Preview(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set("X-Digest-Items", strconv.Itoa(d.Total()))
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// SendTest godoc
// @Summary      Enviar correo de prueba de notificaciones
// @Description  Sin "to" se envía a los e-mails de notificación activos de la empresa. Solo administradores.
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TestEmailRequest  false  "Destinatario opcional"
// @Success      200   {object}  dto.TestEmailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company/notification-emails/test [post]
func (h *DigestHandler) SendTest(c *fiber.Ctx) error {
	var in dto.TestEmailRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	to, err := h.composer.SendTest(c.UserContext(), GetCompanyID(c), in.To)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TestEmailResponse{Sent: true, Recipients: to})
}
