package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// SessionHandler primer login: vincula la identidad del proveedor con el usuario interno.
type SessionHandler struct {
	uc *usecase.SessionUseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *usecase.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Bootstrap godoc
// @Summary      Asegurar empresa y usuario del login
// @Description  Vincula un usuario pre-provisionado por e-mail o crea empresa + admin.
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BootstrapRequest  false  "Nombre del usuario y de la empresa"
// @Success      200   {object}  dto.SessionResponse
// @Success      201   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/session/bootstrap [post]
func (h *SessionHandler) Bootstrap(c *fiber.Ctx) error {
	var in dto.BootstrapRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Bootstrap(c.UserContext(), usecase.Identity{
		AuthUserID: GetAuthUserID(c),
		Email:      GetEmail(c),
	}, in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}
