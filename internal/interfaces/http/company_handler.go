package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// CompanyHandler configuración de la empresa y destinatarios del resumen diario.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener la empresa del usuario
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre, CNPJ y e-mail de notificación
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListNotificationEmails godoc
// @Summary      Listar destinatarios del resumen diario
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationEmailResponse
// @Router       /api/company/notification-emails [get]
func (h *CompanyHandler) ListNotificationEmails(c *fiber.Ctx) error {
	out, err := h.uc.ListNotificationEmails(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddNotificationEmail godoc
// @Summary      Agregar destinatario
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNotificationEmailRequest  true  "E-mail y nombre"
// @Success      201   {object}  dto.NotificationEmailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/company/notification-emails [post]
func (h *CompanyHandler) AddNotificationEmail(c *fiber.Ctx) error {
	var in dto.CreateNotificationEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddNotificationEmail(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteNotificationEmail godoc
// @Summary      Quitar destinatario
// @Tags         company
// @Security     Bearer
// @Param        id   path  string  true  "ID del destinatario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company/notification-emails/{id} [delete]
func (h *CompanyHandler) DeleteNotificationEmail(c *fiber.Ctx) error {
	if err := h.uc.DeleteNotificationEmail(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
