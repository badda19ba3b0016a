package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// CertificationHandler catálogo de exámenes y cursos con su validez.
type CertificationHandler struct {
	uc *usecase.CertificationUseCase
}

func NewCertificationHandler(uc *usecase.CertificationUseCase) *CertificationHandler {
	return &CertificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar catálogo de exámenes y cursos
// @Tags         certifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CertificationResponse
// @Router       /api/certifications [get]
func (h *CertificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear entrada del catálogo
// @Tags         certifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CertificationRequest  true  "Nombre, tipo y validez en días"
// @Success      201   {object}  dto.CertificationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/certifications [post]
func (h *CertificationHandler) Create(c *fiber.Ctx) error {
	var in dto.CertificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CertificationHandler) Update(c *fiber.Ctx) error {
	var in dto.CertificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CertificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
