package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// FilterHandler campos personalizados (filtros) de la empresa.
type FilterHandler struct {
	uc *usecase.CustomFilterUseCase
}

func NewFilterHandler(uc *usecase.CustomFilterUseCase) *FilterHandler {
	return &FilterHandler{uc: uc}
}

// List godoc
// @Summary      Listar campos personalizados
// @Tags         filters
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CustomFilterResponse
// @Router       /api/custom-filters [get]
func (h *FilterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *FilterHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *FilterHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *FilterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
