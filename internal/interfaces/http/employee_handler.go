package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// EmployeeHandler colaboradores de la empresa.
type EmployeeHandler struct {
	uc *usecase.EmployeeUseCase
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// List godoc
// @Summary      Listar colaboradores
// @Description  search busca en nombre y matrícula; cualquier otro parámetro filtra por campo.
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto a buscar"
// @Success      200  {object}  dto.EmployeeListResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), c.Query("search"), fieldFilters(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener colaborador
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del colaborador"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear colaborador
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeRequest  true  "Colaborador"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar colaborador
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del colaborador"
// @Param        body  body  dto.EmployeeRequest  true  "Colaborador"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar colaborador
// @Tags         employees
// @Security     Bearer
// @Param        id   path  string  true  "ID del colaborador"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar colaboradores (CSV)
// @Description  Inserta o actualiza por matrícula. Acepta multipart (campo file) o el CSV en el cuerpo.
// @Tags         employees
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/employees/import [post]
func (h *EmployeeHandler) Import(c *fiber.Ctx) error {
	r, err := uploadReader(c)
	if err != nil {
		return importFailed(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), GetCompanyID(c), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar colaboradores (CSV)
// @Tags         employees
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/employees/export.csv [get]
func (h *EmployeeHandler) ExportCSV(c *fiber.Ctx) error {
	sheet, err := h.uc.Export(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, sheet)
}

// ExportXLS exporta los colaboradores como planilla Excel.
func (h *EmployeeHandler) ExportXLS(c *fiber.Ctx) error {
	sheet, err := h.uc.Export(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendXLS(c, sheet)
}
