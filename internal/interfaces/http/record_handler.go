package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

// RecordHandler registros de vencimiento, panel, planillas e informe PDF.
type RecordHandler struct {
	uc     *usecase.RecordUseCase
	report *usecase.ReportUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *usecase.RecordUseCase, report *usecase.ReportUseCase) *RecordHandler {
	return &RecordHandler{uc: uc, report: report}
}

// List godoc
// @Summary      Listar registros de vencimiento
// @Description  Ordenados por días restantes. kind=Exame|Curso, tier=código de nivel; el resto filtra por campo.
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, matrícula o examen/curso"
// @Param        kind    query  string  false  "Exame o Curso"
// @Param        tier    query  string  false  "Nivel de riesgo"
// @Success      200  {object}  dto.RecordListResponse
// @Router       /api/records [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), recordQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.RecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{id} [get]
func (h *RecordHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro
// @Description  Completa datos del colaborador por matrícula y calcula el vencimiento desde el catálogo.
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordRequest  true  "Registro"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/records [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordRequest
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
// @Summary      Actualizar registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del registro"
// @Param        body  body  dto.RecordRequest  true  "Registro"
// @Success      200   {object}  dto.RecordResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/records/{id} [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	var in dto.RecordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Dashboard godoc
// @Summary      Panel de vencimientos
// @Description  Conteo por nivel de riesgo y próximos vencimientos.
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *RecordHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetCompanyID(c), fieldFilters(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar registros (CSV)
// @Tags         records
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/records/import [post]
func (h *RecordHandler) Import(c *fiber.Ctx) error {
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
// @Summary      Exportar registros filtrados (CSV)
// @Tags         records
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/records/export.csv [get]
func (h *RecordHandler) ExportCSV(c *fiber.Ctx) error {
	sheet, err := h.uc.Export(c.UserContext(), GetCompanyID(c), recordQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, sheet)
}

// ExportXLS exporta los registros filtrados como planilla Excel.
func (h *RecordHandler) ExportXLS(c *fiber.Ctx) error {
	sheet, err := h.uc.Export(c.UserContext(), GetCompanyID(c), recordQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendXLS(c, sheet)
}

// ReportPDF godoc
// @Summary      Informe de vencimientos (PDF)
// @Tags         records
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/records/report.pdf [get]
func (h *RecordHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, err := h.report.ExpiryPDF(c.UserContext(), GetCompanyID(c), recordQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("vencimentos-%s", h.uc.Today().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, attachment(name, "pdf"))
	return c.Send(pdf)
}
