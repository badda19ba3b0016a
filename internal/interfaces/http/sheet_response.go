package http

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/xls"
	"github.com/jhoicas/segvenc-api/pkg/csvio"
)

// reservedQuery parámetros de listado que no son filtros por campo.
var reservedQuery = map[string]struct{}{
	"search": {}, "q": {}, "kind": {}, "tier": {},
}

// fieldFilters toma los parámetros de query restantes como filtros por campo.
func fieldFilters(c *fiber.Ctx) map[string]string {
	out := make(map[string]string)
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if _, ok := reservedQuery[key]; ok {
			return
		}
		if val := strings.TrimSpace(string(v)); val != "" {
			out[key] = val
		}
	})
	return out
}

func recordQuery(c *fiber.Ctx) dto.RecordQuery {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}
	return dto.RecordQuery{
		Search: search,
		Kind:   c.Query("kind"),
		Tier:   c.Query("tier"),
		Fields: fieldFilters(c),
	}
}

// uploadReader devuelve el CSV enviado como multipart (campo "file") o como cuerpo crudo.
func uploadReader(c *fiber.Ctx) (io.Reader, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(raw), nil
	}
	if len(c.Body()) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "archivo CSV vacío")
	}
	return bytes.NewReader(append([]byte(nil), c.Body()...)), nil
}

func sendCSV(c *fiber.Ctx, sheet *usecase.Sheet) error {
	var buf bytes.Buffer
	if err := csvio.Write(&buf, sheet.Columns, sheet.Rows); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachment(sheet.Name, "csv"))
	return c.Send(buf.Bytes())
}

func sendXLS(c *fiber.Ctx, sheet *usecase.Sheet) error {
	var buf bytes.Buffer
	if err := xls.Write(&buf, sheet); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xls.ContentType)
	c.Set(fiber.HeaderContentDisposition, attachment(sheet.Name, "xls"))
	return c.Send(buf.Bytes())
}

func attachment(name, ext string) string {
	if name == "" {
		name = "export"
	}
	return fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext)
}

func importFailed(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: fe.Message})
	}
	return writeError(c, err)
}
