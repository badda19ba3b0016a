// Package xls exporta planillas como libro SpreadsheetML 2003 (XML que Excel abre como .xls).
package xls

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
)

const (
	nsSpreadsheet = "urn:schemas-microsoft-com:office:spreadsheet"
	maxSheetName  = 31
	// ContentType cabecera HTTP del archivo generado.
	ContentType = "application/vnd.ms-excel"
)

// numericKeys columnas que se escriben como Number para que Excel pueda ordenarlas.
var numericKeys = map[string]bool{"qtde_dias": true}

// Write serializa la planilla en w.
func Write(w io.Writer, sheet *usecase.Sheet) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	wb := doc.CreateElement("Workbook")
	wb.CreateAttr("xmlns", nsSpreadsheet)
	wb.CreateAttr("xmlns:ss", nsSpreadsheet)

	style := wb.CreateElement("Styles").CreateElement("Style")
	style.CreateAttr("ss:ID", "header")
	style.CreateElement("Font").CreateAttr("ss:Bold", "1")

	ws := wb.CreateElement("Worksheet")
	ws.CreateAttr("ss:Name", sheetName(sheet.Name))
	table := ws.CreateElement("Table")

	header := table.CreateElement("Row")
	for _, c := range sheet.Columns {
		cell := header.CreateElement("Cell")
		cell.CreateAttr("ss:StyleID", "header")
		data(cell, "String", c.Label)
	}
	for _, values := range sheet.Rows {
		r := table.CreateElement("Row")
		for _, c := range sheet.Columns {
			v := values[c.Key]
			typ := "String"
			if numericKeys[c.Key] {
				if _, err := strconv.Atoi(v); err == nil {
					typ = "Number"
				}
			}
			data(r.CreateElement("Cell"), typ, v)
		}
	}

	doc.Indent(1)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("xls: escribir: %w", err)
	}
	return nil
}

func data(cell *etree.Element, typ, value string) {
	d := cell.CreateElement("Data")
	d.CreateAttr("ss:Type", typ)
	d.SetText(value)
}

// sheetName aplica las restricciones de Excel: sin []:*?/\ y hasta 31 caracteres.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Planilha"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
