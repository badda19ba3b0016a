package xls_test

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/xls"
	"github.com/jhoicas/segvenc-api/pkg/csvio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_LibroSpreadsheetML(t *testing.T) {
	sheet := &usecase.Sheet{
		Name: "Registros",
		Columns: []csvio.Column{
			{Key: "colaborador_nome", Label: "Colaborador"},
			{Key: "qtde_dias", Label: "Qtde Dias"},
		},
		Rows: []map[string]string{
			{"colaborador_nome": "Jane <Doe> & Cia", "qtde_dias": "7"},
			{"colaborador_nome": "Sem data", "qtde_dias": ""},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, xls.Write(&buf, sheet))
	assert.Contains(t, buf.String(), `progid="Excel.Sheet"`)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	ws := doc.FindElement("//Worksheet")
	require.NotNil(t, ws)
	assert.Equal(t, "Registros", ws.SelectAttrValue("ss:Name", ""))

	rows := doc.FindElements("//Table/Row")
	require.Len(t, rows, 3)
	assert.Equal(t, "Colaborador", rows[0].FindElement("Cell/Data").Text())

	cells := rows[1].FindElements("Cell/Data")
	require.Len(t, cells, 2)
	assert.Equal(t, "Jane <Doe> & Cia", cells[0].Text())
	assert.Equal(t, "Number", cells[1].SelectAttrValue("ss:Type", ""))

	empty := rows[2].FindElements("Cell/Data")
	assert.Equal(t, "String", empty[1].SelectAttrValue("ss:Type", ""))
}

func TestWrite_NombreDeHojaSaneado(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xls.Write(&buf, &usecase.Sheet{Name: "Exames/Cursos [2025] com nome muito longo demais"}))
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	name := doc.FindElement("//Worksheet").SelectAttrValue("ss:Name", "")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "[")
	assert.LessOrEqual(t, len([]rune(name)), 31)
}
