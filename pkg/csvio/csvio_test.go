package csvio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/segvenc-api/pkg/csvio"
)

var columns = []csvio.Column{
	{Key: "matricula", Label: "Matrícula"},
	{Key: "nome", Label: "Colaborador"},
	{Key: "funcao", Label: "Função"},
}

func TestWrite_FormatoExcel(t *testing.T) {
	var buf bytes.Buffer
	err := csvio.Write(&buf, columns, []map[string]string{
		{"matricula": "001", "nome": `Ana "Aninha" Souza`, "funcao": "Técnica; SST"},
		{"nome": "Bruno"},
	})
	require.NoError(t, err)

	want := "\"Matrícula\";\"Colaborador\";\"Função\"\r\n" +
		"\"001\";\"Ana \"\"Aninha\"\" Souza\";\"Técnica; SST\"\r\n" +
		"\"\";\"Bruno\";\"\"\r\n"
	assert.Equal(t, want, buf.String())
}

func TestRead_RoundTrip(t *testing.T) {
	in := []map[string]string{
		{"matricula": "001", "nome": `Ana "Aninha"`, "funcao": "Técnica; SST"},
	}
	var buf bytes.Buffer
	require.NoError(t, csvio.Write(&buf, columns, in))

	rows, err := csvio.Read(&buf, columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, in[0], rows[0].Values)
	assert.Equal(t, 2, rows[0].Line)
}

func TestRead_EncabezadoSinMayusculasYColumnasIgnoradas(t *testing.T) {
	text := "colaborador,EXTRA,  matrícula \n" +
		"Ana,x,001\n" +
		",,\n" +
		"Bruno,y,002\n"

	rows, err := csvio.Read(strings.NewReader(text), columns)
	require.NoError(t, err)
	require.Len(t, rows, 2, "la fila vacía se descarta")
	assert.Equal(t, map[string]string{"nome": "Ana", "matricula": "001"}, rows[0].Values)
	assert.Equal(t, 4, rows[1].Line)
}

func TestRead_Windows1252(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().String("Matrícula;Função\r\n7;Eletricista Sênior\r\n")
	require.NoError(t, err)

	rows, err := csvio.Read(strings.NewReader(latin), columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Eletricista Sênior", rows[0].Values["funcao"])
}

func TestRead_BOMYVacio(t *testing.T) {
	rows, err := csvio.Read(strings.NewReader("\xef\xbb\xbf\"Colaborador\"\r\n\"Ana\"\r\n"), columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].Values["nome"])

	rows, err = csvio.Read(strings.NewReader("  \n"), columns)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
