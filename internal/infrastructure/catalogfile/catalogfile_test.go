package catalogfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/segvenc-api/internal/infrastructure/catalogfile"
)

func TestLoad_ExamesYCursos(t *testing.T) {
	src := `
exames:
  - nome: " ASO Periódico "
    validade_dias: 365
cursos:
  - nome: NR-35
    validade_dias: 730
  - nome: NR-10
    validade_dias: 730
`
	items, err := catalogfile.Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Exame", items[0].Kind)
	assert.Equal(t, "ASO Periódico", items[0].Name)
	assert.Equal(t, 365, items[0].ValidityDays)
	assert.Equal(t, "Curso", items[2].Kind)
	assert.Equal(t, "NR-10", items[2].Name)
}

func TestLoad_Rechazos(t *testing.T) {
	cases := map[string]string{
		"sin nome":          "cursos:\n  - validade_dias: 10\n",
		"campo desconocido": "exames:\n  - nome: ASO\n    dias: 10\n",
		"yaml roto":         "exames: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalogfile.Load(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ArchivoVacio(t *testing.T) {
	items, err := catalogfile.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}
