package usecase

import (
	"sort"
	"strconv"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/pkg/csvio"
)

// Sheet planilla lista para exportar (CSV, XLS o PDF).
type Sheet struct {
	Name    string
	Columns []csvio.Column
	Rows    []map[string]string
}

// Columnas fijas de la planilla de colaboradores.
var employeeColumns = []csvio.Column{
	{Key: "matricula", Label: "Matrícula"},
	{Key: "nome", Label: "Colaborador"},
	{Key: "funcao", Label: "Função"},
	{Key: "setor", Label: "Setor"},
	{Key: "base_operacional", Label: "Base Operacional"},
	{Key: "data_admissao", Label: "Data Admissão"},
}

// Columnas fijas de la planilla de registros.
var recordColumns = []csvio.Column{
	{Key: "matricula", Label: "Matrícula"},
	{Key: "colaborador_nome", Label: "Colaborador"},
	{Key: "funcao", Label: "Função"},
	{Key: "setor", Label: "Setor"},
	{Key: "base_operacional", Label: "Base Operacional"},
	{Key: "curso_exame", Label: "Curso/Exame"},
	{Key: "tipo", Label: "Tipo"},
	{Key: "data_admissao", Label: "Data Admissão"},
	{Key: "data_ultimo_evento", Label: "Data Último Evento"},
	{Key: "vencimento", Label: "Vencimento"},
	{Key: "qtde_dias", Label: "Qtde Dias"},
	{Key: "status", Label: "Status"},
	{Key: "risco", Label: "Risco"},
	{Key: "observacao", Label: "Observação"},
}

// attrKey prefijo de las claves de atributos personalizados en las filas de planilla.
const attrKey = "attr:"

// withAttributeColumns agrega una columna por cada nombre de atributo, ordenados.
func withAttributeColumns(base []csvio.Column, names map[string]struct{}) []csvio.Column {
	extra := make([]string, 0, len(names))
	for n := range names {
		extra = append(extra, n)
	}
	sort.Strings(extra)
	cols := append([]csvio.Column{}, base...)
	for _, n := range extra {
		cols = append(cols, csvio.Column{Key: attrKey + n, Label: n})
	}
	return cols
}

func employeeRow(e *entity.Employee) map[string]string {
	row := map[string]string{
		"matricula":        e.RegistrationNumber,
		"nome":             e.Name,
		"funcao":           e.JobRole,
		"setor":            e.Department,
		"base_operacional": e.OperatingBase,
		"data_admissao":    e.AdmissionDate,
	}
	for k, v := range e.Attributes {
		row[attrKey+k] = v
	}
	return row
}

func recordRow(r expiry.EnrichedRecord) map[string]string {
	row := map[string]string{
		"matricula":          r.RegistrationNumber,
		"colaborador_nome":   r.EmployeeName,
		"funcao":             r.JobRole,
		"setor":              r.Department,
		"base_operacional":   r.OperatingBase,
		"curso_exame":        r.CertificationName,
		"tipo":               r.Kind,
		"data_admissao":      r.AdmissionDate,
		"data_ultimo_evento": r.LastEventDate,
		"vencimento":         r.DueDate,
		"observacao":         r.Note,
	}
	if r.DueDate != "" {
		row["qtde_dias"] = strconv.Itoa(r.Offset)
		row["status"] = string(r.LegacyStatus)
		row["risco"] = r.Tier.Label()
	}
	for k, v := range r.Attributes {
		row[attrKey+k] = v
	}
	return row
}

// splitAttributes separa de una fila importada los valores de atributos personalizados.
func splitAttributes(values map[string]string) map[string]string {
	attrs := make(map[string]string)
	for k, v := range values {
		if len(k) > len(attrKey) && k[:len(attrKey)] == attrKey && v != "" {
			attrs[k[len(attrKey):]] = v
		}
	}
	return attrs
}
