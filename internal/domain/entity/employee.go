package entity

import (
	"strings"
	"time"
)

// Employee representa un colaborador de la empresa.
// Attributes guarda las columnas personalizadas creadas por el tenant (esquema abierto).
type Employee struct {
	ID                 string
	CompanyID          string
	RegistrationNumber string // matrícula
	Name               string
	JobRole            string // função
	Department         string // setor
	OperatingBase      string // base operacional
	AdmissionDate      string // YYYY-MM-DD o vacío
	Attributes         map[string]string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FieldValue resuelve un campo por nombre (de aplicación o de columna) y, si no es
// un campo fijo, busca en los atributos personalizados.
func (e *Employee) FieldValue(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "matricula", "registrationnumber":
		return e.RegistrationNumber, true
	case "nome", "name":
		return e.Name, true
	case "funcao", "função", "jobrole":
		return e.JobRole, true
	case "setor", "department":
		return e.Department, true
	case "baseoperacional", "base_operacional", "operatingbase":
		return e.OperatingBase, true
	case "dataadmissao", "data_admissao", "admissiondate":
		return e.AdmissionDate, true
	}
	return attributeValue(e.Attributes, name)
}

func attributeValue(attrs map[string]string, name string) (string, bool) {
	if v, ok := attrs[name]; ok {
		return v, true
	}
	for k, v := range attrs {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
