package entity

import (
	"strconv"
	"strings"
	"time"
)

// ExpiryRecord registro de vencimiento de un examen/curso de un colaborador.
// Los datos del colaborador están desnormalizados (se copian por matrícula).
// OffsetDays y Status son la caché persistida; se recalculan en cada lectura.
type ExpiryRecord struct {
	ID                 string
	CompanyID          string
	EmployeeID         string
	RegistrationNumber string
	EmployeeName       string
	JobRole            string
	Department         string
	OperatingBase      string
	Kind               string // Exame | Curso
	CertificationName  string
	AdmissionDate      string // YYYY-MM-DD o vacío
	LastEventDate      string // YYYY-MM-DD o vacío
	DueDate            string // YYYY-MM-DD o vacío
	OffsetDays         *int
	Status             string
	Note               string // estado libre informado por el usuario
	Attributes         map[string]string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FieldValue resuelve un campo por nombre (de aplicación o de columna) y, si no es
// un campo fijo, busca en los atributos personalizados.
func (r *ExpiryRecord) FieldValue(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "matricula", "registrationnumber":
		return r.RegistrationNumber, true
	case "colaboradornome", "colaborador_nome", "employeename":
		return r.EmployeeName, true
	case "funcao", "função", "jobrole":
		return r.JobRole, true
	case "setor", "department":
		return r.Department, true
	case "baseoperacional", "base_operacional", "operatingbase":
		return r.OperatingBase, true
	case "tipo", "kind":
		return r.Kind, true
	case "cursoexame", "curso_exame", "certificationname":
		return r.CertificationName, true
	case "dataadmissao", "data_admissao", "admissiondate":
		return r.AdmissionDate, true
	case "dataultimoevento", "data_ultimo_evento", "lasteventdate":
		return r.LastEventDate, true
	case "vencimento", "duedate":
		return r.DueDate, true
	case "qtdedias", "qtde_dias", "offsetdays":
		if r.OffsetDays == nil {
			return "", true
		}
		return strconv.Itoa(*r.OffsetDays), true
	case "status":
		return r.Status, true
	case "observacao", "note":
		return r.Note, true
	}
	return attributeValue(r.Attributes, name)
}
