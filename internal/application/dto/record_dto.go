package dto

import "time"

// RecordRequest alta o edición de un registro de vencimiento.
// Si RegistrationNumber coincide con un colaborador, sus datos se completan automáticamente.
type RecordRequest struct {
	RegistrationNumber string            `json:"registration_number"`
	EmployeeName       string            `json:"employee_name"`
	JobRole            string            `json:"job_role"`
	Department         string            `json:"department"`
	OperatingBase      string            `json:"operating_base"`
	Kind               string            `json:"kind" validate:"omitempty,oneof=Exame Curso"`
	CertificationName  string            `json:"certification_name"`
	AdmissionDate      string            `json:"admission_date"`
	LastEventDate      string            `json:"last_event_date"`
	DueDate            string            `json:"due_date"`
	Note               string            `json:"note"`
	Attributes         map[string]string `json:"attributes"`
}

// RecordResponse registro con los valores derivados calculados para hoy.
type RecordResponse struct {
	ID                 string            `json:"id"`
	EmployeeID         string            `json:"employee_id,omitempty"`
	RegistrationNumber string            `json:"registration_number"`
	EmployeeName       string            `json:"employee_name"`
	JobRole            string            `json:"job_role"`
	Department         string            `json:"department"`
	OperatingBase      string            `json:"operating_base"`
	Kind               string            `json:"kind"`
	CertificationName  string            `json:"certification_name"`
	AdmissionDate      string            `json:"admission_date"`
	LastEventDate      string            `json:"last_event_date"`
	DueDate            string            `json:"due_date"`
	Note               string            `json:"note"`
	Attributes         map[string]string `json:"attributes"`
	OffsetDays         *int              `json:"offset_days"` // nil sin vencimiento
	Tier               string            `json:"tier"`
	TierLabel          string            `json:"tier_label"`
	LegacyStatus       string            `json:"legacy_status"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// RecordQuery filtros de listado de registros.
// Fields filtra por campo fijo o personalizado (igualdad sin distinguir mayúsculas).
type RecordQuery struct {
	Search string            // nombre, matrícula o examen/curso (contiene)
	Kind   string            // Exame | Curso
	Tier   string            // código de nivel
	Fields map[string]string // nombre de campo → valor
}

// RecordListResponse lista de registros.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Total int              `json:"total"`
}

// ImportResult resultado de una importación CSV.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError fila rechazada en una importación.
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
