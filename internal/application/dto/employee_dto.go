package dto

import "time"

// EmployeeRequest alta o edición de un colaborador.
type EmployeeRequest struct {
	RegistrationNumber string            `json:"registration_number" validate:"max=50"`
	Name               string            `json:"name" validate:"required,min=1,max=200"`
	JobRole            string            `json:"job_role"`
	Department         string            `json:"department"`
	OperatingBase      string            `json:"operating_base"`
	AdmissionDate      string            `json:"admission_date"` // YYYY-MM-DD o DD/MM/YYYY
	Attributes         map[string]string `json:"attributes"`
}

// EmployeeResponse salida de un colaborador.
type EmployeeResponse struct {
	ID                 string            `json:"id"`
	RegistrationNumber string            `json:"registration_number"`
	Name               string            `json:"name"`
	JobRole            string            `json:"job_role"`
	Department         string            `json:"department"`
	OperatingBase      string            `json:"operating_base"`
	AdmissionDate      string            `json:"admission_date"`
	Attributes         map[string]string `json:"attributes"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// EmployeeListResponse lista de colaboradores.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Total int                `json:"total"`
}
