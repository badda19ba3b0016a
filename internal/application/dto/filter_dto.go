package dto

import "time"

// CustomFilterRequest alta o edición de un filtro personalizado.
type CustomFilterRequest struct {
	FieldName    string `json:"field_name" validate:"required,max=100"`
	Origin       string `json:"origin" validate:"required,oneof=registros colaboradores"`
	UseDashboard bool   `json:"use_dashboard"`
	UseRecords   bool   `json:"use_records"`
}

// CustomFilterResponse filtro personalizado.
type CustomFilterResponse struct {
	ID           string    `json:"id"`
	FieldName    string    `json:"field_name"`
	Origin       string    `json:"origin"`
	UseDashboard bool      `json:"use_dashboard"`
	UseRecords   bool      `json:"use_records"`
	CreatedAt    time.Time `json:"created_at"`
}
