package dto

import "time"

// CertificationRequest alta o edición de un tipo de examen/curso.
type CertificationRequest struct {
	Kind         string `json:"kind" validate:"required,oneof=Exame Curso"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	ValidityDays int    `json:"validity_days" validate:"min=0"`
}

// CertificationResponse salida de un tipo de examen/curso.
type CertificationResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	ValidityDays int       `json:"validity_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
