package dto

import "time"

// UpdateCompanyRequest entrada para actualizar los datos de la empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID             *string `json:"tax_id" validate:"omitempty,max=20"`
	NotificationEmail *string `json:"notification_email" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	TaxID             string    `json:"tax_id"`
	NotificationEmail string    `json:"notification_email"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateNotificationEmailRequest alta de un destinatario del resumen diario.
type CreateNotificationEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=200"`
}

// NotificationEmailResponse destinatario del resumen diario.
type NotificationEmailResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TestEmailRequest destinatario opcional del correo de prueba.
type TestEmailRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

// TestEmailResponse destinatarios a los que se envió el correo de prueba.
type TestEmailResponse struct {
	Sent       bool     `json:"sent"`
	Recipients []string `json:"recipients"`
}
