package entity

import "time"

// Company representa una empresa/tenant del sistema (multi-tenant, enfoque Brasil).
// Todo dato del dominio pertenece exactamente a una Company.
type Company struct {
	ID                string
	Name              string
	TaxID             string // CNPJ (con o sin máscara)
	NotificationEmail string // e-mail principal; también identifica al comprador en los webhooks
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultCompanyName nombre usado al provisionar una empresa sin nombre de comprador.
const DefaultCompanyName = "Nova Empresa"

// NotificationEmail destinatario del resumen diario de vencimientos de una empresa.
type NotificationEmail struct {
	ID        string
	CompanyID string
	Email     string
	Name      string
	Active    bool
	CreatedAt time.Time
}
