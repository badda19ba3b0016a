package entity

import "time"

// Orígenes válidos de un CustomFilter.
const (
	FilterOriginRecords   = "registros"
	FilterOriginEmployees = "colaboradores"
)

// CustomFilter campo (fijo o personalizado) que el tenant expone como filtro
// en el dashboard y/o en la vista de registros.
type CustomFilter struct {
	ID           string
	CompanyID    string
	FieldName    string
	Origin       string // registros | colaboradores
	UseDashboard bool
	UseRecords   bool
	CreatedAt    time.Time
}

// ValidFilterOrigin informa si origin es soportado.
func ValidFilterOrigin(origin string) bool {
	return origin == FilterOriginRecords || origin == FilterOriginEmployees
}
