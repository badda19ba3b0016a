package entity

import "time"

// Tipos de certificación soportados (deben coincidir con el CHECK de exames_cursos.tipo).
const (
	KindExam   = "Exame"
	KindCourse = "Curso"
)

// ValidKind informa si kind es Exame o Curso.
func ValidKind(kind string) bool {
	return kind == KindExam || kind == KindCourse
}

// CertificationType entrada del catálogo de exámenes/cursos con su período de validez.
type CertificationType struct {
	ID           string
	CompanyID    string
	Kind         string // Exame | Curso
	Name         string
	ValidityDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
