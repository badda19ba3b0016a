// Package expiry concentra las reglas puras de vencimiento: desplazamiento en días
// calendario hasta la fecha de vencimiento, clasificación por nivel de riesgo y
// recálculo del vencimiento a partir del catálogo de exámenes/cursos.
//
// Todas las funciones reciben "hoy" explícitamente; no leen el reloj del proceso.
package expiry

import (
	"strings"
	"time"
)

// ISODate formato de fecha usado en entidades, DTOs y CSV.
const ISODate = "2006-01-02"

// Clock devuelve el instante actual; se inyecta para poder fijar "hoy" en tests y jobs.
type Clock func() time.Time

// NewClock construye un reloj en la zona horaria indicada (nil = UTC).
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock reloj que siempre devuelve t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// ParseDate interpreta una fecha ISO (YYYY-MM-DD), un timestamp RFC 3339 o una fecha
// pt-BR (DD/MM/YYYY). Devuelve la medianoche UTC del día calendario.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		t, err := time.Parse("02/01/2006", s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if len(s) > len(ISODate) {
		s = s[:len(ISODate)]
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeDate convierte cualquier formato aceptado por ParseDate a YYYY-MM-DD.
// Devuelve "" y false si s no es una fecha válida.
func NormalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format(ISODate), true
}

// midnight devuelve la medianoche UTC del día calendario de t en su propia zona.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayOffset días calendario con signo entre hoy y targetISO (negativo = ya venció).
// Ignora la hora de ambos lados. Devuelve 0 si targetISO está vacío o es inválido.
func DayOffset(targetISO string, today time.Time) int {
	target, ok := ParseDate(targetISO)
	if !ok {
		return 0
	}
	return int(target.Sub(midnight(today)).Hours() / 24)
}

// AddDays suma days días calendario a dateISO. Devuelve la entrada sin cambios si
// days es 0, si está vacía o si no es una fecha válida.
func AddDays(dateISO string, days int) string {
	if days == 0 || dateISO == "" {
		return dateISO
	}
	t, ok := ParseDate(dateISO)
	if !ok {
		return dateISO
	}
	return t.AddDate(0, 0, days).Format(ISODate)
}

// Today devuelve la fecha de hoy en formato ISO.
func Today(now time.Time) string {
	return midnight(now).Format(ISODate)
}
