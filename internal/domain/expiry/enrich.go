package expiry

import (
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// EnrichedRecord registro con los valores derivados de su vencimiento.
type EnrichedRecord struct {
	entity.ExpiryRecord
	Offset       int
	Tier         Tier
	LegacyStatus LegacyStatus
}

// Enrich calcula desplazamiento y nivel del registro para el día today.
// También refresca la caché desnormalizada (OffsetDays/Status) de la copia devuelta.
func Enrich(rec entity.ExpiryRecord, today time.Time) EnrichedRecord {
	offset := DayOffset(rec.DueDate, today)
	tier := TierFromOffset(offset)
	rec = withCache(rec, offset, tier)
	return EnrichedRecord{
		ExpiryRecord: rec,
		Offset:       offset,
		Tier:         tier,
		LegacyStatus: LegacyStatusFromOffset(offset),
	}
}

// EnrichAll aplica Enrich a cada registro.
func EnrichAll(recs []entity.ExpiryRecord, today time.Time) []EnrichedRecord {
	out := make([]EnrichedRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, Enrich(r, today))
	}
	return out
}

// RefreshCache recalcula OffsetDays/Status si el registro tiene vencimiento.
func RefreshCache(rec entity.ExpiryRecord, today time.Time) entity.ExpiryRecord {
	if rec.DueDate == "" {
		rec.OffsetDays = nil
		rec.Status = ""
		return rec
	}
	offset := DayOffset(rec.DueDate, today)
	return withCache(rec, offset, TierFromOffset(offset))
}

func withCache(rec entity.ExpiryRecord, offset int, tier Tier) entity.ExpiryRecord {
	o := offset
	rec.OffsetDays = &o
	rec.Status = string(tier)
	return rec
}

// FindCertification busca en el catálogo la entrada con el mismo tipo y nombre (coincidencia exacta).
func FindCertification(catalog []entity.CertificationType, kind, name string) (entity.CertificationType, bool) {
	for _, c := range catalog {
		if c.Kind == kind && c.Name == name {
			return c, true
		}
	}
	return entity.CertificationType{}, false
}

// RecomputeDueDate recalcula el vencimiento como último evento + validez del tipo de
// certificación. Sin coincidencia en el catálogo o sin fecha de último evento, el
// vencimiento no se modifica.
func RecomputeDueDate(rec entity.ExpiryRecord, catalog []entity.CertificationType, today time.Time) entity.ExpiryRecord {
	ct, ok := FindCertification(catalog, rec.Kind, rec.CertificationName)
	if !ok || rec.LastEventDate == "" {
		return rec
	}
	rec.DueDate = AddDays(rec.LastEventDate, ct.ValidityDays)
	return RefreshCache(rec, today)
}

// DueDateTriggersChanged informa si cambió algún campo que dispara el recálculo del vencimiento.
func DueDateTriggersChanged(before, after entity.ExpiryRecord) bool {
	return before.LastEventDate != after.LastEventDate ||
		before.Kind != after.Kind ||
		before.CertificationName != after.CertificationName
}

// ApplyEmployee copia al registro los datos del colaborador (autocompletado por matrícula).
func ApplyEmployee(rec entity.ExpiryRecord, emp entity.Employee) entity.ExpiryRecord {
	rec.EmployeeID = emp.ID
	rec.RegistrationNumber = emp.RegistrationNumber
	rec.EmployeeName = emp.Name
	rec.JobRole = emp.JobRole
	rec.Department = emp.Department
	rec.OperatingBase = emp.OperatingBase
	rec.AdmissionDate = emp.AdmissionDate
	return rec
}
