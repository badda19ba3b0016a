package digest

import (
	"sort"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
)

// Horizon días hacia adelante que entran en el resumen.
const Horizon = expiry.LowRiskMaxDays

// Item línea del resumen.
type Item struct {
	RecordID          string
	EmployeeName      string
	Kind              string
	CertificationName string
	DueDate           string // YYYY-MM-DD
	Offset            int
	Note              string
}

// Partition grupo de ítems con la cantidad de colaboradores distintos afectados.
type Partition struct {
	Items     []Item
	Employees int
}

// Count cantidad de ítems del grupo.
func (p Partition) Count() int { return len(p.Items) }

// TenantDigest resumen de una empresa.
type TenantDigest struct {
	CompanyID   string
	CompanyName string
	Overdue     Partition // offset < 0
	DueToday    Partition // offset == 0
	DueSoon     Partition // 1..Horizon
	Items       []Item    // todos, ordenados por offset
	Employees   int       // colaboradores distintos en total
}

// Total cantidad total de ítems de la empresa.
func (d *TenantDigest) Total() int { return len(d.Items) }

// Summarize agrupa por empresa los registros cuyo desplazamiento es <= Horizon, recalculado
// para today. Las empresas sin ítems no aparecen. El resultado se ordena por CompanyID.
func Summarize(records []entity.ExpiryRecord, today time.Time) []*TenantDigest {
	byCompany := make(map[string]*TenantDigest)
	for _, rec := range records {
		if rec.DueDate == "" {
			continue
		}
		if _, ok := expiry.ParseDate(rec.DueDate); !ok {
			continue
		}
		offset := expiry.DayOffset(rec.DueDate, today)
		if offset > Horizon {
			continue
		}
		d, ok := byCompany[rec.CompanyID]
		if !ok {
			d = &TenantDigest{CompanyID: rec.CompanyID}
			byCompany[rec.CompanyID] = d
		}
		d.Items = append(d.Items, Item{
			RecordID:          rec.ID,
			EmployeeName:      rec.EmployeeName,
			Kind:              rec.Kind,
			CertificationName: rec.CertificationName,
			DueDate:           rec.DueDate,
			Offset:            offset,
			Note:              rec.Note,
		})
	}

	out := make([]*TenantDigest, 0, len(byCompany))
	for _, d := range byCompany {
		sort.SliceStable(d.Items, func(i, j int) bool {
			if d.Items[i].Offset != d.Items[j].Offset {
				return d.Items[i].Offset < d.Items[j].Offset
			}
			return d.Items[i].EmployeeName < d.Items[j].EmployeeName
		})
		var overdue, today, soon []Item
		for _, it := range d.Items {
			switch {
			case it.Offset < 0:
				overdue = append(overdue, it)
			case it.Offset == 0:
				today = append(today, it)
			default:
				soon = append(soon, it)
			}
		}
		d.Overdue = newPartition(overdue)
		d.DueToday = newPartition(today)
		d.DueSoon = newPartition(soon)
		d.Employees = distinctEmployees(d.Items)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyID < out[j].CompanyID })
	return out
}

func newPartition(items []Item) Partition {
	return Partition{Items: items, Employees: distinctEmployees(items)}
}

func distinctEmployees(items []Item) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[it.EmployeeName] = struct{}{}
	}
	return len(seen)
}
