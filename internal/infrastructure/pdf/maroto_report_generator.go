// Package pdf genera el informe de vencimientos en PDF.
//
// Layout de la página A4 (apaisada):
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ         │  Relatório de Vencimentos + Data │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  RESUMO: contagem por nível de risco                             │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABELA: Colaborador | Matrícula | Tipo | Curso/Exame | ...      │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  FOOTER: legenda dos níveis                                      │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
)

var _ ports.ExpiryReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}

	tierColors = map[expiry.Tier]*props.Color{
		expiry.TierOverdue:    {Red: 185, Green: 28, Blue: 28},
		expiry.TierDueToday:   {Red: 194, Green: 65, Blue: 12},
		expiry.TierHighRisk:   {Red: 217, Green: 119, Blue: 6},
		expiry.TierMediumRisk: {Red: 202, Green: 138, Blue: 4},
		expiry.TierLowRisk:    {Red: 37, Green: 99, Blue: 235},
		expiry.TierOK:         {Red: 22, Green: 163, Blue: 74},
	}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ExpiryReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateExpiryReport genera el PDF y devuelve sus bytes. records se imprime en el orden recibido.
func (g *MarotoReportGenerator) GenerateExpiryReport(
	_ context.Context,
	company *entity.Company,
	today time.Time,
	records []expiry.EnrichedRecord,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Relatório de Vencimentos", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, today))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(records))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(records) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Nenhum registro com vencimento informado.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableDetailRows(records)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(legendRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company *entity.Company, today time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO DE VENCIMENTOS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Data de referência: "+today.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: una columna por nivel con su conteo.
func summaryRow(records []expiry.EnrichedRecord) core.Row {
	counts := make(map[expiry.Tier]int, len(expiry.Tiers))
	for _, r := range records {
		counts[r.Tier]++
	}
	cols := make([]core.Col, 0, len(expiry.Tiers))
	for _, t := range expiry.Tiers {
		cols = append(cols, col.New(2).Add(
			text.New(strconv.Itoa(counts[t]), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: tierColors[t], Top: 1,
			}),
			text.New(t.Label(), props.Text{
				Size: 7, Align: align.Center, Top: 9, Color: colorGray,
			}),
		))
	}
	return row.New(15).Add(cols...)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Colaborador", 3, align.Left),
		h("Matrícula", 1, align.Left),
		h("Tipo", 1, align.Left),
		h("Curso/Exame", 3, align.Left),
		h("Vencimento", 1, align.Center),
		h("Dias", 1, align.Center),
		h("Risco", 2, align.Left),
	)
}

func tableDetailRows(records []expiry.EnrichedRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		cell := func(a align.Type) props.Text {
			return props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
		}
		risk := cell(align.Left)
		risk.Style = fontstyle.Bold
		risk.Color = tierColors[r.Tier]

		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(r.EmployeeName, cell(align.Left))),
			col.New(1).Add(text.New(r.RegistrationNumber, cell(align.Left))),
			col.New(1).Add(text.New(r.Kind, cell(align.Left))),
			col.New(3).Add(text.New(r.CertificationName, cell(align.Left))),
			col.New(1).Add(text.New(brDate(r.DueDate), cell(align.Center))),
			col.New(1).Add(text.New(strconv.Itoa(r.Offset), cell(align.Center))),
			col.New(2).Add(text.New(r.Tier.Label(), risk)),
		))
	}
	return result
}

func legendRow() core.Row {
	parts := []string{
		fmt.Sprintf("Risco alto: até %d dias", expiry.HighRiskMaxDays),
		fmt.Sprintf("Risco médio: até %d dias", expiry.MediumRiskMaxDays),
		fmt.Sprintf("Risco baixo: até %d dias", expiry.LowRiskMaxDays),
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(strings.Join(parts, "   |   "), props.Text{Size: 7, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// brDate convierte YYYY-MM-DD en DD/MM/YYYY.
func brDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
