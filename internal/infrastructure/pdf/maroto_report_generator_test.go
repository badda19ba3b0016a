package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExpiryReport_ProducePDF(t *testing.T) {
	today := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	records := expiry.EnrichAll([]entity.ExpiryRecord{
		{EmployeeName: "Jane Doe", RegistrationNumber: "M-1", Kind: entity.KindExam, CertificationName: "ASO", DueDate: "2025-01-10"},
		{EmployeeName: "João Silva", RegistrationNumber: "M-2", Kind: entity.KindCourse, CertificationName: "NR-35", DueDate: "2024-12-30"},
	}, today)

	g := pdf.NewMarotoReportGenerator()
	out, err := g.GenerateExpiryReport(context.Background(), &entity.Company{Name: "Acme", TaxID: "12.345.678/0001-90"}, today, records)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateExpiryReport_SinRegistros(t *testing.T) {
	g := pdf.NewMarotoReportGenerator()
	out, err := g.GenerateExpiryReport(context.Background(), &entity.Company{Name: "Acme"}, time.Now(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
