package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// ReportUseCase informe PDF de vencimientos de la empresa.
type ReportUseCase struct {
	records   *RecordUseCase
	companies repository.CompanyRepository
	generator ports.ExpiryReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(records *RecordUseCase, companies repository.CompanyRepository, generator ports.ExpiryReportGenerator) *ReportUseCase {
	return &ReportUseCase{records: records, companies: companies, generator: generator}
}

// ExpiryPDF genera el informe con los registros que pasan el filtro q.
func (uc *ReportUseCase) ExpiryPDF(ctx context.Context, companyID string, q dto.RecordQuery) ([]byte, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	records, err := uc.records.Report(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	out, err := uc.generator.GenerateExpiryReport(ctx, company, uc.records.Today(), records)
	if err != nil {
		return nil, fmt.Errorf("informe de vencimientos: %w", err)
	}
	return out, nil
}
