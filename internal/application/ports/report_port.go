package ports

import (
	"context"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
)

// ExpiryReportGenerator genera el informe imprimible de vencimientos de una empresa.
type ExpiryReportGenerator interface {
	GenerateExpiryReport(ctx context.Context, company *entity.Company, today time.Time, records []expiry.EnrichedRecord) ([]byte, error)
}
