package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// ActiveUseCase consulta la suscripción vigente de una empresa.
type ActiveUseCase struct {
	repo repository.SubscriptionRepository
	now  func() time.Time
}

// NewActiveUseCase construye el caso de uso. now es el reloj de la aplicación.
func NewActiveUseCase(repo repository.SubscriptionRepository, now func() time.Time) *ActiveUseCase {
	if now == nil {
		now = time.Now
	}
	return &ActiveUseCase{repo: repo, now: now}
}

// ActiveSubscription devuelve la suscripción activa más reciente con fecha de fin >= hoy, o nil.
func (uc *ActiveUseCase) ActiveSubscription(ctx context.Context, companyID string) (*entity.Subscription, error) {
	s, err := uc.repo.GetActive(ctx, companyID, midnightUTC(uc.now()))
	if err != nil {
		return nil, fmt.Errorf("suscripción activa: %w", err)
	}
	return s, nil
}

// HasActive implementa el chequeo usado por el middleware de suscripción.
func (uc *ActiveUseCase) HasActive(ctx context.Context, companyID string) (bool, error) {
	s, err := uc.ActiveSubscription(ctx, companyID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}
