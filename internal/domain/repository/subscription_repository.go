package repository

import (
	"context"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// SubscriptionRepository suscripciones mantenidas por los webhooks de la pasarela.
type SubscriptionRepository interface {
	GetByKey(ctx context.Context, key entity.SubscriptionKey) (*entity.Subscription, error)
	// Create devuelve domain.ErrDuplicate si ya existe una fila con la misma clave.
	Create(ctx context.Context, s *entity.Subscription) error
	Update(ctx context.Context, s *entity.Subscription) error
	// UpdateStatus cambia solo el estado; devuelve false si ninguna fila coincide con la clave.
	UpdateStatus(ctx context.Context, key entity.SubscriptionKey, status string) (bool, error)
	// GetActive devuelve la suscripción activa con fecha de fin >= asOf más reciente, o nil.
	GetActive(ctx context.Context, companyID string, asOf time.Time) (*entity.Subscription, error)
}

// WebhookEventRepository registro literal de los eventos de la pasarela.
type WebhookEventRepository interface {
	Create(ctx context.Context, e *entity.WebhookEvent) error
}
