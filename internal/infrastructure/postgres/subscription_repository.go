package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var (
	_ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)
	_ repository.WebhookEventRepository = (*WebhookEventRepo)(nil)
)

// Valores persistidos en assinaturas.status.
const (
	storedActive   = "ativa"
	storedPastDue  = "inadimplente"
	storedCanceled = "cancelada"
)

func toStoredStatus(status string) (string, error) {
	switch status {
	case entity.SubscriptionActive:
		return storedActive, nil
	case entity.SubscriptionPastDue:
		return storedPastDue, nil
	case entity.SubscriptionCanceled:
		return storedCanceled, nil
	}
	return "", fmt.Errorf("estado de suscripción desconocido %q: %w", status, domain.ErrInvalidInput)
}

func fromStoredStatus(stored string) string {
	switch stored {
	case storedActive:
		return entity.SubscriptionActive
	case storedPastDue:
		return entity.SubscriptionPastDue
	case storedCanceled:
		return entity.SubscriptionCanceled
	}
	return stored
}

const subscriptionColumns = `
	id, empresa_id, COALESCE(usuario_id::text, ''), plano, status, data_inicio, data_fim, gateway,
	COALESCE(gateway_subscription_id, ''), COALESCE(gateway_sale_id, ''), COALESCE(valor, 0),
	created_at, updated_at`

// SubscriptionRepo suscripciones (tabla assinaturas). La clave de upsert
// (empresa_id, gateway, gateway_subscription_id) trata NULL como un valor más.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// GetByKey obtiene la suscripción por clave de upsert.
func (r *SubscriptionRepo) GetByKey(ctx context.Context, key entity.SubscriptionKey) (*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM assinaturas
		WHERE empresa_id = $1 AND gateway = $2
		  AND gateway_subscription_id IS NOT DISTINCT FROM NULLIF($3, '')`
	return r.getOne(ctx, "get subscription by key", query, key.CompanyID, key.Gateway, key.GatewaySubscriptionID)
}

// GetActive devuelve la suscripción activa más reciente con data_fim >= asOf.
func (r *SubscriptionRepo) GetActive(ctx context.Context, companyID string, asOf time.Time) (*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM assinaturas
		WHERE empresa_id = $1 AND status = $2 AND data_fim >= $3::date
		ORDER BY data_inicio DESC, updated_at DESC
		LIMIT 1`
	return r.getOne(ctx, "get active subscription", query, companyID, storedActive, asOf)
}

func (r *SubscriptionRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Subscription, error) {
	var s entity.Subscription
	var status string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.CompanyID, &s.UserID, &s.Plan, &status, &s.StartDate, &s.EndDate, &s.Gateway,
		&s.GatewaySubscriptionID, &s.GatewaySaleID, &s.Amount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Status = fromStoredStatus(status)
	return &s, nil
}

// Create inserta la suscripción; devuelve domain.ErrDuplicate si la clave ya existe
// (dos webhooks concurrentes para la misma suscripción).
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	status, err := toStoredStatus(s.Status)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO assinaturas (id, empresa_id, usuario_id, plano, status, data_inicio, data_fim, gateway,
		                         gateway_subscription_id, gateway_sale_id, valor, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6::date, $7::date, $8,
		        NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.UserID, s.Plan, status, s.StartDate, s.EndDate, s.Gateway,
		s.GatewaySubscriptionID, s.GatewaySaleID, s.Amount, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// Update reescribe plan, estado, fechas, venta y valor de una fila existente.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	status, err := toStoredStatus(s.Status)
	if err != nil {
		return err
	}
	query := `
		UPDATE assinaturas
		SET usuario_id = COALESCE(NULLIF($3, '')::uuid, usuario_id), plano = $4, status = $5,
		    data_inicio = $6::date, data_fim = $7::date, gateway_sale_id = NULLIF($8, ''),
		    valor = $9, updated_at = $10
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.UserID, s.Plan, status, s.StartDate, s.EndDate, s.GatewaySaleID,
		s.Amount, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return affectedOrNotFound(tag)
}

// UpdateStatus cambia solo el estado; informa si alguna fila coincidió con la clave.
func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, key entity.SubscriptionKey, status string) (bool, error) {
	stored, err := toStoredStatus(status)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE assinaturas SET status = $4, updated_at = now()
		WHERE empresa_id = $1 AND gateway = $2
		  AND gateway_subscription_id IS NOT DISTINCT FROM NULLIF($3, '')`
	tag, err := r.q.Exec(ctx, query, key.CompanyID, key.Gateway, key.GatewaySubscriptionID, stored)
	if err != nil {
		return false, fmt.Errorf("update subscription status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// WebhookEventRepo log literal de eventos (tabla kiwify_webhook_logs).
type WebhookEventRepo struct {
	q Querier
}

// NewWebhookEventRepository construye el adaptador.
func NewWebhookEventRepository(q Querier) *WebhookEventRepo {
	return &WebhookEventRepo{q: q}
}

// Create guarda el payload crudo tal como llegó.
func (r *WebhookEventRepo) Create(ctx context.Context, e *entity.WebhookEvent) error {
	query := `
		INSERT INTO kiwify_webhook_logs (id, gateway, event_type, raw_payload, received_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.Gateway, e.EventType, string(e.RawPayload), e.ReceivedAt); err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}
