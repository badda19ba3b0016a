package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una suscripción (la persistencia los traduce a ativa/inadimplente/cancelada).
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// GatewayKiwify pasarela de pago usada por el producto.
const GatewayKiwify = "kiwify"

// Subscription suscripción de una empresa, mantenida exclusivamente por webhooks de la pasarela.
// Clave de upsert: (CompanyID, Gateway, GatewaySubscriptionID).
type Subscription struct {
	ID                    string
	CompanyID             string
	UserID                string
	Plan                  string
	Status                string
	StartDate             time.Time
	EndDate               time.Time
	Gateway               string
	GatewaySubscriptionID string
	GatewaySaleID         string
	Amount                decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SubscriptionKey identifica una fila de suscripción.
type SubscriptionKey struct {
	CompanyID             string
	Gateway               string
	GatewaySubscriptionID string
}

// Key devuelve la clave de upsert de la suscripción.
func (s *Subscription) Key() SubscriptionKey {
	return SubscriptionKey{
		CompanyID:             s.CompanyID,
		Gateway:               s.Gateway,
		GatewaySubscriptionID: s.GatewaySubscriptionID,
	}
}
