package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind clasificación cerrada de un evento de la pasarela. El resto del
// reconciliador solo conoce estos valores, nunca el payload original.
type EventKind string

const (
	EventPaidOrRenewed      EventKind = "paid_or_renewed"
	EventCanceledOrRefunded EventKind = "canceled_or_refunded"
	EventPastDue            EventKind = "past_due"
	EventUnknown            EventKind = "unknown"
	// EventInvalid solo se usa para registrar cuerpos que no se pudieron decodificar.
	EventInvalid EventKind = "invalid"
)

// GatewayEvent evento de pago ya normalizado en la frontera.
type GatewayEvent struct {
	OrderID            string
	OrderStatus        string
	ProductID          string
	ProductName        string
	SubscriptionID     string
	SubscriptionStatus string
	PlanName           string
	BuyerEmail         string
	BuyerName          string
	StartDate          *time.Time
	NextPayment        *time.Time
	ApprovedDate       *time.Time
	Amount             decimal.Decimal
}

// Gateway traduce el cuerpo crudo de una pasarela concreta a GatewayEvent y lo clasifica.
// Es el único punto que conoce las particularidades del payload de cada pasarela.
type Gateway interface {
	Name() string
	Decode(raw []byte) (GatewayEvent, error)
	Classify(ev GatewayEvent) EventKind
}
