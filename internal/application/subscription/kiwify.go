package subscription

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// KiwifyGateway decodifica y clasifica los webhooks de Kiwify.
//
// Kiwify no informa el nombre del disparador en el JSON; la clasificación se deriva
// de order_status y del estado de la suscripción embebida.
type KiwifyGateway struct{}

// NewKiwifyGateway construye el adaptador de Kiwify.
func NewKiwifyGateway() *KiwifyGateway { return &KiwifyGateway{} }

var _ Gateway = (*KiwifyGateway)(nil)

// Name devuelve el identificador de la pasarela almacenado en assinaturas.gateway.
func (g *KiwifyGateway) Name() string { return entity.GatewayKiwify }

// kiwifyPayload admite las dos formas que envía Kiwify: el objeto "order" anidado y
// la forma plana con Customer/Subscription en la raíz.
type kiwifyPayload struct {
	Order *kiwifyOrder `json:"order"`
	kiwifyOrder
}

type kiwifyOrder struct {
	OrderID        flexString          `json:"order_id"`
	OrderStatus    string              `json:"order_status"`
	ProductID      flexString          `json:"product_id"`
	SubscriptionID flexString          `json:"subscription_id"`
	ApprovedDate   string              `json:"approved_date"`
	Buyer          *kiwifyBuyer        `json:"buyer"`
	Customer       *kiwifyBuyer        `json:"Customer"`
	Product        *kiwifyProduct      `json:"Product"`
	Subscription   *kiwifySubscription `json:"Subscription"`
	Commissions    *kiwifyCommissions  `json:"Commissions"`
}

type kiwifyBuyer struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type kiwifyProduct struct {
	ProductID   flexString `json:"product_id"`
	ProductName string     `json:"product_name"`
}

type kiwifySubscription struct {
	ID             flexString `json:"id"`
	SubscriptionID flexString `json:"subscription_id"`
	Status         string     `json:"status"`
	StartDate      string     `json:"start_date"`
	NextPayment    string     `json:"next_payment"`
	Plan           *struct {
		Name string `json:"name"`
	} `json:"plan"`
}

type kiwifyCommissions struct {
	ChargeAmount flexString `json:"charge_amount"` // centavos
}

// flexString acepta string o número JSON.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("valor no es string ni número: %s", string(b))
	}
	*f = flexString(n.String())
	return nil
}

// Decode interpreta el cuerpo del webhook. Falla solo si el JSON es inválido o no
// contiene ningún pedido reconocible.
func (g *KiwifyGateway) Decode(raw []byte) (GatewayEvent, error) {
	var p kiwifyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return GatewayEvent{}, fmt.Errorf("kiwify: json inválido: %w", err)
	}
	o := p.Order
	if o == nil {
		o = &p.kiwifyOrder
	}
	if o.OrderStatus == "" && o.Subscription == nil && o.OrderID == "" {
		return GatewayEvent{}, errors.New("kiwify: payload sin pedido")
	}

	ev := GatewayEvent{
		OrderID:        string(o.OrderID),
		OrderStatus:    strings.ToLower(strings.TrimSpace(o.OrderStatus)),
		ProductID:      string(o.ProductID),
		SubscriptionID: string(o.SubscriptionID),
		ApprovedDate:   parseGatewayTime(o.ApprovedDate),
	}
	if b := firstBuyer(o.Buyer, o.Customer); b != nil {
		ev.BuyerEmail = b.Email
		ev.BuyerName = strings.TrimSpace(b.Name)
		if ev.BuyerName == "" {
			ev.BuyerName = strings.TrimSpace(b.FullName)
		}
	}
	if o.Product != nil {
		ev.ProductName = o.Product.ProductName
		if ev.ProductID == "" {
			ev.ProductID = string(o.Product.ProductID)
		}
	}
	if s := o.Subscription; s != nil {
		ev.SubscriptionStatus = strings.ToLower(strings.TrimSpace(s.Status))
		ev.StartDate = parseGatewayTime(s.StartDate)
		ev.NextPayment = parseGatewayTime(s.NextPayment)
		if s.Plan != nil {
			ev.PlanName = s.Plan.Name
		}
		if ev.SubscriptionID == "" {
			ev.SubscriptionID = string(s.SubscriptionID)
		}
		if ev.SubscriptionID == "" {
			ev.SubscriptionID = string(s.ID)
		}
	}
	if o.Commissions != nil && o.Commissions.ChargeAmount != "" {
		if cents, err := decimal.NewFromString(string(o.Commissions.ChargeAmount)); err == nil {
			ev.Amount = cents.Shift(-2)
		}
	}
	return ev, nil
}

// Classify aplica las reglas de Kiwify sobre order_status y el estado de la suscripción.
func (g *KiwifyGateway) Classify(ev GatewayEvent) EventKind {
	sub := ev.SubscriptionStatus
	switch {
	case ev.OrderStatus == "paid" && (sub == "" || sub == "active"):
		return EventPaidOrRenewed
	case sub == "canceled" || ev.OrderStatus == "refunded" || ev.OrderStatus == "chargedback":
		return EventCanceledOrRefunded
	case sub == "late" || (ev.OrderStatus == "waiting_payment" && ev.SubscriptionID != ""):
		return EventPastDue
	default:
		return EventUnknown
	}
}

func firstBuyer(bs ...*kiwifyBuyer) *kiwifyBuyer {
	for _, b := range bs {
		if b != nil && strings.TrimSpace(b.Email) != "" {
			return b
		}
	}
	for _, b := range bs {
		if b != nil {
			return b
		}
	}
	return nil
}

var gatewayTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseGatewayTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range gatewayTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
