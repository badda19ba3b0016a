package dto

import "time"

// SubscriptionResponse suscripción vigente de la empresa.
type SubscriptionResponse struct {
	Active    bool       `json:"active"`
	Plan      string     `json:"plan,omitempty"`
	Status    string     `json:"status,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Gateway   string     `json:"gateway,omitempty"`
	Amount    string     `json:"amount,omitempty"`
}
