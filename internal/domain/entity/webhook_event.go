package entity

import "time"

// WebhookEvent copia literal de un evento recibido de la pasarela, con su clasificación.
type WebhookEvent struct {
	ID         string
	Gateway    string
	EventType  string
	RawPayload []byte
	ReceivedAt time.Time
}
