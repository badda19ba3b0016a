package email

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"golang.org/x/time/rate"
)

var _ ports.EmailSender = (*RateLimitedSender)(nil)

// RateLimitedSender limita los envíos por segundo hacia el proveedor.
// Resend rechaza con 429 por encima de su cuota.
type RateLimitedSender struct {
	next    ports.EmailSender
	limiter *rate.Limiter
}

// NewRateLimitedSender envuelve next con un limitador de perSecond envíos/s (ráfaga 1).
func NewRateLimitedSender(next ports.EmailSender, perSecond float64) *RateLimitedSender {
	return &RateLimitedSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Send espera turno en el limitador y delega.
func (s *RateLimitedSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return s.next.Send(ctx, msg)
}
