package email

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

var _ ports.EmailSender = (*ResendSender)(nil)

// ResendSender envía e-mails por la API HTTP de Resend.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

// NewResendSender construye el sender sobre un cliente ya configurado.
func NewResendSender(client *resend.Client, from string, log *logger.Logger) *ResendSender {
	return &ResendSender{client: client, from: from, log: log}
}

// Send envía un mensaje HTML.
func (s *ResendSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	s.log.Debug().Str("id", resp.Id).Strs("to", msg.To).Msg("e-mail enviado")
	return nil
}
