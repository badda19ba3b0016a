package email

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

var _ ports.EmailSender = (*SMTPSender)(nil)

// SMTPSender envía e-mails por SMTP (relay propio o de desarrollo, p. ej. MailHog).
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPSender construye el sender. user vacío desactiva la autenticación.
func NewSMTPSender(host string, port int, user, password, from string, log *logger.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log,
	}
}

// Send abre una conexión por mensaje; el resumen envía pocos e-mails por ejecución.
func (s *SMTPSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := newMessage(s.from, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	s.log.Debug().Strs("to", msg.To).Msg("e-mail enviado por SMTP")
	return nil
}

func newMessage(from string, msg ports.EmailMessage) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}
