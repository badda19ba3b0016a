package ports

import "context"

// EmailMessage correo HTML a enviar.
type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
}

// EmailSender define el puerto de salida para el envío de e-mails.
// Las implementaciones (Resend, SMTP) están en infrastructure/email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
