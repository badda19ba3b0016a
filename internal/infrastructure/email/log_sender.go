package email

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

var _ ports.EmailSender = (*LogSender)(nil)

// LogSender no envía nada: registra destinatarios y asunto. Para desarrollo.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender construye el sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.EmailMessage) error {
	s.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("e-mail (proveedor log, no enviado)")
	return nil
}
