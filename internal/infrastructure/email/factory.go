package email

import (
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/pkg/config"
	"github.com/jhoicas/segvenc-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

// Proveedores soportados (EMAIL_PROVIDER).
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"
)

// NewSender construye el sender del proveedor configurado, ya envuelto en el limitador.
func NewSender(cfg config.EmailConfig, log *logger.Logger) (ports.EmailSender, error) {
	log = log.Component("email")
	var sender ports.EmailSender
	switch cfg.Provider {
	case ProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("email: RESEND_API_KEY requerido para el proveedor resend")
		}
		sender = NewResendSender(resend.NewClient(cfg.ResendAPIKey), cfg.From, log)
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("email: SMTP_HOST requerido para el proveedor smtp")
		}
		sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From, log)
	case ProviderLog, "":
		sender = NewLogSender(log)
	default:
		return nil, fmt.Errorf("email: proveedor desconocido %q", cfg.Provider)
	}
	if cfg.RatePerSec > 0 {
		sender = NewRateLimitedSender(sender, cfg.RatePerSec)
	}
	return sender, nil
}
