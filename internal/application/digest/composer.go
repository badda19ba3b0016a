package digest

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

// Failure envío fallido de una empresa.
type Failure struct {
	CompanyID string `json:"company_id"`
	Error     string `json:"error"`
}

// Result resultado de una corrida del resumen diario.
type Result struct {
	TotalItems       int       `json:"total_items"`
	TenantsWithItems int       `json:"tenants_with_items"`
	EmailsSent       int       `json:"emails_sent"`
	SkippedNoAddress []string  `json:"skipped_no_address"`
	Failed           []Failure `json:"failed"`
	DryRun           bool      `json:"dry_run"`
}

// Options opciones de una corrida.
type Options struct {
	// DryRun genera el HTML pero no envía.
	DryRun bool
}

// Recorder recibe los totales de cada corrida (métricas).
type Recorder interface {
	DigestRun(res *Result)
}

// Composer arma y envía el resumen diario de vencimientos por empresa.
type Composer struct {
	records   repository.ExpiryRecordRepository
	emails    repository.NotificationEmailRepository
	companies repository.CompanyRepository
	sender    ports.EmailSender
	renderer  *Renderer
	clock     expiry.Clock
	log       *logger.Logger
	recorder  Recorder
}

// NewComposer construye el compositor. recorder puede ser nil.
func NewComposer(
	records repository.ExpiryRecordRepository,
	emails repository.NotificationEmailRepository,
	companies repository.CompanyRepository,
	sender ports.EmailSender,
	renderer *Renderer,
	clock expiry.Clock,
	log *logger.Logger,
	recorder Recorder,
) *Composer {
	return &Composer{
		records:   records,
		emails:    emails,
		companies: companies,
		sender:    sender,
		renderer:  renderer,
		clock:     clock,
		log:       log,
		recorder:  recorder,
	}
}

// Run ejecuta el resumen de todas las empresas. El fallo de una empresa no detiene el lote;
// solo la lectura inicial de registros o destinatarios aborta la corrida.
func (c *Composer) Run(ctx context.Context, opts Options) (*Result, error) {
	now := c.clock()
	limit := expiry.AddDays(expiry.Today(now), Horizon)
	records, err := c.records.ListDueOnOrBefore(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listar vencimientos: %w", err)
	}
	active, err := c.emails.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar e-mails de notificación: %w", err)
	}
	recipients := make(map[string][]string)
	for _, e := range active {
		addr := strings.TrimSpace(e.Email)
		if addr != "" {
			recipients[e.CompanyID] = append(recipients[e.CompanyID], addr)
		}
	}

	digests := Summarize(records, now)
	res := &Result{
		TenantsWithItems: len(digests),
		SkippedNoAddress: []string{},
		Failed:           []Failure{},
		DryRun:           opts.DryRun,
	}
	for _, d := range digests {
		res.TotalItems += d.Total()
		if err := ctx.Err(); err != nil {
			return res, err
		}
		to := recipients[d.CompanyID]
		if len(to) == 0 {
			res.SkippedNoAddress = append(res.SkippedNoAddress, d.CompanyID)
			c.log.Warn().Str("company_id", d.CompanyID).Msg("empresa sin e-mails de notificación activos")
			continue
		}
		c.fillCompanyName(ctx, d)
		html, err := c.renderer.Render(d)
		if err != nil {
			res.Failed = append(res.Failed, Failure{CompanyID: d.CompanyID, Error: err.Error()})
			c.log.Error().Err(err).Str("company_id", d.CompanyID).Msg("error al generar resumen")
			continue
		}
		if opts.DryRun {
			c.log.Info().Str("company_id", d.CompanyID).Int("items", d.Total()).Strs("to", to).Msg("resumen generado (dry-run)")
			continue
		}
		if err := c.sender.Send(ctx, ports.EmailMessage{To: to, Subject: Subject, HTML: html}); err != nil {
			res.Failed = append(res.Failed, Failure{CompanyID: d.CompanyID, Error: err.Error()})
			c.log.Error().Err(err).Str("company_id", d.CompanyID).Msg("error al enviar resumen")
			continue
		}
		res.EmailsSent++
	}
	if c.recorder != nil {
		c.recorder.DigestRun(res)
	}
	c.log.Info().
		Int("total_items", res.TotalItems).
		Int("tenants_with_items", res.TenantsWithItems).
		Int("emails_sent", res.EmailsSent).
		Int("skipped", len(res.SkippedNoAddress)).
		Int("failed", len(res.Failed)).
		Msg("resumen diario finalizado")
	return res, nil
}

// Preview genera el HTML del resumen de una empresa sin enviarlo.
// Devuelve domain.ErrNotFound si la empresa no tiene ítems dentro del horizonte.
func (c *Composer) Preview(ctx context.Context, companyID string) (string, *TenantDigest, error) {
	records, err := c.records.ListByCompany(ctx, companyID)
	if err != nil {
		return "", nil, fmt.Errorf("listar registros: %w", err)
	}
	digests := Summarize(records, c.clock())
	if len(digests) == 0 {
		return "", nil, domain.ErrNotFound
	}
	d := digests[0]
	c.fillCompanyName(ctx, d)
	html, err := c.renderer.Render(d)
	if err != nil {
		return "", nil, err
	}
	return html, d, nil
}

// SendTest envía el correo de prueba de notificaciones. Con to vacío va a los e-mails activos de
// la empresa; si no hay ninguno devuelve domain.ErrInvalidInput. Devuelve los destinatarios.
func (c *Composer) SendTest(ctx context.Context, companyID, to string) ([]string, error) {
	var recipients []string
	if to = strings.ToLower(strings.TrimSpace(to)); to != "" {
		addr, err := mail.ParseAddress(to)
		if err != nil || addr.Address != to {
			return nil, fmt.Errorf("%w: e-mail inválido", domain.ErrInvalidInput)
		}
		recipients = []string{to}
	} else {
		emails, err := c.emails.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("listar e-mails de notificación: %w", err)
		}
		for _, e := range emails {
			if addr := strings.TrimSpace(e.Email); e.Active && addr != "" {
				recipients = append(recipients, addr)
			}
		}
		if len(recipients) == 0 {
			return nil, fmt.Errorf("%w: empresa sin e-mails de notificación activos", domain.ErrInvalidInput)
		}
	}

	d := &TenantDigest{CompanyID: companyID}
	c.fillCompanyName(ctx, d)
	html, err := c.renderer.RenderTest(d.CompanyName)
	if err != nil {
		return nil, err
	}
	if err := c.sender.Send(ctx, ports.EmailMessage{To: recipients, Subject: TestSubject, HTML: html}); err != nil {
		return nil, fmt.Errorf("enviar correo de prueba: %w", err)
	}
	c.log.Info().Str("company_id", companyID).Strs("to", recipients).Msg("correo de prueba enviado")
	return recipients, nil
}

func (c *Composer) fillCompanyName(ctx context.Context, d *TenantDigest) {
	company, err := c.companies.GetByID(ctx, d.CompanyID)
	if err != nil {
		c.log.Warn().Err(err).Str("company_id", d.CompanyID).Msg("no se pudo leer la empresa")
		return
	}
	if company != nil {
		d.CompanyName = company.Name
	}
}
