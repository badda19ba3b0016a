package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"

	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	infraemail "github.com/jhoicas/segvenc-api/internal/infrastructure/email"
	inframetrics "github.com/jhoicas/segvenc-api/internal/infrastructure/metrics"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/postgres"
)

const pushJob = "segvenc_digest"

func digestCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Envía el resumen diario de vencimientos a cada empresa",
		Long: `Agrupa los registros vencidos, que vencen hoy o en los próximos 30 días
por empresa y envía un e-mail a los destinatarios configurados.

Pensado para ejecutarse una vez al día (cron). Con --dry-run genera los
resúmenes sin enviarlos.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd.Context(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "genera los resúmenes sin enviar e-mails")
	return cmd
}

func runDigest(ctx context.Context, dryRun bool) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := time.LoadLocation(e.cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("zona horaria %q: %w", e.cfg.App.Timezone, err)
	}

	sender, err := infraemail.NewSender(e.cfg.Email, e.log.Component("email"))
	if err != nil {
		return err
	}

	// Registro propio: el proceso es efímero y publica en el Pushgateway al terminar.
	reg := prometheus.NewRegistry()
	metrics := inframetrics.New(reg, e.cfg.Metrics.Prefix)

	composer := digest.NewComposer(
		postgres.NewExpiryRecordRepository(e.pool),
		postgres.NewNotificationEmailRepository(e.pool),
		postgres.NewCompanyRepository(e.pool),
		sender,
		digest.NewRenderer(e.cfg.App.URL, e.cfg.App.LogoURL),
		expiry.NewClock(loc),
		e.log.Component("digest"),
		metrics,
	)

	res, err := composer.Run(ctx, digest.Options{DryRun: dryRun || e.cfg.Digest.DryRun})
	if pushErr := pushMetrics(e.cfg.Metrics.PushgatewayURL, reg); pushErr != nil {
		e.log.Warn().Err(pushErr).Msg("no se pudieron publicar las métricas")
	}
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("resumen diario: %d empresa(s) con error de envío", len(res.Failed))
	}
	return nil
}

func pushMetrics(url string, reg *prometheus.Registry) error {
	if url == "" {
		return nil
	}
	return push.New(url, pushJob).Gatherer(reg).Push()
}
