// Package metrics registra las métricas Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	_ subscription.Recorder = (*Metrics)(nil)
	_ digest.Recorder       = (*Metrics)(nil)
)

// Metrics colectores del servicio. Se registran en el Registerer recibido
// (prometheus.DefaultRegisterer en producción, un registro propio en tests).
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WebhooksTotal *prometheus.CounterVec

	DigestRunsTotal      *prometheus.CounterVec
	DigestEmailsTotal    *prometheus.CounterVec
	DigestItems          prometheus.Gauge
	DigestLastRunSeconds prometheus.Gauge
}

// New crea y registra los colectores con el prefijo dado.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		WebhooksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_webhooks_total",
				Help: "Payment gateway webhooks processed, by event kind and resulting action",
			},
			[]string{"gateway", "kind", "action"},
		),
		DigestRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_digest_runs_total",
				Help: "Daily digest executions",
			},
			[]string{"dry_run"},
		),
		DigestEmailsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_digest_emails_total",
				Help: "Digest e-mails by outcome (sent, failed, skipped_no_address)",
			},
			[]string{"outcome"},
		),
		DigestItems: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_digest_items",
			Help: "Items (overdue + due within the horizon) found in the last digest run",
		}),
		DigestLastRunSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_digest_last_run_timestamp_seconds",
			Help: "Unix time of the last digest run",
		}),
	}
}

// ObserveHTTP registra una petición HTTP terminada.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// WebhookProcessed implementa subscription.Recorder.
func (m *Metrics) WebhookProcessed(gateway string, kind subscription.EventKind, action string) {
	if action == "" {
		action = "none"
	}
	m.WebhooksTotal.WithLabelValues(gateway, string(kind), action).Inc()
}

// DigestRun implementa digest.Recorder.
func (m *Metrics) DigestRun(res *digest.Result) {
	m.DigestRunsTotal.WithLabelValues(strconv.FormatBool(res.DryRun)).Inc()
	m.DigestEmailsTotal.WithLabelValues("sent").Add(float64(res.EmailsSent))
	m.DigestEmailsTotal.WithLabelValues("failed").Add(float64(len(res.Failed)))
	m.DigestEmailsTotal.WithLabelValues("skipped_no_address").Add(float64(len(res.SkippedNoAddress)))
	m.DigestItems.Set(float64(res.TotalItems))
	m.DigestLastRunSeconds.SetToCurrentTime()
}
