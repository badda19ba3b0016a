package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/segvenc-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.Equal(t, "resend", cfg.Email.Provider)
	assert.True(t, cfg.Subscription.Enforce)
	assert.False(t, cfg.Digest.DryRun)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Empty(t, cfg.DB.FallbackDNS)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUBSCRIPTION_ENFORCE", "false")
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_RATE_PER_SEC", "0.5")
	t.Setenv("KIWIFY_WEBHOOK_SECRET", "s3cr3t")
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "5m")
	t.Setenv("DB_FALLBACK_DNS", "8.8.8.8:53")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Subscription.Enforce)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
	assert.InDelta(t, 0.5, cfg.Email.RatePerSec, 1e-9)
	assert.Equal(t, "s3cr3t", cfg.Webhook.KiwifySecret)
	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, "8.8.8.8:53", cfg.DB.FallbackDNS)
}

func TestLoad_PoolInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ForWorker(t *testing.T) {
	api := config.DBConfig{MaxConns: 25, MinConns: 4, WorkerMaxConns: 3}

	w := api.ForWorker()
	assert.Equal(t, 3, w.MaxConns)
	assert.Zero(t, w.MinConns)
	assert.Equal(t, 25, api.MaxConns, "la configuración de la API no cambia")

	assert.Equal(t, 2, config.DBConfig{}.ForWorker().MaxConns)
}

func TestLoad_ProveedorInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EMAIL_PROVIDER", "pombo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "segvenc", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/segvenc?sslmode=require", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
