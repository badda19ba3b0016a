package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/testutil"
	"github.com/jhoicas/segvenc-api/pkg/config"
	"github.com/jhoicas/segvenc-api/pkg/logger"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var msg = ports.EmailMessage{
	To:      []string{"sst@acme.com.br"},
	Subject: "Resumo diário de vencimentos",
	HTML:    "<p>Olá</p>",
}

// ─── Factory ─────────────────────────────────────────────────────────────────

func TestNewSender_Proveedores(t *testing.T) {
	s, err := NewSender(config.EmailConfig{Provider: ProviderLog}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = NewSender(config.EmailConfig{Provider: ProviderLog, RatePerSec: 5}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &RateLimitedSender{}, s)

	s, err = NewSender(config.EmailConfig{Provider: ProviderSMTP, SMTPHost: "localhost", SMTPPort: 1025}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = NewSender(config.EmailConfig{Provider: ProviderResend}, logger.Nop())
	assert.Error(t, err)
	_, err = NewSender(config.EmailConfig{Provider: ProviderSMTP}, logger.Nop())
	assert.Error(t, err)
	_, err = NewSender(config.EmailConfig{Provider: "sendgrid"}, logger.Nop())
	assert.Error(t, err)
}

// ─── Rate limit ──────────────────────────────────────────────────────────────

func TestRateLimitedSender_Delega(t *testing.T) {
	inner := &testutil.Sender{}
	s := NewRateLimitedSender(inner, 100)

	require.NoError(t, s.Send(context.Background(), msg))
	require.NoError(t, s.Send(context.Background(), msg))
	assert.Len(t, inner.Sent, 2)
}

func TestRateLimitedSender_ContextoCancelado(t *testing.T) {
	inner := &testutil.Sender{}
	s := NewRateLimitedSender(inner, 0.001)
	require.NoError(t, s.Send(context.Background(), msg)) // consume la ráfaga

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Send(ctx, msg)
	assert.Error(t, err)
	assert.Len(t, inner.Sent, 1)
}

// ─── SMTP ────────────────────────────────────────────────────────────────────

func TestNewMessage_Cabeceras(t *testing.T) {
	m := newMessage("Alertas <alertas@segvenc.app>", ports.EmailMessage{
		To:      []string{"a@x.com", "b@x.com"},
		Subject: "Resumo",
		HTML:    "<b>oi</b>",
	})
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "b@x.com")
	assert.Contains(t, out, "Subject: Resumo")
	assert.Contains(t, out, "text/html")
}

// ─── Resend ──────────────────────────────────────────────────────────────────

func TestResendSender_EnviaPorAPI(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	s := NewResendSender(client, "alertas@segvenc.app", logger.Nop())
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "alertas@segvenc.app", got["from"])
	assert.Equal(t, msg.Subject, got["subject"])
	assert.Equal(t, msg.HTML, got["html"])
}
