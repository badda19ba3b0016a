package metrics_test

import (
	"testing"
	"time"

	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWebhookProcessed(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), "test")
	m.WebhookProcessed("kiwify", subscription.EventPaidOrRenewed, subscription.ActionCreated)
	m.WebhookProcessed("kiwify", subscription.EventPaidOrRenewed, subscription.ActionCreated)
	m.WebhookProcessed("kiwify", subscription.EventUnknown, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhooksTotal.WithLabelValues("kiwify", string(subscription.EventPaidOrRenewed), subscription.ActionCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhooksTotal.WithLabelValues("kiwify", string(subscription.EventUnknown), "none")))
}

func TestDigestRun(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), "test")
	m.DigestRun(&digest.Result{
		TotalItems:       5,
		EmailsSent:       1,
		SkippedNoAddress: []string{"c2"},
		Failed:           []digest.Failure{{CompanyID: "c3", Error: "boom"}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestRunsTotal.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestEmailsTotal.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestEmailsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestEmailsTotal.WithLabelValues("skipped_no_address")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DigestItems))
	assert.Greater(t, testutil.ToFloat64(m.DigestLastRunSeconds), 0.0)
}

func TestObserveHTTP(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), "test")
	m.ObserveHTTP("GET", "/api/records", 200, 15*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/records", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
