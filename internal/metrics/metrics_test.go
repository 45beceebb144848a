package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSignup("success")
	m.ObserveSignup("duplicate_email")
	m.ObserveSignup("success")
	m.ObserveLogin("invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SignupsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignupsTotal.WithLabelValues("duplicate_email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("invalid_credentials")))
}

func TestMetrics_Histograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHash("hash", 60*time.Millisecond)
	m.ObserveHTTP("POST", "/signup", 200, 70*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.HashDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/signup", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "auth_password_hash_duration_seconds")
	assert.Contains(t, names, "auth_http_request_duration_seconds")
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
