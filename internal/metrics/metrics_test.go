package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CouponMintSkipped.WithLabelValues("anonymous").Inc()
	m.CouponMintSkipped.WithLabelValues("anonymous").Inc()
	m.ClaimTransitions.WithLabelValues("approved").Inc()

	assert.Equal(t, 2.0, value(t, m.CouponMintSkipped.WithLabelValues("anonymous")))
	assert.Equal(t, 1.0, value(t, m.ClaimTransitions.WithLabelValues("approved")))

	m.TrackWebsocketClients(reg, func() int { return 3 })
	assert.Equal(t, 3.0, value(t, m.WebsocketClients))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewNop_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
