package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordCallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordCallback("braintree", "initial", "200", 0.01)
	m.RecordCallback("braintree", "initial", "200", 0.02)
	m.RecordCallback("paypal", "confirm", "400", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("braintree", "initial", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("paypal", "confirm", "400")))

	count, err := testutil.GatherAndCount(reg, "shipcallback_callback_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_RecordRejection(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRejection("braintree", "ZIP_ERROR")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("braintree", "ZIP_ERROR")))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
