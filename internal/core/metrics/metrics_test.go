package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilecore/tilecore/internal/core/metrics"
)

func getCounterValue(t *testing.T, counter *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	_ = c.(prometheus.Metric).Write(m)
	return m.GetCounter().GetValue()
}

func getGaugeValue(t *testing.T, gauge *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	g, err := gauge.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	_ = g.(prometheus.Metric).Write(m)
	return m.GetGauge().GetValue()
}

func getHistogramCount(t *testing.T, hist *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	o, err := hist.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	_ = o.(prometheus.Metric).Write(m)
	return m.GetHistogram().GetSampleCount()
}

func TestArrangeDurationRecordsObservation(t *testing.T) {
	before := getHistogramCount(t, metrics.ArrangeDuration, "DP-1")
	metrics.ArrangeDuration.WithLabelValues("DP-1").Observe(0.002)
	after := getHistogramCount(t, metrics.ArrangeDuration, "DP-1")
	assert.Equal(t, uint64(1), after-before)
}

func TestColumnsGauge(t *testing.T) {
	metrics.Columns.WithLabelValues("DP-1").Set(3)
	assert.Equal(t, float64(3), getGaugeValue(t, metrics.Columns, "DP-1"))
}

func TestClientsGaugeByState(t *testing.T) {
	metrics.Clients.WithLabelValues("DP-1", metrics.StateTiled).Set(4)
	metrics.Clients.WithLabelValues("DP-1", metrics.StateFloating).Set(1)
	assert.Equal(t, float64(4), getGaugeValue(t, metrics.Clients, "DP-1", metrics.StateTiled))
	assert.Equal(t, float64(1), getGaugeValue(t, metrics.Clients, "DP-1", metrics.StateFloating))
}

func TestMutationsTotalByOp(t *testing.T) {
	before := getCounterValue(t, metrics.MutationsTotal, metrics.OpInsert)
	metrics.MutationsTotal.WithLabelValues(metrics.OpInsert).Inc()
	after := getCounterValue(t, metrics.MutationsTotal, metrics.OpInsert)
	assert.Equal(t, float64(1), after-before)
}

func TestResizeEventsTotal(t *testing.T) {
	before := testutil.ToFloat64(metrics.ResizeEventsTotal)
	metrics.ResizeEventsTotal.Inc()
	after := testutil.ToFloat64(metrics.ResizeEventsTotal)
	assert.Equal(t, float64(1), after-before)
}

func TestMetricsRegistered(t *testing.T) {
	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "should have registered metrics")
}
