package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, o.(prometheus.Metric).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestObserveRanking(t *testing.T) {
	before := counterValue(t, NicheRecommendations.WithLabelValues("内容创作"))
	scoresBefore := histogramCount(t, NicheScore.WithLabelValues("AI应用开发"))

	ObserveRanking(map[string]float64{"内容创作": 86.7, "AI应用开发": 53.3}, "内容创作")

	assert.Equal(t, before+1, counterValue(t, NicheRecommendations.WithLabelValues("内容创作")))
	assert.Equal(t, 0.0, counterValue(t, NicheRecommendations.WithLabelValues("AI应用开发")))
	assert.Equal(t, scoresBefore+1, histogramCount(t, NicheScore.WithLabelValues("AI应用开发")))
}

func TestObserveRanking_NoTop(t *testing.T) {
	before := counterValue(t, NicheRecommendations.WithLabelValues(""))
	ObserveRanking(nil, "")
	assert.Equal(t, before, counterValue(t, NicheRecommendations.WithLabelValues("")))
}

func TestWorkerCounters(t *testing.T) {
	WorkerJobsFailed.WithLabelValues("metrics-test", "PROFILE_NOT_FOUND").Inc()
	assert.Equal(t, 1.0, counterValue(t, WorkerJobsFailed.WithLabelValues("metrics-test", "PROFILE_NOT_FOUND")))

	WorkerJobsActive.WithLabelValues("metrics-test").Inc()
	WorkerJobsActive.WithLabelValues("metrics-test").Dec()
	assert.Equal(t, 0.0, gaugeValue(t, WorkerJobsActive.WithLabelValues("metrics-test")))
}
