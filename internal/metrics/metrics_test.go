package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		SessionsActive,
		SessionsExpiredTotal,
		ThresholdLevel,
		TestsCompletedTotal,
		DenoiseDecisionsTotal,
		DenoiseDecisionDuration,
	}

	for _, c := range collectors {
		// Already registered by promauto, so a second registration must collide.
		err := prometheus.Register(c)
		var already prometheus.AlreadyRegisteredError
		require.ErrorAs(t, err, &already)
	}
}

func TestDenoiseDecisionsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(DenoiseDecisionsTotal.WithLabelValues(OutcomeFallback))
	DenoiseDecisionsTotal.WithLabelValues(OutcomeFallback).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(DenoiseDecisionsTotal.WithLabelValues(OutcomeFallback)))
}

func TestThresholdLevel_OneSeriesPerFrequency(t *testing.T) {
	ThresholdLevel.WithLabelValues("1000").Observe(15)
	ThresholdLevel.WithLabelValues("1000").Observe(20)
	ThresholdLevel.WithLabelValues("2000").Observe(-5)

	assert.Equal(t, 2, testutil.CollectAndCount(ThresholdLevel, "hearing_test_threshold_db_hl"))
}
