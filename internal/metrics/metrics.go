// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hearing test metrics
var (
	// SessionsActive tracks live hearing test sessions
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hearing_test_sessions_active",
			Help: "Number of live hearing test sessions",
		},
	)

	// SessionsExpiredTotal counts sessions removed by the idle sweep
	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearing_test_sessions_expired_total",
			Help: "Total hearing test sessions removed after idling",
		},
	)

	// ThresholdLevel observes finalized thresholds per frequency
	ThresholdLevel = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hearing_test_threshold_db_hl",
			Help:    "Finalized hearing thresholds in dB HL by frequency",
			Buckets: prometheus.LinearBuckets(-10, 10, 10),
		},
		[]string{"frequency"},
	)

	// TestsCompletedTotal counts runs that reached Finished
	TestsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearing_tests_completed_total",
			Help: "Total hearing tests that finalized every frequency",
		},
	)
)

// Denoise metrics
var (
	// DenoiseDecisionsTotal counts clip decisions by outcome (denoise/keep/fallback)
	DenoiseDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "denoise_decisions_total",
			Help: "Total voice clip denoising decisions by outcome",
		},
		[]string{"outcome"},
	)

	// DenoiseDecisionDuration tracks decision service latency in seconds
	DenoiseDecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "denoise_decision_duration_seconds",
			Help:    "Denoising decision latency in seconds, including failures",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
	)
)

// Decision outcome labels
const (
	OutcomeDenoise  = "denoise"
	OutcomeKeep     = "keep"
	OutcomeFallback = "fallback"
)
