package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where Prometheus scrapes the service
const MetricsPath = "/metrics"

// RegisterMetrics mounts the Prometheus exposition handler on router
func RegisterMetrics(router chi.Router) {
	router.Handle(MetricsPath, promhttp.Handler())
}
