package handler

import (
	"net/http"
)

// MetricsHandler exposes metrics in Prometheus exposition format.
type MetricsHandler struct {
	exposer http.Handler
}

// NewMetricsHandler creates a new MetricsHandler. exposer is usually
// metrics.PrometheusRecorder.Handler(); nil disables the endpoint.
func NewMetricsHandler(exposer http.Handler) *MetricsHandler {
	return &MetricsHandler{exposer: exposer}
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exposer == nil {
		writeError(w, http.StatusServiceUnavailable, "METRICS_DISABLED", "Metrics are not enabled.")
		return
	}
	h.exposer.ServeHTTP(w, r)
}
