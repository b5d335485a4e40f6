package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/audioclear/internal/metrics"
)

func TestRegisterMetrics(t *testing.T) {
	metrics.SessionsActive.Set(3)

	router := chi.NewRouter()
	RegisterMetrics(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hearing_test_sessions_active 3")
	assert.Contains(t, rec.Body.String(), "denoise_decision_duration_seconds")
}
