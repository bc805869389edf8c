package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsUsesRoutePatternAsPathLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Patch("/api/leads/{leadID}/contato-feito", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// IDs diferentes caem na mesma série: o label vem do padrão da rota.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/api/leads/0000000%d-e89b-12d3-a456-426614174000/contato-feito", i), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	counter := httpRequestsTotal.WithLabelValues("PATCH", "/api/leads/{leadID}/contato-feito", "200")
	assert.Equal(t, float64(3), testutil.ToFloat64(counter))
}

func TestMetricsFallsBackToRawPathOutsideRouter(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/fora-do-router", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	counter := httpRequestsTotal.WithLabelValues("GET", "/fora-do-router", "204")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}
