package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	Init()
	Init()

	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/v1/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	before := testutil.ToFloat64(httpReqs.WithLabelValues("/v1/things/{id}", http.MethodPost, "Bad Request"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/things/7", nil))
	after := testutil.ToFloat64(httpReqs.WithLabelValues("/v1/things/{id}", http.MethodPost, "Bad Request"))

	if after-before != 1 {
		t.Errorf("http_requests_total delta = %v, want 1", after-before)
	}
}
