package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(service string) http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware(service))
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := newTestRouter("metrics-test")

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/orders/{id}", "404"))
	assert.Equal(t, float64(2), got)
	assert.Zero(t, testutil.ToFloat64(requestsInFlight.WithLabelValues("metrics-test")))
}

func TestMiddleware_ImplicitOKAndUnmatched(t *testing.T) {
	h := newTestRouter("metrics-test-2")

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	for _, p := range []string{"/wp-login.php", "/.env"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test-2", http.MethodGet, "/health", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(requestsTotal.WithLabelValues("metrics-test-2", http.MethodGet, unmatchedRoute, "404")))
}
