package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRequestsByStatus(t *testing.T) {
	h := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	counter := HTTPRequestTotals.WithLabelValues("GET", "/no-route-context", "404")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/no-route-context", nil))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("Expected counter incremented to %v, got %v", before+1, got)
	}
}

func TestMetricsUsesRoutePatternAsPathLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/consultations/{sessionID}/assist", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	counter := HTTPRequestTotals.WithLabelValues("GET", "/consultations/{sessionID}/assist", "200")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest("GET", "/consultations/abc-123/assist", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("Expected route pattern label incremented, got %v (before %v)", got, before)
	}
}

func TestMetricsInFlightGaugeReturnsToZero(t *testing.T) {
	var during float64
	h := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(HTTPRequestInFlight)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/anything", nil))

	if during != 1 {
		t.Errorf("Expected in-flight gauge at 1 during the request, got %v", during)
	}
	if got := testutil.ToFloat64(HTTPRequestInFlight); got != 0 {
		t.Errorf("Expected in-flight gauge back at 0, got %v", got)
	}
}
