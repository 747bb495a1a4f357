package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/cart", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/v1/cart", "200", 30*time.Millisecond)
	m.Observe("POST", "/api/v1/checkout", "400", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/cart", "200")); got != 2 {
		t.Fatalf("expected 2 cart requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/checkout", "400")); got != 1 {
		t.Fatalf("expected 1 checkout request, got %v", got)
	}
}

func TestObserveEmptyRouteFallsBack(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "", "404", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected unmatched route label, got %v", got)
	}
}

func TestNilSafeRecorder(t *testing.T) {
	t.Parallel()

	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Millisecond)

	NewHTTPMetrics(nil).Observe("GET", "/", "200", time.Millisecond)
}
