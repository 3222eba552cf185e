package halite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCollectorRecordsLifecycle(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	mc.RecordRequestStart("GET", "example.com/")
	if got := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("GET", "example.com/")); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	mc.RecordRequestEnd("GET", "example.com/")
	if got := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("GET", "example.com/")); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	mc.RecordRequest("GET", "example.com/", 200, 150*time.Millisecond)
	if got := testutil.ToFloat64(mc.requestsTotal.WithLabelValues("GET", "200", "example.com/")); got != 1 {
		t.Errorf("requests total = %v, want 1", got)
	}

	mc.RecordRedirect("GET", "example.com/")
	mc.RecordRedirect("GET", "example.com/")
	if got := testutil.ToFloat64(mc.redirectsTotal.WithLabelValues("GET", "example.com/")); got != 2 {
		t.Errorf("redirects total = %v, want 2", got)
	}

	mc.RecordSessionCookies("default", 3)
	if got := testutil.ToFloat64(mc.sessionCookies.WithLabelValues("default")); got != 3 {
		t.Errorf("session cookies = %v, want 3", got)
	}

	mc.RecordError(ErrorTypeTimeout, "GET", "example.com/")
	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues("Timeout", "GET", "example.com/")); got != 1 {
		t.Errorf("errors total = %v, want 1", got)
	}
}

func TestClientRecordsMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)
	client := New(WithMetricsCollector(mc), WithRedirect(2, false))

	if _, err := client.Get(context.Background(), server.URL+"/start", nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	// Initial exchange + one followed hop.
	if got := testutil.CollectAndCount(mc.requestsTotal); got != 2 {
		t.Errorf("requests total series = %d, want 2", got)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	var sawRedirects bool
	for _, family := range families {
		if family.GetName() == "halite_redirects_total" {
			sawRedirects = true
		}
	}
	if !sawRedirects {
		t.Error("halite_redirects_total not registered after a followed redirect")
	}
}

func TestClientRecordsErrorMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)
	client := New(WithMetricsCollector(mc))

	if _, err := client.Request(context.Background(), "trace", "http://example.com/", nil); err == nil {
		t.Fatal("expected build error")
	}

	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues(ErrorTypeUnsupportedMethod, "TRACE", "http://example.com/")); got != 1 {
		t.Errorf("errors total = %v, want 1", got)
	}
}
