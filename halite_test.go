package halite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultClientIsShared(t *testing.T) {
	if DefaultClient() != DefaultClient() {
		t.Error("DefaultClient should return the same instance")
	}
}

func TestDefaultClientOptionsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "OPTIONS" {
			t.Errorf("method = %q, want OPTIONS", r.Method)
		}
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := DefaultClient().Options(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	if got := resp.Headers.Get("Allow"); got != "GET, POST" {
		t.Errorf("Allow = %q, want GET, POST", got)
	}
}

func TestPackageLevelGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.Status)
	}
}
