package halite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNetTransportExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/things" {
			t.Errorf("path = %q, want /things", r.URL.Path)
		}
		if got := r.Header.Get("X-Token"); got != "secret" {
			t.Errorf("X-Token = %q, want secret", got)
		}
		w.Header().Set("X-Server", "yes")
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, "accepted")
	}))
	defer server.Close()

	headers := make(http.Header)
	headers.Set("X-Token", "secret")

	transport := NewNetTransport()
	result, err := transport.Exchange(context.Background(), &Exchange{
		Verb:     "POST",
		Domain:   server.URL,
		FullPath: "/things",
		Headers:  headers,
		Body:     []byte("data"),
	})

	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if result.Status != http.StatusAccepted {
		t.Errorf("status = %d, want 202", result.Status)
	}
	if got := result.Headers.Get("X-Server"); got != "yes" {
		t.Errorf("X-Server = %q, want yes", got)
	}
	if string(result.Body) != "accepted" {
		t.Errorf("body = %q, want accepted", result.Body)
	}
}

func TestNetTransportDoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/other", http.StatusMovedPermanently)
	}))
	defer server.Close()

	transport := NewNetTransport()
	result, err := transport.Exchange(context.Background(), &Exchange{
		Verb:     "GET",
		Domain:   server.URL,
		FullPath: "/",
	})

	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if result.Status != http.StatusMovedPermanently {
		t.Errorf("status = %d, want 301 (the transport must return one response)", result.Status)
	}
	if got := result.Headers.Get("Location"); got != "/other" {
		t.Errorf("Location = %q, want /other", got)
	}
}

func TestNetTransportReadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	transport := NewNetTransport()
	_, err := transport.Exchange(context.Background(), &Exchange{
		Verb:        "GET",
		Domain:      server.URL,
		FullPath:    "/",
		ReadTimeout: 30 * time.Millisecond,
	})

	if !IsTimeout(err) {
		t.Errorf("error = %v, want Timeout type", err)
	}
}

func TestNetTransportConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	domain := server.URL
	server.Close()

	transport := NewNetTransport()
	_, err := transport.Exchange(context.Background(), &Exchange{
		Verb:     "GET",
		Domain:   domain,
		FullPath: "/",
	})

	if !IsConnectionError(err) {
		t.Errorf("error = %v, want Connection type", err)
	}
}

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	if err := classifyTransportError(context.DeadlineExceeded, "GET", "http://x/", time.Second); !IsTimeout(err) {
		t.Errorf("deadline exceeded classified as %v, want Timeout", err)
	}

	var netErr net.Error = fakeTimeoutError{}
	wrapped := &url.Error{Op: "Get", URL: "http://x/", Err: netErr}
	if err := classifyTransportError(wrapped, "GET", "http://x/", time.Second); !IsTimeout(err) {
		t.Errorf("net timeout classified as %v, want Timeout", err)
	}

	if err := classifyTransportError(errors.New("connection refused"), "GET", "http://x/", time.Second); !IsConnectionError(err) {
		t.Errorf("plain failure classified as %v, want Connection", err)
	}

	already := newTimeoutError(nil, "GET", "http://x/", time.Second)
	if err := classifyTransportError(already, "GET", "http://x/", time.Second); err != already {
		t.Error("already-classified errors must pass through unchanged")
	}
}
