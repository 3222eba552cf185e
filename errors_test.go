package halite

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Type: ErrorTypeTimeout, Message: "request timed out"}
	if got := err.Error(); got != "Timeout: request timed out" {
		t.Errorf("Error() = %q", got)
	}

	withCause := &ClientError{Type: ErrorTypeConnection, Message: "connection failed", Cause: errors.New("refused")}
	if got := withCause.Error(); got != "Connection: connection failed (refused)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := &ClientError{Type: ErrorTypeConnection, Message: "connection failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap chain should reach the cause")
	}
}

func TestClientErrorIsComparesTypes(t *testing.T) {
	a := newTimeoutError(nil, "GET", "http://x/", time.Second)
	b := &ClientError{Type: ErrorTypeTimeout}
	c := &ClientError{Type: ErrorTypeConnection}

	if !errors.Is(a, b) {
		t.Error("same-type ClientErrors should match")
	}
	if errors.Is(a, c) {
		t.Error("different-type ClientErrors should not match")
	}
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	inner := newConnectionError(errors.New("refused"), "GET", "http://x/", time.Second)
	wrapped := fmt.Errorf("call failed: %w", inner)

	if !IsConnectionError(wrapped) {
		t.Error("IsConnectionError should see through wrapping")
	}
	if IsTimeout(wrapped) {
		t.Error("IsTimeout must not match a connection error")
	}
}

func TestDebugInfo(t *testing.T) {
	err := newTimeoutError(errors.New("deadline"), "GET", "http://example.com/slow", 2*time.Second)

	info := err.DebugInfo()
	for _, fragment := range []string{"Error Type: Timeout", "Method: GET", "URL: http://example.com/slow", "Cause: deadline"} {
		if !strings.Contains(info, fragment) {
			t.Errorf("DebugInfo missing %q:\n%s", fragment, info)
		}
	}
}

func TestNilClientError(t *testing.T) {
	var err *ClientError
	if err.Error() != "<nil>" {
		t.Errorf("nil Error() = %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("nil Unwrap() should be nil")
	}
	if err.DebugInfo() != "Error: <nil>" {
		t.Errorf("nil DebugInfo() = %q", err.DebugInfo())
	}
}
