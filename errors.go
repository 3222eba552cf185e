package halite

import (
	"errors"
	"fmt"
	"time"
)

// Error type discriminators carried in ClientError.Type.
const (
	// ErrorTypeUnsupportedMethod marks a verb outside the allowed set,
	// detected at request build time.
	ErrorTypeUnsupportedMethod = "UnsupportedMethod"

	// ErrorTypeUnsupportedScheme marks a URI with a missing scheme or a
	// scheme other than http/https, detected at request build time.
	ErrorTypeUnsupportedScheme = "UnsupportedScheme"

	// ErrorTypeRequest marks an invalid combination of options detected
	// before any exchange (e.g. a TLS config paired with a plain-http URI).
	ErrorTypeRequest = "Request"

	// ErrorTypeTimeout marks a transport-level connect or read timeout.
	ErrorTypeTimeout = "Timeout"

	// ErrorTypeConnection marks a transport-level socket / connection failure.
	ErrorTypeConnection = "Connection"
)

// ClientError represents an error from the client. Validation errors are
// raised before any exchange; Timeout and Connection errors surface transport
// failures unchanged. No error kind is retried internally.
type ClientError struct {
	Type      string
	Message   string
	Cause     error
	Method    string
	URL       string
	Timestamp time.Time
	Duration  time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsUnsupportedMethod reports whether err rejects the request verb.
func IsUnsupportedMethod(err error) bool { return hasErrorType(err, ErrorTypeUnsupportedMethod) }

// IsUnsupportedScheme reports whether err rejects the URI scheme.
func IsUnsupportedScheme(err error) bool { return hasErrorType(err, ErrorTypeUnsupportedScheme) }

// IsRequestError reports whether err is an invalid option combination caught
// before any exchange.
func IsRequestError(err error) bool { return hasErrorType(err, ErrorTypeRequest) }

// IsTimeout reports whether err is a transport connect/read timeout.
func IsTimeout(err error) bool { return hasErrorType(err, ErrorTypeTimeout) }

// IsConnectionError reports whether err is a transport connection failure.
func IsConnectionError(err error) bool { return hasErrorType(err, ErrorTypeConnection) }

func hasErrorType(err error, errorType string) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == errorType
	}
	return false
}

func newMethodError(verb string) *ClientError {
	return &ClientError{
		Type:      ErrorTypeUnsupportedMethod,
		Message:   fmt.Sprintf("Unknown method: %s", verb),
		Timestamp: time.Now(),
	}
}

func newSchemeError(message string) *ClientError {
	return &ClientError{
		Type:      ErrorTypeUnsupportedScheme,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func newRequestError(message string) *ClientError {
	return &ClientError{
		Type:      ErrorTypeRequest,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func newTimeoutError(cause error, method, url string, duration time.Duration) *ClientError {
	return &ClientError{
		Type:      ErrorTypeTimeout,
		Message:   "request timed out",
		Cause:     cause,
		Method:    method,
		URL:       url,
		Timestamp: time.Now(),
		Duration:  duration,
	}
}

func newConnectionError(cause error, method, url string, duration time.Duration) *ClientError {
	return &ClientError{
		Type:      ErrorTypeConnection,
		Message:   "connection failed",
		Cause:     cause,
		Method:    method,
		URL:       url,
		Timestamp: time.Now(),
		Duration:  duration,
	}
}
