package halite

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultConnectTimeout bounds connection establishment when the caller
	// sets no connect timeout.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool.
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host.
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool.
	DefaultIdleConnTimeout = 90 * time.Second
)

// Exchange describes one wire-level request handed to a Transport: the
// connection key (Domain), verb and path, frozen headers and body bytes, and
// per-exchange deadlines. TLS carries an opaque config through to transports
// that understand it.
type Exchange struct {
	Verb           string
	Domain         string
	FullPath       string
	Headers        http.Header
	Body           []byte
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	TLS            *tls.Config
}

// ExchangeResult is the raw outcome of a single exchange.
type ExchangeResult struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Transport performs a single wire-level HTTP exchange. Implementations must
// not follow redirects themselves; the redirect loop is owned by the client.
// Failures surface as *ClientError with type Timeout or Connection.
type Transport interface {
	Exchange(ctx context.Context, ex *Exchange) (*ExchangeResult, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, ex *Exchange) (*ExchangeResult, error)

// Exchange implements Transport.
func (f TransportFunc) Exchange(ctx context.Context, ex *Exchange) (*ExchangeResult, error) {
	return f(ctx, ex)
}

// NetTransport is the default Transport on net/http. Redirect following is
// disabled at the http.Client level so every exchange returns exactly one
// response.
type NetTransport struct {
	base *http.Transport
}

// NewNetTransport creates a NetTransport with pooled connections and the
// default connect timeout.
func NewNetTransport() *NetTransport {
	dialer := &net.Dialer{Timeout: DefaultConnectTimeout}
	return &NetTransport{
		base: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		},
	}
}

// Exchange implements Transport.
func (t *NetTransport) Exchange(ctx context.Context, ex *Exchange) (*ExchangeResult, error) {
	start := time.Now()
	fullURL := ex.Domain + ex.FullPath

	if ex.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ex.ReadTimeout)
		defer cancel()
	}

	var body io.Reader
	if len(ex.Body) > 0 {
		body = bytes.NewReader(ex.Body)
	}

	req, err := http.NewRequestWithContext(ctx, ex.Verb, fullURL, body)
	if err != nil {
		return nil, newRequestError("invalid URI: " + fullURL)
	}
	if ex.Headers != nil {
		req.Header = ex.Headers.Clone()
	}

	client := &http.Client{
		Transport: t.roundTripper(ex),
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, ex.Verb, fullURL, time.Since(start))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, ex.Verb, fullURL, time.Since(start))
	}

	return &ExchangeResult{
		Status:  resp.StatusCode,
		Headers: resp.Header.Clone(),
		Body:    data,
	}, nil
}

// roundTripper returns the pooled base transport for plain exchanges and a
// clone with the per-exchange TLS config / connect timeout applied otherwise.
func (t *NetTransport) roundTripper(ex *Exchange) http.RoundTripper {
	if ex.TLS == nil && ex.ConnectTimeout == 0 {
		return t.base
	}
	tr := t.base.Clone()
	if ex.TLS != nil {
		tr.TLSClientConfig = ex.TLS
	}
	if ex.ConnectTimeout > 0 {
		dialer := &net.Dialer{Timeout: ex.ConnectTimeout}
		tr.DialContext = dialer.DialContext
	}
	return tr
}

// classifyTransportError maps raw transport failures onto the error taxonomy:
// deadline and i/o timeouts become Timeout errors, everything else a
// Connection error. Already-classified *ClientError values pass through.
func classifyTransportError(err error, verb, url string, duration time.Duration) error {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(err, verb, url, duration)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTimeoutError(err, verb, url, duration)
	}
	return newConnectionError(err, verb, url, duration)
}
