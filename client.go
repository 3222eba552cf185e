package halite

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client composes the layered pieces: per-call options merge onto the stored
// session options, the request builder validates and negotiates the body, the
// transport performs single exchanges, and the redirector follows bounded
// redirect chains. Set-Cookie headers learned from responses fold back into
// the stored options so later calls carry them automatically.
//
// A Client is safe for concurrent use: the stored options are never mutated
// in place, only swapped for a fresh copy under the client mutex.
type Client struct {
	mu      sync.Mutex
	options *Options

	transport    Transport
	middleware   []Middleware
	interceptors []Interceptor
	metrics      *MetricsCollector
	logger       Logger
	debug        *DebugConfig

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		options:   NewOptions(),
		transport: NewNetTransport(),
		debug:     DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Request performs a call: merge override onto the session options, build and
// validate the request, run the exchange, follow redirects per policy and
// absorb response cookies into the session. override may be nil.
func (c *Client) Request(ctx context.Context, verb, uri string, override *Options) (*Response, error) {
	effective := c.snapshotOptions().Merge(override)

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	req, err := NewRequest(verb, uri, effective)
	if err != nil {
		c.recordBuildError(err, strings.ToUpper(verb), uri)
		return nil, err
	}

	if effective.TLS != nil && req.URI().Scheme == "http" {
		err := newRequestError("SSL context given for HTTP URI = " + uri)
		c.recordBuildError(err, req.Verb(), uri)
		return nil, err
	}

	perform := c.performFunc(effective, requestID)

	resp, err := perform(ctx, req)
	if err != nil {
		return nil, err
	}

	policy := RedirectPolicy{}
	if effective.Redirect != nil {
		policy = *effective.Redirect
	}
	if policy.MaxHops > 0 && resp.IsRedirect() {
		resp, err = NewRedirector(policy).Follow(ctx, req, resp, perform)
		if err != nil {
			return nil, err
		}
		if c.metrics != nil {
			for range resp.History {
				c.metrics.RecordRedirect(req.Verb(), endpointFromRequest(req))
			}
		}
		if c.debugEnabled() && c.debug.LogRedirects && c.logger != nil {
			c.logger.Debug("Redirect chain resolved", "requestID", requestID, "hops", len(resp.History), "finalURL", resp.URI.String())
		}
	}

	c.absorbCookies(resp)

	return resp, nil
}

// performFunc binds the effective options into a single-exchange step shared
// by the initial request and every redirect hop.
func (c *Client) performFunc(effective *Options, requestID string) PerformFunc {
	transport := chainMiddleware(c.transport, c.middleware)

	return func(ctx context.Context, req *Request) (*Response, error) {
		start := time.Now()
		endpoint := endpointFromRequest(req)

		for _, interceptor := range c.interceptors {
			interceptor.OnRequest(req)
		}
		if c.debugEnabled() && c.debug.LogRequests && c.logger != nil {
			c.logger.Debug("Starting exchange", "requestID", requestID, "method", req.Verb(), "url", req.URI().String())
		}
		if c.metrics != nil {
			c.metrics.RecordRequestStart(req.Verb(), endpoint)
		}

		exchange := &Exchange{
			Verb:           req.Verb(),
			Domain:         req.Domain(),
			FullPath:       req.FullPath(),
			Headers:        req.Headers().Clone(),
			Body:           req.Body(),
			ConnectTimeout: effective.Timeout.Connect,
			ReadTimeout:    effective.Timeout.Read,
			TLS:            effective.TLS,
		}

		result, err := transport.Exchange(ctx, exchange)

		duration := time.Since(start)
		if c.metrics != nil {
			c.metrics.RecordRequestEnd(req.Verb(), endpoint)
		}

		if err != nil {
			mapped := classifyTransportError(err, req.Verb(), req.URI().String(), duration)
			if c.metrics != nil {
				c.metrics.RecordRequest(req.Verb(), endpoint, 0, duration)
				var clientErr *ClientError
				if errors.As(mapped, &clientErr) {
					c.metrics.RecordError(clientErr.Type, req.Verb(), endpoint)
				}
			}
			if c.debugEnabled() && c.logger != nil {
				c.logger.Warn("Exchange failed", "requestID", requestID, "method", req.Verb(), "url", req.URI().String(), "error", mapped.Error())
			}
			return nil, mapped
		}

		resp := &Response{
			URI:     req.URI(),
			Status:  result.Status,
			Headers: result.Headers,
			Body:    result.Body,
		}

		if c.metrics != nil {
			c.metrics.RecordRequest(req.Verb(), endpoint, resp.Status, duration)
		}
		for _, interceptor := range c.interceptors {
			interceptor.OnResponse(resp)
		}
		if c.debugEnabled() && c.debug.LogResponses && c.logger != nil {
			c.logger.Debug("Exchange finished", "requestID", requestID, "status", resp.Status, "bytes", len(resp.Body))
		}

		return resp, nil
	}
}

// absorbCookies folds Set-Cookie headers from the whole redirect chain into a
// fresh copy of the session options and swaps it in. This is the only
// mutation of long-lived state and it happens once per completed call.
func (c *Client) absorbCookies(resp *Response) {
	var cookies []*http.Cookie
	for _, prior := range resp.History {
		cookies = append(cookies, prior.Cookies()...)
	}
	cookies = append(cookies, resp.Cookies()...)
	if len(cookies) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.options.Clone()
	for _, cookie := range cookies {
		next.Cookies[cookie.Name] = cookie.Value
	}
	c.options = next

	if c.metrics != nil {
		c.metrics.RecordSessionCookies("default", len(next.Cookies))
	}
}

// snapshotOptions returns the current session options. The snapshot is safe
// to merge from because stored options are replaced, never edited in place.
func (c *Client) snapshotOptions() *Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled
}

func (c *Client) recordBuildError(err error, method, uri string) {
	if c.metrics == nil {
		return
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		c.metrics.RecordError(clientErr.Type, method, uri)
	}
}

// IsValid reports whether the construction-time configuration passed
// validation.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the construction-time validation failure, nil when
// the configuration is valid.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "GET", uri, override)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "HEAD", uri, override)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "POST", uri, override)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "PUT", uri, override)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "PATCH", uri, override)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "DELETE", uri, override)
}

// Options performs an OPTIONS request.
func (c *Client) Options(ctx context.Context, uri string, override *Options) (*Response, error) {
	return c.Request(ctx, "OPTIONS", uri, override)
}

// endpointFromRequest extracts a simplified endpoint from the request for metrics.
func endpointFromRequest(req *Request) string {
	endpoint := req.URI().Host
	if path := req.URI().Path; path != "" && path != "/" {
		endpoint += path
	} else {
		endpoint += "/"
	}
	return endpoint
}
