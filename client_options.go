package halite

import (
	"crypto/tls"
	"fmt"
	"time"
)

// Option represents a configuration option for New.
type Option func(*Client)

// WithOptions merges o into the client's session defaults.
func WithOptions(o *Options) Option {
	return func(c *Client) {
		c.options = c.options.Merge(o)
	}
}

// WithTransport replaces the exchange transport.
func WithTransport(transport Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithMiddleware appends middleware wrapping the transport. Middleware runs
// once per exchange, redirect hops included.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithInterceptor registers a request/response observer.
func WithInterceptor(interceptor Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, interceptor)
	}
}

// WithHeader sets a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.options.SetHeader(key, value)
	}
}

// WithCookie sets a session cookie sent with every request.
func WithCookie(name, value string) Option {
	return func(c *Client) {
		c.options.SetCookie(name, value)
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return WithHeader("User-Agent", userAgent)
}

// WithAccept overrides the default Accept header.
func WithAccept(accept string) Option {
	return WithHeader("Accept", accept)
}

// WithBasicAuth sets the Authorization header from a username and password.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.options.SetBasicAuth(username, password)
	}
}

// WithTimeout sets the default connect and read timeouts per exchange.
func WithTimeout(connect, read time.Duration) Option {
	return func(c *Client) {
		c.options.SetTimeout(connect, read)
	}
}

// WithRedirect sets the default redirect policy. maxHops 0 disables
// following; strict preserves method and body on 301/302.
func WithRedirect(maxHops int, strict bool) Option {
	return func(c *Client) {
		c.options.SetRedirect(maxHops, strict)
	}
}

// WithTLSConfig attaches a TLS config passed through to the transport.
// Requests to plain http URIs fail while a TLS config is set.
func WithTLSConfig(config *tls.Config) Option {
	return func(c *Client) {
		c.options.SetTLS(config)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug logging with the current logger.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	problems = append(problems, c.validateTransportConfig()...)
	problems = append(problems, c.validateOptionsConfig()...)
	problems = append(problems, c.validateDebugConfig()...)

	if len(problems) > 0 {
		return &ClientError{
			Type:    ErrorTypeRequest,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}

func (c *Client) validateTransportConfig() []string {
	var problems []string

	if c.transport == nil {
		problems = append(problems, "transport cannot be nil")
	}
	for i, middleware := range c.middleware {
		if middleware == nil {
			problems = append(problems, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}
	for i, interceptor := range c.interceptors {
		if interceptor == nil {
			problems = append(problems, fmt.Sprintf("interceptor[%d] cannot be nil", i))
		}
	}

	return problems
}

func (c *Client) validateOptionsConfig() []string {
	var problems []string

	if c.options == nil {
		problems = append(problems, "session options cannot be nil")
		return problems
	}
	if c.options.Timeout.Connect < 0 {
		problems = append(problems, "connect timeout must be non-negative")
	}
	if c.options.Timeout.Read < 0 {
		problems = append(problems, "read timeout must be non-negative")
	}
	if c.options.Redirect != nil && c.options.Redirect.MaxHops < 0 {
		problems = append(problems, "redirect maxHops must be non-negative")
	}

	return problems
}

func (c *Client) validateDebugConfig() []string {
	var problems []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			problems = append(problems, "logger must be set when debug is enabled")
		}
	}

	return problems
}
