package halite

import "context"

// Middleware wraps the transport for cross-cutting concerns (auth headers,
// tracing, request mirroring). Middleware runs once per exchange, redirect
// hops included.
type Middleware func(ctx context.Context, ex *Exchange, next Transport) (*ExchangeResult, error)

// chainMiddleware wraps transport with the middleware slice; the last
// middleware wraps first so the slice reads outermost-first at call sites.
func chainMiddleware(transport Transport, middleware []Middleware) Transport {
	if len(middleware) == 0 {
		return transport
	}
	current := transport
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := current
		current = TransportFunc(func(ctx context.Context, ex *Exchange) (*ExchangeResult, error) {
			return mw(ctx, ex, next)
		})
	}
	return current
}

// Interceptor observes each exchange: OnRequest fires before the wire call,
// OnResponse after it. Interceptors must not mutate what they are handed.
type Interceptor interface {
	OnRequest(req *Request)
	OnResponse(resp *Response)
}

// LoggingInterceptor logs every exchange through a Logger.
type LoggingInterceptor struct {
	logger Logger
}

// NewLoggingInterceptor creates a LoggingInterceptor.
func NewLoggingInterceptor(logger Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

// OnRequest implements Interceptor.
func (li *LoggingInterceptor) OnRequest(req *Request) {
	li.logger.Info("request", "method", req.Verb(), "url", req.URI().String(), "contentType", req.ContentType())
}

// OnResponse implements Interceptor.
func (li *LoggingInterceptor) OnResponse(resp *Response) {
	li.logger.Info("response", "status", resp.Status, "url", resp.URI.String(), "bytes", len(resp.Body))
}
