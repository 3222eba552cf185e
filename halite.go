package halite

import (
	"context"
	"sync"
)

// Module-level one-shot API backed by a lazily-created shared client. The
// shared client keeps session state like any other, so cookies set by one
// package-level call are sent on the next.
//
// There is no package-level Options helper: the name is taken by the Options
// type. Use DefaultClient().Options for one-shot OPTIONS requests.

var (
	defaultClient     *Client
	defaultClientOnce sync.Once
)

// DefaultClient returns the shared client used by the package-level verb
// helpers.
func DefaultClient() *Client {
	defaultClientOnce.Do(func() {
		defaultClient = New()
	})
	return defaultClient
}

// Get performs a GET request with the shared client. override may be nil.
func Get(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Get(ctx, uri, override)
}

// Head performs a HEAD request with the shared client.
func Head(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Head(ctx, uri, override)
}

// Post performs a POST request with the shared client.
func Post(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Post(ctx, uri, override)
}

// Put performs a PUT request with the shared client.
func Put(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Put(ctx, uri, override)
}

// Patch performs a PATCH request with the shared client.
func Patch(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Patch(ctx, uri, override)
}

// Delete performs a DELETE request with the shared client.
func Delete(ctx context.Context, uri string, override *Options) (*Response, error) {
	return DefaultClient().Delete(ctx, uri, override)
}
