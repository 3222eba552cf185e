package halite

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// Response is the outcome of a call: final status, headers and body, plus the
// ordered redirect chain that led to it. A Response is owned exclusively by
// the call that produced it and is never shared between calls.
type Response struct {
	URI     *url.URL
	Status  int
	Headers http.Header
	Body    []byte

	// History holds the prior responses of this call's redirect chain in
	// order, oldest first. Empty when no redirect was followed.
	History []*Response
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsRedirect reports whether the status is one of the redirect statuses the
// redirector follows (301, 302, 303, 307, 308).
func (r *Response) IsRedirect() bool {
	return redirectStatuses[r.Status]
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Headers.Get("Content-Type")
}

// ContentLength returns the Content-Length header as an int, falling back to
// the actual body length when the header is absent or malformed.
func (r *Response) ContentLength() int {
	if v := r.Headers.Get("Content-Length"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return len(r.Body)
}

// Cookies parses the Set-Cookie headers of this response.
func (r *Response) Cookies() []*http.Cookie {
	carrier := http.Response{Header: r.Headers}
	return carrier.Cookies()
}

// String returns the body as a string.
func (r *Response) String() string {
	return string(r.Body)
}

// Get looks up a gjson path inside a JSON body, e.g. resp.Get("items.0.id").
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}
