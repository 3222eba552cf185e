package halite

import (
	"context"
	"net/http"
	"net/url"
)

// redirectStatuses is the set of statuses the redirector follows.
var redirectStatuses = map[int]bool{
	http.StatusMovedPermanently:  true, // 301
	http.StatusFound:             true, // 302
	http.StatusSeeOther:          true, // 303
	http.StatusTemporaryRedirect: true, // 307
	http.StatusPermanentRedirect: true, // 308
}

// PerformFunc executes a single exchange for a prepared request. The
// redirector is handed one by the client so its transition logic stays free
// of transport concerns.
type PerformFunc func(ctx context.Context, req *Request) (*Response, error)

// Redirector drives a bounded redirect-following loop. Each step either stops
// (non-redirect status, hop budget spent, or no usable Location header) or
// rewrites the next request per HTTP semantics:
//
//   - 303: method becomes GET, body is dropped, always.
//   - 307, 308: method and body are preserved, always.
//   - 301, 302: preserved when Strict, otherwise rewritten to a bodiless GET.
//
// Termination is guaranteed within MaxHops additional exchanges; there is no
// cycle detection beyond the hop counter. Running out of hops is not an
// error: the last response is returned as final and the caller can inspect
// its status.
type Redirector struct {
	policy RedirectPolicy
}

// NewRedirector creates a Redirector with the given policy.
func NewRedirector(policy RedirectPolicy) *Redirector {
	return &Redirector{policy: policy}
}

// Follow runs the redirect loop starting from an already-performed
// request/response pair. It appends each hop's response to the next one's
// history, so the returned response carries the full ordered chain. An
// exchange failure mid-chain aborts the whole call; the redirector never
// converts a failure into a "stop following" outcome.
func (rd *Redirector) Follow(ctx context.Context, req *Request, resp *Response, perform PerformFunc) (*Response, error) {
	current := req
	final := resp
	var chain []*Response

	for hop := 0; ; hop++ {
		next, done := rd.decide(current, final, hop)
		if done {
			return final, nil
		}

		chain = append(chain, final)

		followed, err := perform(ctx, next)
		if err != nil {
			return nil, err
		}
		followed.History = append([]*Response(nil), chain...)

		current = next
		final = followed
	}
}

// decide is the pure transition function: given the current request/response
// pair and the hop count, it either stops or produces the rewritten next
// request. No side effects, no suspension.
func (rd *Redirector) decide(req *Request, resp *Response, hop int) (*Request, bool) {
	if !redirectStatuses[resp.Status] || hop >= rd.policy.MaxHops {
		return nil, true
	}

	location := resp.Headers.Get("Location")
	if location == "" {
		return nil, true
	}
	target, err := url.Parse(location)
	if err != nil {
		return nil, true
	}
	nextURI := req.URI().ResolveReference(target)

	verb, body := rd.rewrite(resp.Status, req.Verb(), req.Body())

	headers := req.Headers().Clone()
	if body == nil {
		headers.Del("Content-Type")
	}

	return newRequestFromParts(verb, nextURI, headers, body), false
}

// rewrite applies the per-status method/body rules.
func (rd *Redirector) rewrite(status int, verb string, body []byte) (string, []byte) {
	switch status {
	case http.StatusSeeOther:
		return "GET", nil
	case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return verb, body
	default: // 301, 302
		if rd.policy.Strict {
			return verb, body
		}
		return "GET", nil
	}
}
