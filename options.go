package halite

import (
	"crypto/tls"
	"encoding/base64"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/megatux/halite/internal/headerconv"
)

// Default header values applied at construction time. Caller-provided headers
// with the same key overwrite them.
var (
	DefaultUserAgent  = "halite/" + strings.TrimPrefix(Version, "v")
	DefaultAccept     = "*/*"
	DefaultConnection = "keep-alive"
)

// Timeout carries per-exchange deadlines. A zero field means "not set" and is
// inherited from the base during a merge.
type Timeout struct {
	Connect time.Duration
	Read    time.Duration
}

// RedirectPolicy bounds the redirect loop. MaxHops 0 (the default) means
// redirects are never followed. Strict governs 301/302 handling: when true
// the original method and body are preserved, when false the follow-up is
// rewritten to a bodiless GET (legacy browser behavior). 303 and 307/308 are
// unaffected by Strict.
type RedirectPolicy struct {
	MaxHops int
	Strict  bool
}

// Options is the layered configuration for a client or a single call:
// headers, cookies, timeouts, redirect policy and at most one body intent
// (params count as URI configuration, not a body). A long-lived Options is
// owned by the client and replaced copy-on-write after every completed call;
// short-lived per-call Options merge onto it without mutating it.
type Options struct {
	Headers  http.Header
	Cookies  map[string]string
	Timeout  Timeout
	Redirect *RedirectPolicy
	Params   Map
	Form     Map
	JSON     Map
	Raw      string
	TLS      *tls.Config
}

// NewOptions creates an Options with the construction-time default headers
// and a never-follow redirect policy.
func NewOptions() *Options {
	o := &Options{
		Headers:  make(http.Header),
		Cookies:  make(map[string]string),
		Redirect: &RedirectPolicy{MaxHops: 0, Strict: true},
		Params:   make(Map),
		Form:     make(Map),
		JSON:     make(Map),
	}
	o.Headers.Set("User-Agent", DefaultUserAgent)
	o.Headers.Set("Accept", DefaultAccept)
	o.Headers.Set("Connection", DefaultConnection)
	return o
}

// SetHeader sets a header, normalizing the key (underscores become hyphens,
// segments are capitalized). Returns o for chaining.
func (o *Options) SetHeader(key, value string) *Options {
	o.ensureMaps()
	o.Headers.Set(headerconv.Canonical(key), value)
	return o
}

// AddHeader appends a header value without replacing existing ones.
func (o *Options) AddHeader(key, value string) *Options {
	o.ensureMaps()
	o.Headers.Add(headerconv.Canonical(key), value)
	return o
}

// SetCookie sets a cookie sent with every request built from these options.
func (o *Options) SetCookie(name, value string) *Options {
	o.ensureMaps()
	o.Cookies[name] = value
	return o
}

// SetParam sets a query parameter. Values are converted with ValueOf.
func (o *Options) SetParam(key string, value interface{}) *Options {
	o.ensureMaps()
	o.Params[key] = ValueOf(value)
	return o
}

// SetForm sets a form field. Any File value anywhere in the form map switches
// the body to multipart encoding.
func (o *Options) SetForm(key string, value interface{}) *Options {
	o.ensureMaps()
	o.Form[key] = ValueOf(value)
	return o
}

// SetJSON sets a JSON body field.
func (o *Options) SetJSON(key string, value interface{}) *Options {
	o.ensureMaps()
	o.JSON[key] = ValueOf(value)
	return o
}

// SetRaw sets a raw text body.
func (o *Options) SetRaw(body string) *Options {
	o.Raw = body
	return o
}

// SetTimeout sets the connect and read deadlines passed to the transport.
func (o *Options) SetTimeout(connect, read time.Duration) *Options {
	o.Timeout = Timeout{Connect: connect, Read: read}
	return o
}

// SetRedirect sets the redirect policy for calls built from these options.
func (o *Options) SetRedirect(maxHops int, strict bool) *Options {
	o.Redirect = &RedirectPolicy{MaxHops: maxHops, Strict: strict}
	return o
}

// SetTLS attaches a TLS config handed through to the transport. Combining a
// TLS config with a plain http URI fails the call with a Request error.
func (o *Options) SetTLS(config *tls.Config) *Options {
	o.TLS = config
	return o
}

// SetBasicAuth sets the Authorization header from a username and password.
func (o *Options) SetBasicAuth(username, password string) *Options {
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return o.SetHeader("Authorization", "Basic "+credentials)
}

// Clone deep-copies o. Collection values are copied; TLS configs and file
// readers are shared.
func (o *Options) Clone() *Options {
	out := &Options{
		Headers: o.Headers.Clone(),
		Cookies: make(map[string]string, len(o.Cookies)),
		Timeout: o.Timeout,
		Raw:     o.Raw,
		TLS:     o.TLS,
		Params:  make(Map, len(o.Params)),
		Form:    make(Map, len(o.Form)),
		JSON:    make(Map, len(o.JSON)),
	}
	if out.Headers == nil {
		out.Headers = make(http.Header)
	}
	for k, v := range o.Cookies {
		out.Cookies[k] = v
	}
	if o.Redirect != nil {
		policy := *o.Redirect
		out.Redirect = &policy
	}
	for k, v := range o.Params {
		out.Params[k] = cloneValue(v)
	}
	for k, v := range o.Form {
		out.Form[k] = cloneValue(v)
	}
	for k, v := range o.JSON {
		out.JSON[k] = cloneValue(v)
	}
	return out
}

// Merge combines o with other and returns a new Options; neither input is
// mutated. Header, cookie, param, form and json keys present in other
// overwrite or extend the base (shallow per-key overwrite, no deep merging of
// nested values). Raw, TLS, redirect policy and each timeout field replace
// the base only when explicitly set in other. Cookies are re-derived from the
// merged header set afterwards so header-set cookies and explicit cookie
// calls stay consistent.
func (o *Options) Merge(other *Options) *Options {
	out := o.Clone()
	if other == nil {
		return out
	}
	for key, values := range other.Headers {
		out.Headers[key] = append([]string(nil), values...)
	}
	for name, value := range other.Cookies {
		out.Cookies[name] = value
	}
	for key, value := range other.Params {
		out.Params[key] = cloneValue(value)
	}
	for key, value := range other.Form {
		out.Form[key] = cloneValue(value)
	}
	for key, value := range other.JSON {
		out.JSON[key] = cloneValue(value)
	}
	if other.Raw != "" {
		out.Raw = other.Raw
	}
	if other.Timeout.Connect != 0 {
		out.Timeout.Connect = other.Timeout.Connect
	}
	if other.Timeout.Read != 0 {
		out.Timeout.Read = other.Timeout.Read
	}
	if other.Redirect != nil {
		policy := *other.Redirect
		out.Redirect = &policy
	}
	if other.TLS != nil {
		out.TLS = other.TLS
	}
	out.rederiveCookies()
	return out
}

// rederiveCookies folds cookie pairs present in the Cookie header into the
// cookie map. Explicit SetCookie entries win on name conflicts.
func (o *Options) rederiveCookies() {
	for _, headerValue := range o.Headers.Values("Cookie") {
		for _, pair := range strings.Split(headerValue, ";") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			name, value, found := strings.Cut(pair, "=")
			if !found {
				continue
			}
			if _, exists := o.Cookies[name]; !exists {
				o.Cookies[name] = value
			}
		}
	}
}

// cookieHeaderValue renders the cookie map as a Cookie header value with
// deterministic (sorted) ordering. Empty when no cookies are set.
func (o *Options) cookieHeaderValue() string {
	if len(o.Cookies) == 0 {
		return ""
	}
	names := make([]string, 0, len(o.Cookies))
	for name := range o.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+o.Cookies[name])
	}
	return strings.Join(pairs, "; ")
}

func (o *Options) ensureMaps() {
	if o.Headers == nil {
		o.Headers = make(http.Header)
	}
	if o.Cookies == nil {
		o.Cookies = make(map[string]string)
	}
	if o.Params == nil {
		o.Params = make(Map)
	}
	if o.Form == nil {
		o.Form = make(Map)
	}
	if o.JSON == nil {
		o.JSON = make(Map)
	}
}
