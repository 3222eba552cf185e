package halite

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// allowedVerbs is the closed set of HTTP methods a Request may carry.
var allowedVerbs = map[string]struct{}{
	"GET":     {},
	"POST":    {},
	"PUT":     {},
	"PATCH":   {},
	"DELETE":  {},
	"HEAD":    {},
	"OPTIONS": {},
}

// Content types derived by body negotiation.
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Request is a validated, immutable exchange description: an uppercase verb
// from the allowed set, an absolute http/https URI, frozen headers and the
// negotiated body bytes.
type Request struct {
	verb        string
	uri         *url.URL
	headers     http.Header
	body        []byte
	contentType string
}

// NewRequest validates verb and uri and negotiates the body from options.
//
// The verb is uppercased and must be one of GET, POST, PUT, PATCH, DELETE,
// HEAD, OPTIONS. The uri must carry an http or https scheme. Params are
// percent-encoded and merged onto any existing query string. Body intents are
// resolved in fixed precedence order: form, then json, then raw; the derived
// Content-Type never overrides one the caller set explicitly.
func NewRequest(verb, rawURI string, options *Options) (*Request, error) {
	if options == nil {
		options = NewOptions()
	}

	upper := strings.ToUpper(verb)
	if _, ok := allowedVerbs[upper]; !ok {
		return nil, newMethodError(upper)
	}

	uri, err := url.Parse(rawURI)
	if err != nil {
		return nil, newRequestError("invalid URI: " + rawURI)
	}
	if uri.Scheme == "" {
		return nil, newSchemeError("Missing scheme: " + rawURI)
	}
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, newSchemeError("Unknown scheme: " + uri.Scheme)
	}
	if uri.Path == "" {
		uri.Path = "/"
	}

	if len(options.Params) > 0 {
		query := uri.Query()
		for _, key := range sortedKeys(options.Params) {
			appendValues(query, key, options.Params[key])
		}
		uri.RawQuery = query.Encode()
	}

	headers := options.Headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	if cookie := options.cookieHeaderValue(); cookie != "" {
		headers.Set("Cookie", cookie)
	}

	body, derivedType, err := negotiateBody(options)
	if err != nil {
		return nil, err
	}
	if derivedType != "" && headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", derivedType)
	}

	return &Request{
		verb:        upper,
		uri:         uri,
		headers:     headers,
		body:        body,
		contentType: headers.Get("Content-Type"),
	}, nil
}

// newRequestFromParts assembles a Request from already-validated pieces. Used
// by the redirector when rewriting the next hop.
func newRequestFromParts(verb string, uri *url.URL, headers http.Header, body []byte) *Request {
	if uri.Path == "" {
		u := *uri
		u.Path = "/"
		uri = &u
	}
	return &Request{
		verb:        verb,
		uri:         uri,
		headers:     headers,
		body:        body,
		contentType: headers.Get("Content-Type"),
	}
}

// negotiateBody resolves the body intent. First match wins: a non-empty form
// map (multipart when it holds files, url-encoded otherwise), then a
// non-empty json map, then a raw string, then no body at all.
func negotiateBody(options *Options) ([]byte, string, error) {
	switch {
	case len(options.Form) > 0:
		if containsFile(options.Form) {
			return encodeMultipart(options.Form)
		}
		values := make(url.Values)
		for _, key := range sortedKeys(options.Form) {
			appendValues(values, key, options.Form[key])
		}
		return []byte(values.Encode()), ContentTypeForm, nil
	case len(options.JSON) > 0:
		encoded, err := json.Marshal(jsonValue(options.JSON))
		if err != nil {
			return nil, "", newRequestError("cannot serialize json body: " + err.Error())
		}
		return encoded, ContentTypeJSON, nil
	case options.Raw != "":
		return []byte(options.Raw), ContentTypeText, nil
	default:
		return nil, "", nil
	}
}

// encodeMultipart renders a form map containing files as multipart/form-data.
func encodeMultipart(form Map) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, key := range sortedKeys(form) {
		if err := writeMultipartValue(writer, key, form[key]); err != nil {
			return nil, "", newRequestError("cannot encode multipart body: " + err.Error())
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", newRequestError("cannot encode multipart body: " + err.Error())
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writeMultipartValue(writer *multipart.Writer, key string, v Value) error {
	switch x := v.(type) {
	case File:
		part, err := writer.CreateFormFile(key, x.Name)
		if err != nil {
			return err
		}
		if x.Reader == nil {
			return nil
		}
		_, err = io.Copy(part, x.Reader)
		return err
	case List:
		for _, item := range x {
			if err := writeMultipartValue(writer, key, item); err != nil {
				return err
			}
		}
		return nil
	case Map:
		for _, sub := range sortedKeys(x) {
			if err := writeMultipartValue(writer, key+"["+sub+"]", x[sub]); err != nil {
				return err
			}
		}
		return nil
	default:
		s, _ := scalarString(x)
		return writer.WriteField(key, s)
	}
}

// Verb returns the uppercase HTTP method.
func (r *Request) Verb() string { return r.verb }

// URI returns the parsed request URI.
func (r *Request) URI() *url.URL { return r.uri }

// Headers returns the request headers. Callers must not mutate the result.
func (r *Request) Headers() http.Header { return r.headers }

// Body returns the negotiated body bytes, nil when the request has no body.
func (r *Request) Body() []byte { return r.body }

// ContentType returns the effective Content-Type header, empty when no body
// encoding was derived and the caller set none.
func (r *Request) ContentType() string { return r.contentType }

// Domain returns scheme + userinfo + host (with port), without path, query or
// fragment. This is the transport connection key.
func (r *Request) Domain() string {
	domain := &url.URL{Scheme: r.uri.Scheme, User: r.uri.User, Host: r.uri.Host}
	return domain.String()
}

// FullPath returns path + query + fragment, with the path defaulting to "/".
func (r *Request) FullPath() string {
	path := r.uri.EscapedPath()
	if path == "" {
		path = "/"
	}
	if r.uri.RawQuery != "" {
		path += "?" + r.uri.RawQuery
	}
	if r.uri.Fragment != "" {
		path += "#" + r.uri.EscapedFragment()
	}
	return path
}
