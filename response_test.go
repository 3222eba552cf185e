package halite

import (
	"net/http"
	"net/url"
	"testing"
)

func makeResponse(status int, headers map[string]string, body string) *Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	uri, _ := url.Parse("http://example.com/")
	return &Response{URI: uri, Status: status, Headers: h, Body: []byte(body)}
}

func TestResponsePredicates(t *testing.T) {
	if !makeResponse(204, nil, "").OK() {
		t.Error("204 should be OK")
	}
	if makeResponse(404, nil, "").OK() {
		t.Error("404 should not be OK")
	}
	if !makeResponse(302, nil, "").IsRedirect() {
		t.Error("302 should be a redirect")
	}
	if makeResponse(304, nil, "").IsRedirect() {
		t.Error("304 is not followed and should not report as redirect")
	}
}

func TestResponseContentHelpers(t *testing.T) {
	resp := makeResponse(200, map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": "13",
	}, `{"id":7}`)

	if got := resp.ContentType(); got != "application/json" {
		t.Errorf("ContentType = %q", got)
	}
	if got := resp.ContentLength(); got != 13 {
		t.Errorf("ContentLength = %d, want header value 13", got)
	}

	noHeader := makeResponse(200, nil, "abcd")
	if got := noHeader.ContentLength(); got != 4 {
		t.Errorf("ContentLength fallback = %d, want body length 4", got)
	}
}

func TestResponseCookies(t *testing.T) {
	h := make(http.Header)
	h.Add("Set-Cookie", "session=abc; Path=/")
	h.Add("Set-Cookie", "theme=dark")
	resp := &Response{Status: 200, Headers: h}

	cookies := resp.Cookies()
	if len(cookies) != 2 {
		t.Fatalf("parsed %d cookies, want 2", len(cookies))
	}
	if cookies[0].Name != "session" || cookies[0].Value != "abc" {
		t.Errorf("first cookie = %s=%s", cookies[0].Name, cookies[0].Value)
	}
}

func TestResponseGetJSONPath(t *testing.T) {
	resp := makeResponse(200, nil, `{"items":[{"id":7,"name":"halite"}]}`)

	if got := resp.Get("items.0.name").String(); got != "halite" {
		t.Errorf("Get(items.0.name) = %q, want halite", got)
	}
	if got := resp.Get("items.0.id").Int(); got != 7 {
		t.Errorf("Get(items.0.id) = %d, want 7", got)
	}
}
