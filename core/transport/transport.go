// Package transport defines the HTTP capability collectors call. Cookies
// received on one call are replayed on later calls of the same Session.
package transport

import (
	"context"
	"net/http"
	"net/url"
)

// Session issues requests for a collector.
type Session interface {
	Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (*Response, error)
}

// Response is the part of an HTTP response collectors read.
type Response struct {
	StatusCode int
	Body       []byte
	Cookies    []*http.Cookie
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }
