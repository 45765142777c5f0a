package transport

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kilianp07/gridfeed/core/logger"
	coretransport "github.com/kilianp07/gridfeed/core/transport"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "gridfeed/1.0"

// Config tunes the HTTP client.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Session is a resty-backed transport.Session with a cookie jar.
type Session struct {
	client *resty.Client
	log    logger.Logger
}

// NewSession builds a Session. A nil logger disables request logging.
func NewSession(cfg Config, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client := resty.New()
	client.SetCookieJar(jar)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	} else {
		client.SetTimeout(30 * time.Second)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client.SetHeader("User-Agent", ua)

	s := &Session{client: client, log: log}
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		s.log.Debugw("start request", map[string]any{"method": req.Method, "url": req.URL})
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		s.log.Debugw("request done", map[string]any{
			"method":   res.Request.Method,
			"url":      res.Request.URL,
			"status":   res.StatusCode(),
			"duration": res.Time().String(),
		})
		return nil
	})
	return s, nil
}

// Get issues a GET with query params and headers.
func (s *Session) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*coretransport.Response, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetHeaders(headers).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	return toResponse(res), nil
}

// PostForm issues a form-encoded POST.
func (s *Session) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (*coretransport.Response, error) {
	res, err := s.client.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetHeaders(headers).
		Post(rawURL)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", rawURL, err)
	}
	return toResponse(res), nil
}

func toResponse(res *resty.Response) *coretransport.Response {
	return &coretransport.Response{
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
		Cookies:    res.Cookies(),
	}
}

var _ coretransport.Session = (*Session)(nil)
