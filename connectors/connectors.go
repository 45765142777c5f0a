// Package connectors holds what every upstream collector shares: the
// optional inputs of a fetch call and the uniform function shape the
// factory registers.
package connectors

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/transport"
)

// ErrIncompatibleOption is the format of errors returned by options a
// collector cannot honour.
const ErrIncompatibleOption = "option %s is not supported by %s"

// Options carries the optional inputs of a fetch call.
type Options struct {
	// Session replaces the collector's default transport when set.
	Session    transport.Session
	// TargetTime requests historical data. The zero value means "now".
	TargetTime time.Time
	Logger     logger.Logger
	// Now is the clock used to drop future timestamps.
	Now        func() time.Time
}

// Option mutates Options.
type Option func(*Options) error

// WithSession injects the transport session used for the call.
func WithSession(s transport.Session) Option {
	return func(o *Options) error {
		if s == nil {
			return fmt.Errorf("nil session")
		}
		o.Session = s
		return nil
	}
}

// WithTargetTime asks for data around t instead of the latest data.
func WithTargetTime(t time.Time) Option {
	return func(o *Options) error {
		o.TargetTime = t.UTC()
		return nil
	}
}

// WithLogger routes warnings about corrected or dropped values to l.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) error {
		if l != nil {
			o.Logger = l
		}
		return nil
	}
}

// WithClock overrides the clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) error {
		if now != nil {
			o.Now = now
		}
		return nil
	}
}

// NewOptions applies opts over the defaults. def is the session used when
// none is injected.
func NewOptions(def transport.Session, opts ...Option) (Options, error) {
	o := Options{Session: def, Logger: logger.NopLogger{}, Now: time.Now}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	if o.Session == nil {
		return Options{}, fmt.Errorf("no transport session")
	}
	return o, nil
}

// Target returns the requested time and whether one was set.
func (o Options) Target() (time.Time, bool) {
	return o.TargetTime, !o.TargetTime.IsZero()
}

// Reference returns the target time, or the current time when unset.
func (o Options) Reference() time.Time {
	if t, ok := o.Target(); ok {
		return t
	}
	return o.Now().UTC()
}

// RequireLive fails with an UnsupportedRequestError when a target time was
// requested from a snapshot-only source.
func (o Options) RequireLive(parser string, zone string) error {
	if _, ok := o.Target(); ok {
		return model.NewUnsupportedRequestError(parser, zone, model.ErrHistoricalUnsupported)
	}
	return nil
}

// Func is the uniform shape of a registered collector. key is a zone key or,
// for exchange kinds, an "A->B" pair in caller order.
type Func func(ctx context.Context, key string, opts ...Option) ([]model.Record, error)

// ZoneFetcher fetches records of one zone.
type ZoneFetcher[T model.Record] func(ctx context.Context, zone model.ZoneKey, opts ...Option) ([]T, error)

// ExchangeFetcher fetches the exchange between two zones.
type ExchangeFetcher func(ctx context.Context, zone1, zone2 model.ZoneKey, opts ...Option) ([]model.ExchangeRecord, error)

// ForZone adapts a ZoneFetcher to Func.
func ForZone[T model.Record](f ZoneFetcher[T]) Func {
	return func(ctx context.Context, key string, opts ...Option) ([]model.Record, error) {
		recs, err := f(ctx, model.ZoneKey(key), opts...)
		if err != nil {
			return nil, err
		}
		return model.Records(recs), nil
	}
}

// ForExchange adapts an ExchangeFetcher to Func. The pair keeps the order
// given by the caller.
func ForExchange(f ExchangeFetcher) Func {
	return func(ctx context.Context, key string, opts ...Option) ([]model.Record, error) {
		parts := strings.Split(key, model.ExchangeSeparator)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid exchange key %q", key)
		}
		recs, err := f(ctx, model.ZoneKey(parts[0]), model.ZoneKey(parts[1]), opts...)
		if err != nil {
			return nil, err
		}
		return model.Records(recs), nil
	}
}

// Get issues a GET through the options' session and returns the body of a
// 2xx response. Other statuses become an UpstreamQueryError.
func Get(ctx context.Context, o Options, parser, zone, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	res, err := o.Session.Get(ctx, rawURL, params, headers)
	if err != nil {
		return nil, model.NewUpstreamQueryError(parser, zone, "request failed: %v", err)
	}
	if !res.OK() {
		return nil, model.NewUpstreamQueryError(parser, zone, "unexpected status code %d: %s", res.StatusCode, truncate(res.Text(), 200))
	}
	return res.Body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
