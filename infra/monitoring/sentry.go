package monitoring

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/kilianp07/gridfeed/config"
	"github.com/kilianp07/gridfeed/core/model"
	coremon "github.com/kilianp07/gridfeed/core/monitoring"
)

// NewSentryMonitor initializes Sentry using the provided configuration and
// returns a Monitor implementation.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if !cfg.Enabled() {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		BeforeSend:       dropAuthErrors,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{}, nil
}

// dropAuthErrors discards missing-credential errors, which are local
// misconfiguration rather than collector failures.
func dropAuthErrors(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint != nil && hint.OriginalException != nil && errors.Is(hint.OriginalException, model.ErrAuth) {
		return nil
	}
	return event
}

type sentryMonitor struct{}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	if len(tags) == 0 {
		sentry.CaptureException(err)
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
