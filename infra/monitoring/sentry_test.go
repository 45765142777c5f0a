package monitoring

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridfeed/config"
	"github.com/kilianp07/gridfeed/core/model"
	coremon "github.com/kilianp07/gridfeed/core/monitoring"
)

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestDropAuthErrors(t *testing.T) {
	ev := &sentry.Event{}
	authErr := model.NewConfigError("ENTSOE", "FR", model.ErrAuth, "token missing")
	assert.Nil(t, dropAuthErrors(ev, &sentry.EventHint{OriginalException: authErr}))
	assert.Equal(t, ev, dropAuthErrors(ev, &sentry.EventHint{OriginalException: errors.New("boom")}))
	assert.Equal(t, ev, dropAuthErrors(ev, nil))
}
