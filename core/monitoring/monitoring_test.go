package monitoring

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/gridfeed/core/model"
)

type recordMonitor struct {
	calls int
	tags  map[string]string
}

func (r *recordMonitor) CaptureException(_ error, tags map[string]string) {
	r.calls++
	r.tags = tags
}
func (r *recordMonitor) Flush(time.Duration) {}

func TestErrorClass(t *testing.T) {
	cases := map[string]error{
		"":            nil,
		"auth":        model.NewConfigError("ENTSOE", "FR", model.ErrAuth, "token missing"),
		"config":      model.NewConfigError("ENTSOE", "XX", model.ErrUnknownZone, "no domain"),
		"upstream":    fmt.Errorf("wrapped: %w", model.NewUpstreamQueryError("ENTSOE", "FR", "failed")),
		"format":      model.NewFormatError("ENTSOE", "FR", errors.New("bad resolution")),
		"unsupported": model.NewUnsupportedRequestError("HOPS", "HR", model.ErrHistoricalUnsupported),
		"unknown":     errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, ErrorClass(err), "%v", err)
	}
}

func TestCaptureFetchError(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(NopMonitor{})

	CaptureFetchError(model.NewUnsupportedRequestError("HOPS", "HR", "nope"), "HOPS", "exchange", "BA->HR")
	assert.Equal(t, 0, mon.calls)

	CaptureFetchError(model.NewUpstreamQueryError("ENTSOE", "FR", "failed"), "ENTSOE", "production", "FR")
	assert.Equal(t, 1, mon.calls)
	assert.Equal(t, "upstream", mon.tags["error_class"])
	assert.Equal(t, "FR", mon.tags["zone"])
}

func TestInitNilRestoresNop(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	Init(nil)
	CaptureException(errors.New("boom"), nil)
	assert.Equal(t, 0, mon.calls)

	Init(mon)
	defer Init(nil)
	CaptureException(nil, nil)
	assert.Equal(t, 0, mon.calls)
	CaptureException(errors.New("boom"), map[string]string{"source": "SEV"})
	assert.Equal(t, 1, mon.calls)
	assert.Equal(t, "SEV", mon.tags["source"])
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(nil)

	assert.PanicsWithValue(t, "kaboom", func() {
		defer Recover()
		panic("kaboom")
	})
	assert.Equal(t, 1, mon.calls)
	assert.Equal(t, "panic", mon.tags["module"])
}
