package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridfeed/app"
	coremetrics "github.com/kilianp07/gridfeed/core/metrics"
	"github.com/kilianp07/gridfeed/core/model"
)

func TestFetchRequest(t *testing.T) {
	req, err := fetchRequest([]string{"DE"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, model.KindProduction, req.Kind)
	assert.True(t, req.Target.IsZero())

	req, err = fetchRequest([]string{"DE->FR"}, "2024-03-01T12:00:00+01:00", "ENTSOE.fetch_exchange")
	require.NoError(t, err)
	assert.Equal(t, model.KindExchange, req.Kind)
	assert.Equal(t, "ENTSOE.fetch_exchange", req.Ref)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), req.Target)

	req, err = fetchRequest([]string{"FR", "price"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, model.KindPrice, req.Kind)
}

func TestFetchRequestRejectsBadArguments(t *testing.T) {
	cases := map[string][]string{
		"bad kind":         {"DE", "weather"},
		"exchange on zone": {"DE", "exchange"},
		"price on pair":    {"DE->FR", "price"},
		"bad pair":         {"DE->"},
	}
	for name, args := range cases {
		_, err := fetchRequest(args, "", "")
		assert.Error(t, err, name)
	}
	_, err := fetchRequest([]string{"DE"}, "yesterday", "")
	assert.ErrorContains(t, err, "target-datetime")
}

func TestWriteSummary(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := func(h int) model.Record {
		return model.NewProductionRecord("DE", now.Add(time.Duration(h)*time.Hour), "test")
	}
	res := &app.Result{
		Ref:      "ENTSOE.fetch_production",
		Records:  []model.Record{rec(-5), rec(-7), rec(-3)},
		Issues:   []coremetrics.QualityIssue{{Zone: "DE", Reason: "required generation type nuclear is missing"}},
		Duration: 1500 * time.Millisecond,
	}
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetErr(&buf)
	require.NoError(t, writeSummary(c, app.Request{Kind: model.KindProduction}, res, now))

	out := buf.String()
	assert.Contains(t, out, "ENTSOE.fetch_production took 1.5s")
	assert.Contains(t, out, "quality check failed: required generation type nuclear is missing")
	assert.Contains(t, out, "min returned datetime: 2024-03-01T05:00:00Z UTC")
	assert.Contains(t, out, "max returned datetime: 2024-03-01T09:00:00Z UTC")
	assert.Contains(t, out, "WARNING")

	buf.Reset()
	require.NoError(t, writeSummary(c, app.Request{Kind: model.KindProduction, Target: now}, res, now))
	assert.NotContains(t, buf.String(), "WARNING")

	buf.Reset()
	require.NoError(t, writeSummary(c, app.Request{}, &app.Result{Ref: "x"}, now))
	assert.Contains(t, buf.String(), "no records returned")
}
