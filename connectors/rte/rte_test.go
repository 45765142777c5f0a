package rte

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
	infratransport "github.com/kilianp07/gridfeed/infra/transport"
)

type server struct {
	mu       sync.Mutex
	requests []*http.Request
	status   int
	body     string
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	status := s.status
	s.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(s.body))
}

func (s *server) setStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *server) last() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

type staticHeaders map[string]string

func (h staticHeaders) AuthHeaders(context.Context) (map[string]string, error) { return h, nil }

func newTestClient(t *testing.T, body string, auth HeaderSource) (*Client, *server) {
	t.Helper()
	s := &server{body: body}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	t.Setenv(DefaultAPIKeyEnv, "key")
	sess, err := infratransport.NewSession(infratransport.Config{}, nil)
	require.NoError(t, err)
	cfg := Config{OpenDataEndpoint: srv.URL, Eco2mixEndpoint: srv.URL, WholesaleEndpoint: srv.URL}
	return New(cfg, sess, auth), s
}

var ref = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const eco2mixBody = `{"records": [
  {"fields": {"date_heure": "2024-03-01T11:15:00+01:00", "nucleaire": 41000, "charbon": 0, "gaz": 3000,
    "fioul": -10, "eolien": 6000, "solaire": 2000, "bioenergies": 900,
    "hydraulique_fil_eau_eclusee": 4000, "hydraulique_lacs": 2500,
    "hydraulique_step_turbinage": 300, "pompage": -1200}},
  {"fields": {"date_heure": "2024-03-01T11:00:00+01:00", "nucleaire": 41100, "charbon": 0, "gaz": 3000,
    "fioul": 100, "eolien": 6100, "solaire": 1900, "bioenergies": 900,
    "hydraulique_fil_eau_eclusee": 4000, "hydraulique_lacs": 2400,
    "hydraulique_step_turbinage": 200, "pompage": -1000}},
  {"fields": {"date_heure": "2024-03-01T11:30:00+01:00", "nucleaire": 45000, "charbon": 0, "gaz": 3000,
    "fioul": 100, "eolien": 6000, "solaire": 2000, "bioenergies": 900,
    "hydraulique_fil_eau_eclusee": 4000, "hydraulique_lacs": 2500,
    "hydraulique_step_turbinage": 300, "pompage": -1200}},
  {"fields": {"date_heure": "2024-03-01T11:45:00+01:00", "nucleaire": 0, "charbon": 0, "gaz": 0,
    "fioul": 0, "eolien": 0, "solaire": 0, "bioenergies": 0,
    "hydraulique_fil_eau_eclusee": 0, "hydraulique_lacs": 0,
    "hydraulique_step_turbinage": 0, "pompage": 0}}
]}`

func TestFetchProduction(t *testing.T) {
	c, s := newTestClient(t, eco2mixBody, nil)
	rec := &logger.Recorder{}

	got, err := c.FetchProduction(context.Background(), "FR",
		connectors.WithTargetTime(ref), connectors.WithLogger(rec))
	require.NoError(t, err)

	q := s.last().URL.Query()
	assert.Equal(t, "eco2mix-national-tr", q.Get("dataset"))
	assert.Equal(t, "date_heure >= 2024-02-29T13:00 AND date_heure <= 2024-03-01T13:00", q.Get("q"))
	assert.Equal(t, "key", q.Get("apikey"))

	// The 11:30 row jumps by 4000 MW of nuclear and the 11:45 row is idle.
	require.Len(t, got, 2)
	first := got[0]
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), first.Datetime)
	assert.Equal(t, model.Some(6400), first.Production[model.Hydro])
	assert.Equal(t, model.Some(800), first.Storage[model.Hydro])
	assert.Equal(t, model.Some(100), first.Production[model.Oil])
	assert.True(t, first.Production[model.Unknown].IsMissing())
	assert.Equal(t, ProductionSource, first.Source)

	assert.Equal(t, model.Some(0), got[1].Production[model.Oil])
	assert.Equal(t, model.Some(900), got[1].Storage[model.Hydro])
	assert.Contains(t, rec.Warnings(), "setting small negative value to 0")
	assert.Contains(t, rec.Warnings(), "datapoint has a too high production value difference")
}

func TestFetchProductionMissingColumns(t *testing.T) {
	c, _ := newTestClient(t, `{"records": [{"fields": {"date_heure": "2024-03-01T11:00:00+01:00", "nucleaire": 41000}}]}`, nil)
	rec := &logger.Recorder{}

	got, err := c.FetchProduction(context.Background(), "FR", connectors.WithLogger(rec))
	require.NoError(t, err)
	assert.Empty(t, got, "hydro is required")
	assert.Contains(t, rec.Warnings(), "Fuels not present in the API response")

	c, _ = newTestClient(t, `{"records": [{"fields": {"date_heure": "2024-03-01T11:00:00+01:00"}}]}`, nil)
	rec = &logger.Recorder{}
	got, err = c.FetchProduction(context.Background(), "FR", connectors.WithLogger(rec))
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []string{"No fuels present in the API response"}, rec.Warnings())
}

func TestFetchProductionRequiresKey(t *testing.T) {
	c, s := newTestClient(t, eco2mixBody, nil)
	t.Setenv(DefaultAPIKeyEnv, "")

	_, err := c.FetchProduction(context.Background(), "FR")
	assert.True(t, errors.Is(err, model.ErrAuth))
	assert.Nil(t, s.last())

	_, err = c.FetchProduction(context.Background(), "DE")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
}

const marketBody = `<?xml version="1.0" encoding="UTF-8"?>
<liste>
  <donneesMarche date="2024-02-29">
    <type granularite="Global" perimetre="FR">
      <valeur periode="0">60.5</valeur>
      <valeur periode="1">ND</valeur>
      <valeur periode="2">58</valeur>
    </type>
    <type granularite="Global" perimetre="DE">
      <valeur periode="0">70</valeur>
    </type>
    <type granularite="Autre" perimetre="FR">
      <valeur periode="0">1</valeur>
    </type>
  </donneesMarche>
  <donneesMarche date="2024-02-29">
    <type granularite="Global" perimetre="FR">
      <valeur periode="2">59</valeur>
    </type>
  </donneesMarche>
</liste>`

func TestFetchPrice(t *testing.T) {
	c, s := newTestClient(t, marketBody, nil)

	got, err := c.FetchPrice(context.Background(), "FR", connectors.WithTargetTime(ref))
	require.NoError(t, err)

	q := s.last().URL.Query()
	assert.Equal(t, "29/02/2024", q.Get("dateDeb"))
	assert.Equal(t, "01/03/2024", q.Get("dateFin"))
	assert.Equal(t, "donneesMarche", q.Get("type"))

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC), got[0].Datetime)
	assert.Equal(t, 60.5, got[0].Price)
	assert.Equal(t, "EUR", got[0].Currency)
	assert.Equal(t, PriceSource, got[0].Source)
	assert.Equal(t, 59.0, got[1].Price, "later duplicates win")

	de, err := c.FetchPrice(context.Background(), "DE", connectors.WithTargetTime(ref))
	require.NoError(t, err)
	require.Len(t, de, 1)
	assert.Equal(t, 70.0, de[0].Price)
}

func TestFetchPriceUpstreamError(t *testing.T) {
	c, s := newTestClient(t, "maintenance", nil)
	s.setStatus(http.StatusServiceUnavailable)

	_, err := c.FetchPrice(context.Background(), "FR")
	var upErr *model.UpstreamQueryError
	require.True(t, errors.As(err, &upErr))
	assert.Contains(t, err.Error(), "503")
}

const wholesaleBody = `{"france_power_exchanges": [{
  "start_date": "2024-02-29T00:00:00+01:00", "end_date": "2024-03-01T00:00:00+01:00",
  "updated_date": "2024-02-28T13:00:00+01:00",
  "values": [
    {"start_date": "2024-02-29T01:00:00+01:00", "end_date": "2024-02-29T02:00:00+01:00", "value": 1200, "price": 48.1},
    {"start_date": "2024-02-29T00:00:00+01:00", "end_date": "2024-02-29T01:00:00+01:00", "value": 1300, "price": 50.2}
  ]}]}`

func TestFetchWholesalePrice(t *testing.T) {
	c, s := newTestClient(t, wholesaleBody, staticHeaders{"Authorization": "Bearer tok"})

	got, err := c.FetchWholesalePrice(context.Background(), "FR", connectors.WithTargetTime(ref))
	require.NoError(t, err)

	req := s.last()
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	assert.Equal(t, "2024-02-29T13:00:00+01:00", req.URL.Query().Get("start_date"))
	assert.Equal(t, "2024-03-01T13:00:00+01:00", req.URL.Query().Get("end_date"))

	require.Len(t, got, 2)
	assert.Equal(t, 50.2, got[0].Price)
	assert.Equal(t, time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC), got[0].Datetime)
	assert.Equal(t, WholesaleSource, got[1].Source)
}

func TestFetchWholesalePriceRequiresCredentials(t *testing.T) {
	c, s := newTestClient(t, wholesaleBody, nil)
	_, err := c.FetchWholesalePrice(context.Background(), "FR")
	assert.True(t, errors.Is(err, model.ErrAuth))
	assert.Nil(t, s.last())
}

func TestFetchWholesalePriceBadDate(t *testing.T) {
	c, _ := newTestClient(t, `{"france_power_exchanges": [{"values": [{"start_date": "yesterday"}]}]}`, staticHeaders{})
	_, err := c.FetchWholesalePrice(context.Background(), "FR", connectors.WithTargetTime(ref))
	var fmtErr *model.FormatError
	assert.True(t, errors.As(err, &fmtErr))
}
