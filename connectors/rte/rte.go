// Package rte collects French data published by the transmission system
// operator: the eco2mix production mix, the eco2mix market prices and the
// OAuth protected wholesale market API.
package rte

import (
	"context"
	"time"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/transport"
)

const parserName = "RTE"

const (
	DefaultOpenDataEndpoint  = "https://opendata.reseaux-energies.fr/api/records/1.0/search/"
	DefaultEco2mixEndpoint   = "https://www.rte-france.com/getEco2MixXml.php"
	DefaultWholesaleEndpoint = "https://digital.iservices.rte-france.com/open_api/wholesale_market/v2/france_power_exchanges"
	DefaultAPIKeyEnv         = "RESEAUX_ENERGIES_TOKEN"
)

// HeaderSource returns the authorization headers of an API call.
// *auth.ClientCred implements it.
type HeaderSource interface {
	AuthHeaders(ctx context.Context) (map[string]string, error)
}

// Config locates the RTE endpoints.
type Config struct {
	OpenDataEndpoint  string
	Eco2mixEndpoint   string
	WholesaleEndpoint string
	// APIKeyEnv names the environment variable holding the open data key.
	APIKeyEnv string
}

func (c *Config) setDefaults() {
	if c.OpenDataEndpoint == "" {
		c.OpenDataEndpoint = DefaultOpenDataEndpoint
	}
	if c.Eco2mixEndpoint == "" {
		c.Eco2mixEndpoint = DefaultEco2mixEndpoint
	}
	if c.WholesaleEndpoint == "" {
		c.WholesaleEndpoint = DefaultWholesaleEndpoint
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
}

// Client fetches RTE data. auth may be nil when wholesale prices are not
// used.
type Client struct {
	cfg     Config
	session transport.Session
	auth    HeaderSource
}

// New returns a Client.
func New(cfg Config, session transport.Session, auth HeaderSource) *Client {
	cfg.setDefaults()
	return &Client{cfg: cfg, session: session, auth: auth}
}

func (c *Client) options(opts []connectors.Option) (connectors.Options, error) {
	return connectors.NewOptions(c.session, opts...)
}

var paris = mustLoadLocation("Europe/Paris")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
