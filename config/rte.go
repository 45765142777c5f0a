package config

import (
	"fmt"

	"github.com/kilianp07/gridfeed/auth"
)

const (
	DefaultRTEOpenDataEndpoint  = "https://opendata.reseaux-energies.fr/api/records/1.0/search/"
	DefaultRTEEco2mixEndpoint   = "https://www.rte-france.com/getEco2MixXml.php"
	DefaultRTEWholesaleEndpoint = "https://digital.iservices.rte-france.com/open_api/wholesale_market/v2/france_power_exchanges"
	DefaultRTEAPIKeyEnv         = "RESEAUX_ENERGIES_TOKEN"
)

// RTEConfig defines the endpoints of the French grid operator sources.
type RTEConfig struct {
	OpenDataEndpoint  string `json:"opendata_endpoint"`
	Eco2mixEndpoint   string `json:"eco2mix_endpoint"`
	WholesaleEndpoint string `json:"wholesale_endpoint"`
	// APIKeyEnv names the environment variable holding the open data key.
	APIKeyEnv string `json:"apikey_env"`
	// OAuth holds the Data API client credentials used for wholesale prices.
	OAuth auth.Conf `json:"oauth"`
}

func (c *RTEConfig) SetDefaults() {
	if c.OpenDataEndpoint == "" {
		c.OpenDataEndpoint = DefaultRTEOpenDataEndpoint
	}
	if c.Eco2mixEndpoint == "" {
		c.Eco2mixEndpoint = DefaultRTEEco2mixEndpoint
	}
	if c.WholesaleEndpoint == "" {
		c.WholesaleEndpoint = DefaultRTEWholesaleEndpoint
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultRTEAPIKeyEnv
	}
}

func (c RTEConfig) Validate() error {
	if err := c.OAuth.Validate(); err != nil {
		return fmt.Errorf("oauth: %w", err)
	}
	return nil
}
