package config

import "fmt"

const (
	DefaultENTSOEEndpoint = "https://transparency.entsoe.eu/api"
	DefaultENTSOETokenEnv = "ENTSOE_TOKEN"
)

// ENTSOEConfig locates the transparency platform API and its token.
type ENTSOEConfig struct {
	Endpoint string `json:"endpoint"`
	// TokenEnv names the environment variable holding the security token.
	TokenEnv string `json:"token_env"`
}

func (c *ENTSOEConfig) SetDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultENTSOEEndpoint
	}
	if c.TokenEnv == "" {
		c.TokenEnv = DefaultENTSOETokenEnv
	}
}

func (c ENTSOEConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	return nil
}
