package config

const (
	DefaultStatnettEndpoint = "http://driftsdata.statnett.no/restapi"
	DefaultHOPSEndpoint     = "https://www.hops.hr/resources/razmjena.xml"
	DefaultSEVEndpoint      = "https://w3.sev.fo/hagtol/xml/xkiefjSDKFjeijgjdkjf3847tgfjlkfdgnlsnfvm.xml"
	DefaultCNDEndpoint      = "http://sitr.cnd.com.pa/m/pub/gen.html"
)

// SourcesConfig holds the endpoints of the smaller snapshot sources.
type SourcesConfig struct {
	Statnett string `json:"statnett"`
	HOPS     string `json:"hops"`
	SEV      string `json:"sev"`
	CND      string `json:"cnd"`
}

func (c *SourcesConfig) SetDefaults() {
	if c.Statnett == "" {
		c.Statnett = DefaultStatnettEndpoint
	}
	if c.HOPS == "" {
		c.HOPS = DefaultHOPSEndpoint
	}
	if c.SEV == "" {
		c.SEV = DefaultSEVEndpoint
	}
	if c.CND == "" {
		c.CND = DefaultCNDEndpoint
	}
}
