package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic_prefix: "grid"
  qos: 1
metrics:
  sinks:
    - type: "nop"
entsoe:
  token_env: "MY_TOKEN"
rte:
  oauth:
    client_id: "id"
    client_secret: "secret"
    auth_url: "https://example.test/token"
http:
  timeout_seconds: 5
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"username", cfg.MQTT.Username, "user"},
		{"password", cfg.MQTT.Password, "pass"},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "grid"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"entsoe.endpoint", cfg.ENTSOE.Endpoint, DefaultENTSOEEndpoint},
		{"entsoe.token_env", cfg.ENTSOE.TokenEnv, "MY_TOKEN"},
		{"rte.oauth.client_id", cfg.RTE.OAuth.ClientID, "id"},
		{"rte.apikey_env", cfg.RTE.APIKeyEnv, DefaultRTEAPIKeyEnv},
		{"http.timeout_seconds", cfg.HTTP.TimeoutSeconds, 5},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"sources.hops", cfg.Sources.HOPS, DefaultHOPSEndpoint},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, DefaultENTSOETokenEnv, cfg.ENTSOE.TokenEnv)
	assert.False(t, cfg.MQTT.Enabled())
	assert.False(t, cfg.Sentry.Enabled())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_ENTSOE__ENDPOINT", "http://localhost:9999/api")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/api", cfg.ENTSOE.Endpoint)
}

func TestLoadRejectsInvalidSections(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"level":  `{"logging": {"level": "loud"}}`,
		"oauth":  `{"rte": {"oauth": {"client_id": "id"}}}`,
		"qos":    `{"mqtt": {"qos": 3}}`,
		"sentry": `{"sentry": {"traces_sample_rate": 2}}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(dir, "config.toml"))
	assert.ErrorContains(t, err, "unsupported config format")
}
