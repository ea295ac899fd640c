// Package config loads the CLI configuration from defaults, an optional
// JSON file, and command-line flags, in that order of precedence.
package config

// Config holds runtime settings for the account CLI.
type Config struct {
	// ServerEndpointAddr is the base URL of the backend HTTP API.
	ServerEndpointAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8000"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
