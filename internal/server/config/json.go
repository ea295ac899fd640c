package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/saedev/sae-auth/internal/flagx"
	"github.com/saedev/sae-auth/internal/timex"
)

// JsonConfig is the DTO for reading a JSON configuration file. It uses
// timex.Duration for interval fields, which parses both string values such
// as "24h" and integer nanoseconds. After unmarshalling, non-empty fields
// are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CORSOrigins                 string         `json:"cors_origins"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing
// is loaded. An unreadable or malformed file panics: the process must not
// start on a half-applied configuration.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != time.Duration(0) {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CORSOrigins != "" {
		config.CORSOrigins = strings.Split(c.CORSOrigins, ",")
	}
}
