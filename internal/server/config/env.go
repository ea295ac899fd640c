package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the environment variables the deployment sets.
// CORS_ORIGINS is a comma-separated list.
type envConfig struct {
	EndpointAddr   string        `env:"ADDRESS"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	SecretKey      string        `env:"SECRET_KEY"`
	AccessTokenTTL time.Duration `env:"TOKEN_TTL"`
	CORSOrigins    string        `env:"CORS_ORIGINS"`
}

// parseEnv overlays environment variables onto config. Unset variables
// leave the current values in place.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
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
	if c.AccessTokenTTL != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenTTL
	}
	if c.CORSOrigins != "" {
		config.CORSOrigins = strings.Split(c.CORSOrigins, ",")
	}
}
