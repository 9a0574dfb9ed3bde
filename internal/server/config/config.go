// Package config handles configuration for the server component,
// including defaults, environment variables, JSON overlay, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the airtime server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store,
//     intended for development and tests only.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test
//     defaults in prod.
//   - AdminID: account credited on purchases and allowed to manage the
//     catalog. Used to initialize a fresh store.
//   - PaymentAssetID: identifier of the asset packages are priced in.
//   - TokenValidity: bearer token lifetime.
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	SecretKey      string
	AdminID        string
	PaymentAssetID string
	TokenValidity  time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AdminID = "GADMIN"
	c.PaymentAssetID = "GTOKEN"
	c.TokenValidity = 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (including an optional .env file), an optional JSON
// file, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
