package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/airtimehq/airtime/internal/flagx"
	"github.com/airtimehq/airtime/internal/timex"
)

// JSONConfig is the file-facing shape of Config. It uses timex.Duration for
// the lifetime field so both "24h" strings and integer nanoseconds parse.
// After unmarshalling its fields are copied into the runtime Config.
type JSONConfig struct {
	EndpointAddr   string         `json:"endpoint_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	AdminID        string         `json:"admin_id"`
	PaymentAssetID string         `json:"payment_asset_id"`
	TokenValidity  timex.Duration `json:"token_validity"`
}

// parseJSON overlays Config from the JSON file named by the -c or -config
// flag. When neither flag is given, nothing is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AdminID = c.AdminID
	config.PaymentAssetID = c.PaymentAssetID
	config.TokenValidity = time.Duration(c.TokenValidity.Duration)
}
