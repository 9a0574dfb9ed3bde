package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is merged in first without overriding variables the
// process already carries. A missing .env is not an error.
//
// Recognized variables:
//
//	ADDRESS           HTTP bind address
//	DATABASE_DSN      PostgreSQL DSN, empty selects the in-memory store
//	SECRET_KEY        JWT HMAC secret
//	ADMIN_ID          admin account id
//	PAYMENT_ASSET_ID  payment asset id
//	TOKEN_VALIDITY    bearer token lifetime, Go duration string
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ADMIN_ID"); ok {
		config.AdminID = v
	}
	if v, ok := os.LookupEnv("PAYMENT_ASSET_ID"); ok {
		config.PaymentAssetID = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidity = d
		}
	}
}
