package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, "GADMIN", cfg.AdminID)
	assert.Equal(t, "GTOKEN", cfg.PaymentAssetID)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidity)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("ADMIN_ID", "GENVADMIN")
	t.Setenv("TOKEN_VALIDITY", "30m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "GENVADMIN", cfg.AdminID)
	assert.Equal(t, "GTOKEN", cfg.PaymentAssetID, "untouched fields keep defaults")
	assert.Equal(t, 30*time.Minute, cfg.TokenValidity)
}

func TestParseEnv_BadDurationIgnored(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "whenever")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 24*time.Hour, cfg.TokenValidity)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://json",
		"secret_key": "filesecret",
		"admin_id": "GJSONADMIN",
		"payment_asset_id": "GJSONTOKEN",
		"token_validity": "90m"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "filesecret", cfg.SecretKey)
	assert.Equal(t, "GJSONADMIN", cfg.AdminID)
	assert.Equal(t, "GJSONTOKEN", cfg.PaymentAssetID)
	assert.Equal(t, 90*time.Minute, cfg.TokenValidity)
}

func TestParseJSON_NoFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-a", ":6060", "-d", "postgres://flag", "-m", "GFLAGADMIN", "-t", "15"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddr)
	assert.Equal(t, "postgres://flag", cfg.DatabaseDSN)
	assert.Equal(t, "GFLAGADMIN", cfg.AdminID)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidity)
}
