package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "antour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddr, c.HTTP.Addr)
	assert.Equal(t, ants.DefaultParameters(), c.Defaults.Parameters)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, antourservice.DefaultCacheSize, c.Cache.Size)
	assert.Empty(t, c.HTTP.AllowedOrigins)
	assert.GreaterOrEqual(t, c.Workers, 1)
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
  rateLimit: 2
  burst: 0
  allowedOrigins: ["https://maps.example.com"]
workers: 3
cache:
  enabled: false
  size: 16
defaults:
  ants: 40
  beta: 2.5
  deposit: iteration-best
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.HTTP.Addr)
	assert.Equal(t, 2.0, c.HTTP.RateLimit)
	assert.Equal(t, 1, c.HTTP.Burst)
	assert.Equal(t, []string{"https://maps.example.com"}, c.HTTP.AllowedOrigins)
	assert.Equal(t, 3, c.Workers)
	assert.False(t, c.Cache.Enabled)
	assert.Equal(t, 40, c.Defaults.Ants)
	assert.Equal(t, 2.5, c.Defaults.Beta)
	assert.Equal(t, ants.DefaultAlpha, c.Defaults.Alpha)
	assert.Equal(t, ants.DepositIterationBest, c.Defaults.Parameters.Deposit)

	opts := c.ServiceOptions()
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 40, opts.Defaults.Ants)
	assert.False(t, opts.Cache)
	assert.Equal(t, 16, opts.CacheSize)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "defaults:\n  evaporation: 3\n"))
	assert.ErrorIs(t, err, ants.ErrInvalidInput)

	_, err = Load(writeConfig(t, "defaults:\n  deposit: elitist\n"))
	assert.ErrorIs(t, err, ants.ErrInvalidInput)

	_, err = Load(writeConfig(t, "http: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
