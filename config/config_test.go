package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  port: "9000"
database:
  host: localhost
  port: "5432"
  user: granite
  password: secret
  name: granite
deeplink:
  web_prefixes:
    - https://app.granite.example
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o600))
	t.Setenv("CACHE_TTL", "30s")

	LoadConfig(dir)

	assert.Equal(t, "9000", AppConfig.Server.Port)
	assert.Equal(t, "granite", AppConfig.Database.User)
	assert.Equal(t, []string{"https://app.granite.example"}, AppConfig.DeepLink.WebPrefixes)

	// defaults
	assert.Equal(t, "postgres", AppConfig.Storage.Driver)
	assert.Equal(t, "authToken", AppConfig.Storage.TokenKey)
	assert.Equal(t, "granite://", AppConfig.DeepLink.Scheme)
	assert.Equal(t, "fail", AppConfig.DeepLink.CoercionPolicy)
	assert.Equal(t, 15*time.Second, AppConfig.API.Timeout)

	// environment wins over defaults
	assert.Equal(t, 30*time.Second, AppConfig.Cache.TTL)
}
