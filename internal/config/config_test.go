package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
database:
  url: postgres://localhost/newsletter
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "http://0.0.0.0:8080", cfg.Server.BaseURL)
	assert.Equal(t, "postmark", cfg.Email.Provider)
	assert.Equal(t, 10*time.Second, cfg.Email.Timeout())
	assert.Equal(t, 4, cfg.Auth.VerifierWorkers)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
}

func TestLoadParsesAllSections(t *testing.T) {
	path := writeConfig(t, `
server:
  host: api.internal
  port: 9000
  base_url: https://news.example.com
database:
  url: postgres://db/newsletter
  max_open_conns: 25
email:
  provider: ses
  sender: newsletter@example.com
  timeout_seconds: 5
  ses:
    region: eu-west-1
auth:
  decoy_seed: not-a-real-password
  verifier_workers: 8
rate_limit:
  enabled: true
  redis_url: redis://localhost:6379/0
  limit: 3
  window_seconds: 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://news.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "eu-west-1", cfg.Email.SES.Region)
	assert.Equal(t, 8, cfg.Auth.VerifierWorkers)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window())
}

func TestLoadFromEnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://from-yaml/newsletter
email:
  server_token: yaml-token
`)

	t.Setenv("DATABASE_URL", "postgres://from-env/newsletter")
	t.Setenv("EMAIL_SERVER_TOKEN", "env-token")
	t.Setenv("AUTH_DECOY_SEED", "env-seed")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://from-env/newsletter", cfg.Database.URL)
	assert.Equal(t, "env-token", cfg.Email.ServerToken)
	assert.Equal(t, "env-seed", cfg.Auth.DecoySeed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
