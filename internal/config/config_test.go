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

func TestMustLoadPath_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: "local"
dsn: "postgres://localhost:5432/test"
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Token.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.Token.RefreshTTL)

	// local runs get insecure fallbacks so the example config works as-is
	assert.NotEmpty(t, cfg.Token.AccessSecret)
	assert.NotEmpty(t, cfg.Token.RefreshSecret)
	assert.NotEqual(t, cfg.Token.AccessSecret, cfg.Token.RefreshSecret)
}

func TestMustLoadPath_ExplicitSecrets(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
dsn: "postgres://localhost:5432/test"
token:
  access_secret: "real-access-secret"
  refresh_secret: "real-refresh-secret"
  access_ttl: 30m
  refresh_ttl: 72h
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "real-access-secret", cfg.Token.AccessSecret)
	assert.Equal(t, "real-refresh-secret", cfg.Token.RefreshSecret)
	assert.Equal(t, 30*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.Token.RefreshTTL)
}

func TestMustLoadPath_ProdRequiresSecrets(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
dsn: "postgres://localhost:5432/test"
`)

	assert.Panics(t, func() {
		MustLoadPath(path)
	})
}

func TestMustLoadPath_MissingDSN(t *testing.T) {
	path := writeConfig(t, `
env: "local"
`)

	assert.Panics(t, func() {
		MustLoadPath(path)
	})
}

func TestMustLoadPath_MissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
